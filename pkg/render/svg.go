package render

import (
	"fmt"
	"strings"

	"github.com/docforge/docforge/pkg/render/markup"
)

// exportSVG renders the first page of doc to SVG, walking the same
// paragraph/field list the PDF exporter does.
func exportSVG(doc *markup.Document) []byte {
	if len(doc.Pages) == 0 {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	}
	page := doc.Pages[0]

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`,
		page.Width, page.Height, page.Width, page.Height)

	y := marginTop
	for _, line := range page.Lines {
		y += lineHeight
		fmt.Fprintf(&sb, `<text x="%g" y="%g" font-family="Helvetica" font-size="%g">%s</text>`,
			marginX, y, fontSize, escapeXML(line))
	}

	for _, f := range page.Fields {
		// SVG y grows downward; PDF fields are stored bottom-left origin.
		svgY := page.Height - f.Y - f.Height
		fmt.Fprintf(&sb, `<rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="#cccccc" data-field-id="%s" data-field-type="%s"/>`,
			f.X, svgY, f.Width, f.Height, f.ID, f.Type)
	}

	sb.WriteString(`</svg>`)
	return []byte(sb.String())
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

const (
	marginX    = 72.0
	marginTop  = 72.0
	lineHeight = 14.0
	fontSize   = 11.0
)

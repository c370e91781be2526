// Package pdfwrite is a minimal PDF object/xref/trailer writer: enough to
// emit a valid, linearizable-free PDF from a compiled markup.Document
// without pulling in a full PDF authoring library. Byte-exact
// reproduction and PDF/A conformance are explicitly out of scope.
package pdfwrite

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/docforge/docforge/pkg/render/markup"
)

const (
	lineHeight = 14.0
	fontSize   = 11.0
	marginX    = 72.0
	marginTop  = 72.0
)

// Write serializes doc to a PDF byte stream, one page per markup.Page.
func Write(doc *markup.Document) ([]byte, error) {
	var buf bytes.Buffer
	offsets := []int{0} // object 0 is free; offsets[i] = byte offset of object i

	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	numPages := len(doc.Pages)
	catalogObj := 1
	pagesObj := 2
	firstPageObj := 3
	fontObj := firstPageObj + numPages
	contentObjStart := fontObj + 1

	writeObj := func(n int, body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", n, body))
	}

	writeObj(catalogObj, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj))

	kids := make([]string, numPages)
	for i := range doc.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+i)
	}
	writeObj(pagesObj, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), numPages))

	for i, page := range doc.Pages {
		contentObj := contentObjStart + i
		writeObj(firstPageObj+i, fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, page.Width, page.Height, fontObj, contentObj,
		))
	}

	writeObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, page := range doc.Pages {
		stream := contentStream(page)
		writeObj(contentObjStart+i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefStart := buf.Len()
	totalObjs := contentObjStart + numPages
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", totalObjs))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < totalObjs; i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}

	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF", totalObjs, catalogObj, xrefStart))

	return buf.Bytes(), nil
}

func contentStream(page markup.Page) string {
	var sb strings.Builder
	sb.WriteString("BT\n")
	sb.WriteString(fmt.Sprintf("/F1 %g Tf\n", fontSize))
	y := page.Height - marginTop
	sb.WriteString(fmt.Sprintf("%g %g Td\n", marginX, y))
	for i, line := range page.Lines {
		if i > 0 {
			sb.WriteString(fmt.Sprintf("0 %g Td\n", -lineHeight))
		}
		sb.WriteString(fmt.Sprintf("(%s) Tj\n", escape(line)))
	}
	sb.WriteString("ET\n")

	for _, f := range page.Fields {
		sb.WriteString(fmt.Sprintf("q 0.8 0.8 0.8 RG %g %g %g %g re S Q\n", f.X, f.Y, f.Width, f.Height))
	}
	return sb.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `(`, `\(`)
	s = strings.ReplaceAll(s, `)`, `\)`)
	return s
}

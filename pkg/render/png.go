package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/docforge/docforge/pkg/render/markup"
)

// exportPNG rasterizes the first page of doc at pixelsPerPoint = ppi/72 and
// encodes the result to PNG. This is the one allowed nondeterministic
// field in the export pipeline: the coarse bitmap glyph placement from
// golang.org/x/image/font/basicfont does not guarantee byte-identical
// output across Go toolchain versions the way the vector PDF path does.
func exportPNG(doc *markup.Document, ppi int) []byte {
	if ppi <= 0 {
		ppi = 144
	}
	scale := float64(ppi) / 72.0

	if len(doc.Pages) == 0 {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		var buf bytes.Buffer
		_ = png.Encode(&buf, img)
		return buf.Bytes()
	}

	page := doc.Pages[0]
	w := int(page.Width * scale)
	h := int(page.Height * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	y := marginTop * scale
	for _, line := range page.Lines {
		y += lineHeight * scale
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(int(marginX * scale)),
			Y: fixed.I(int(y)),
		}
		drawer.DrawString(line)
	}

	fieldColor := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for _, f := range page.Fields {
		drawRect(img, int(f.X*scale), int((page.Height-f.Y-f.Height)*scale), int(f.Width*scale), int(f.Height*scale), fieldColor)
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func drawRect(img *image.RGBA, x, y, w, h int, c color.Color) {
	for i := x; i < x+w && i < img.Bounds().Dx(); i++ {
		if i < 0 {
			continue
		}
		if y >= 0 && y < img.Bounds().Dy() {
			img.Set(i, y, c)
		}
		if y+h >= 0 && y+h < img.Bounds().Dy() {
			img.Set(i, y+h, c)
		}
	}
	for j := y; j < y+h && j < img.Bounds().Dy(); j++ {
		if j < 0 {
			continue
		}
		if x >= 0 && x < img.Bounds().Dx() {
			img.Set(x, j, c)
		}
		if x+w >= 0 && x+w < img.Bounds().Dx() {
			img.Set(x+w, j, c)
		}
	}
}

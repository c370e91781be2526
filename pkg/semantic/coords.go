package semantic

// MediaBox is a PDF page rectangle [x, y, width, height] in points.
type MediaBox [4]float64

// DOMToPDF converts DOM coordinates (top-left origin, pixels) to PDF
// coordinates (bottom-left origin, points) given the rendered container size
// and the page's MediaBox.
func DOMToPDF(domX, domY, containerW, containerH float64, mb MediaBox) (pdfX, pdfY float64) {
	xPct := domX / containerW
	yPct := domY / containerH

	pdfX = mb[0] + xPct*mb[2]
	pdfY = mb[1] + (mb[3] - yPct*mb[3])
	return
}

// PDFToDOM inverts DOMToPDF.
func PDFToDOM(pdfX, pdfY, containerW, containerH float64, mb MediaBox) (domX, domY float64) {
	xPct := (pdfX - mb[0]) / mb[2]
	yPct := 1.0 - (pdfY-mb[1])/mb[3]

	domX = xPct * containerW
	domY = yPct * containerH
	return
}

package extract

import (
	"strings"
	"testing"

	"github.com/docforge/docforge/pkg/render/markup"
	"github.com/docforge/docforge/pkg/render/pdfwrite"
)

func buildFixturePDF(t *testing.T, source string, inputs map[string]interface{}) []byte {
	t.Helper()
	doc, _, errs := markup.Interpret(source, inputs)
	if len(errs) > 0 {
		t.Fatalf("unexpected markup errors: %v", errs)
	}
	data, err := pdfwrite.Write(doc)
	if err != nil {
		t.Fatalf("unexpected pdfwrite error: %v", err)
	}
	return data
}

func TestNativeExtractReadsTextFromGeneratedPDF(t *testing.T) {
	data := buildFixturePDF(t, "Hello, {{name}}.", map[string]interface{}{"name": "Jordan"})

	b := NativeBackend{}
	pages, err := b.Extract(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !strings.Contains(pages[0].RawText, "Hello, Jordan.") {
		t.Fatalf("expected extracted text to contain the rendered line, got %q", pages[0].RawText)
	}
}

func TestNativeExtractMultiPageCountsPages(t *testing.T) {
	data := buildFixturePDF(t, "Page one.\n#pagebreak\nPage two.", nil)

	b := NativeBackend{}
	pages, err := b.Extract(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0].RawText, "Page one.") {
		t.Fatalf("expected page 1 text, got %q", pages[0].RawText)
	}
	if !strings.Contains(pages[1].RawText, "Page two.") {
		t.Fatalf("expected page 2 text, got %q", pages[1].RawText)
	}
}

func TestNativeExtractUsesPageMediaBoxDimensions(t *testing.T) {
	data := buildFixturePDF(t, "#page(width: 300, height: 400)\nSized page.", nil)

	b := NativeBackend{}
	pages, err := b.Extract(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages[0].Width != 300 || pages[0].Height != 400 {
		t.Fatalf("expected dimensions 300x400, got %gx%g", pages[0].Width, pages[0].Height)
	}
}

func TestNativeExtractRejectsMissingHeader(t *testing.T) {
	b := NativeBackend{}
	_, err := b.Extract([]byte("not a pdf"))
	if err == nil {
		t.Fatal("expected an error for missing %PDF header")
	}
	eerr, ok := err.(*ExtractionError)
	if !ok || eerr.Kind != FailureParseError {
		t.Fatalf("expected FailureParseError, got %v", err)
	}
}

func TestDecodeOperandTextFallsBackToLatin1(t *testing.T) {
	raw := string([]byte{0xE9}) // invalid UTF-8 byte alone, e.g. Latin-1 'é'
	got := decodeOperandText(raw)
	if got != "é" {
		t.Fatalf("expected Latin-1 fallback to decode to 'é', got %q", got)
	}
}

func TestDecodeOperandTextPassesThroughValidUTF8(t *testing.T) {
	got := decodeOperandText("café")
	if got != "café" {
		t.Fatalf("expected valid UTF-8 to pass through unchanged, got %q", got)
	}
}

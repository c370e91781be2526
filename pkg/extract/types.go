// Package extract implements the PDF extraction router: given raw PDF
// bytes it produces a structured, per-page text extraction with a quality
// signal, choosing among multiple backends and falling back when a
// backend's output is garbage.
package extract

import "fmt"

// TextItem is one positioned span of text, populated only by backends that
// expose per-item layout (HostBridge); Native/Legacy leave the slice empty.
type TextItem struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// PageContent is one page's extracted content.
type PageContent struct {
	PageNumber int
	TextItems  []TextItem
	RawText    string
	Width      float64
	Height     float64
}

// ExtractionResult is the router's output.
type ExtractionResult struct {
	Pages            []PageContent
	BackendUsed      string
	FallbackOccurred bool
	ExtractionTimeMs float64
	TotalCharacters  int
	Warnings         []string
}

// FailureKind enumerates the categories of ExtractionError.
type FailureKind string

const (
	FailureParseError         FailureKind = "ParseError"
	FailureEncodingFailure    FailureKind = "EncodingFailure"
	FailureGarbageOutput      FailureKind = "GarbageOutput"
	FailureBackendUnavailable FailureKind = "BackendUnavailable"
	FailureHostBridgeError    FailureKind = "HostBridgeError"
	FailureOther              FailureKind = "Other"
)

// ExtractionError is the typed error a backend or the router returns.
type ExtractionError struct {
	Kind        FailureKind
	Message     string
	Recoverable bool    // only meaningful for EncodingFailure
	Sample      string  // only populated for GarbageOutput
	Confidence  float64 // only populated for GarbageOutput
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newParseError(format string, args ...interface{}) *ExtractionError {
	return &ExtractionError{Kind: FailureParseError, Message: fmt.Sprintf(format, args...)}
}

func newEncodingFailure(message string, recoverable bool) *ExtractionError {
	return &ExtractionError{Kind: FailureEncodingFailure, Message: message, Recoverable: recoverable}
}

func newGarbageOutput(sample string, confidence float64) *ExtractionError {
	return &ExtractionError{
		Kind:       FailureGarbageOutput,
		Message:    fmt.Sprintf("garbage output detected (confidence %.1f%%)", confidence*100),
		Sample:     sample,
		Confidence: confidence,
	}
}

func newBackendUnavailable(name string) *ExtractionError {
	return &ExtractionError{Kind: FailureBackendUnavailable, Message: fmt.Sprintf("backend %q not available", name)}
}

// Backend is one PDF text-extraction strategy.
type Backend interface {
	Name() string
	Extract(data []byte) ([]PageContent, error)
}

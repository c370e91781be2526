// Package compliance runs the layered rule engine that checks an extracted
// document's text against federal, state, and locality-specific landlord-
// tenant and real-estate requirements, returning a flat, deduplicated list of
// Violations.
package compliance

// Severity classifies how serious a Violation is.
type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

// TextPosition is a byte-offset span into the document text that a Violation
// can point back to.
type TextPosition struct {
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
}

// Violation is one compliance finding produced by a rule function.
type Violation struct {
	Statute      string        `json:"statute"`
	Severity     Severity      `json:"severity"`
	Message      string        `json:"message"`
	Page         *int          `json:"page,omitempty"`
	TextSnippet  string        `json:"text_snippet,omitempty"`
	TextPosition *TextPosition `json:"text_position,omitempty"`
}

// DocType names the document family. Engine.Check resolves DocTypeAuto via
// DetectDocType and exposes the result to locality gates as doc_type; the
// federal and state layers run all of their rules whatever the doc type.
type DocType string

const (
	DocTypeAuto                  DocType = "auto"
	DocTypeLease                 DocType = "lease"
	DocTypeRealEstatePurchase    DocType = "real_estate_purchase"
	DocTypeListingAgreement      DocType = "listing_agreement"
	DocTypeContractorDocFamily   DocType = "contractor_document"
)

// Jurisdiction selects which rule packs apply to a check. It is immutable
// once constructed.
type Jurisdiction struct {
	StateCode string
	Locality  string
}

// Context carries the optional document metadata rule functions may use
// alongside the raw text.
type Context struct {
	Jurisdiction Jurisdiction
	YearBuilt    *int
	DocType      DocType
}

// RuleFunc is the contract every rule — federal, state, or locality —
// implements: a function of the document text and context producing zero or
// more violations.
type RuleFunc func(text string, ctx Context) []Violation

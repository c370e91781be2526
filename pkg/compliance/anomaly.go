package compliance

import "strings"

// Anomaly is a structural finding independent of any statute: the document
// is missing a section a lease of its doc-type is expected to carry, or is
// too short to be a complete document.
type Anomaly struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Severity    Severity `json:"severity"`
}

// CanonicalSection names an expected structural section and the keywords
// that signal its presence.
type CanonicalSection struct {
	Code     string
	Label    string
	Keywords []string
}

// CanonicalStructure is the ordered list of sections a complete document of
// a given type is expected to carry.
type CanonicalStructure []CanonicalSection

// FloridaResidentialLease is the canonical section set for a Florida
// residential lease: parties, premises, term, rent, security deposit, and a
// signature block. A document missing any of these is flagged, not
// rejected — callers still see the compliance checks that did run.
func FloridaResidentialLease() CanonicalStructure {
	return CanonicalStructure{
		{Code: "parties", Label: "Parties", Keywords: []string{"landlord", "tenant", "lessor", "lessee"}},
		{Code: "premises", Label: "Premises", Keywords: []string{"premises", "property address", "dwelling unit"}},
		{Code: "term", Label: "Lease Term", Keywords: []string{"term of this lease", "lease term", "commencing on", "commencement date"}},
		{Code: "rent", Label: "Rent", Keywords: []string{"monthly rent", "rent payable", "rent of $"}},
		{Code: "deposit", Label: "Security Deposit", Keywords: []string{"security deposit", "deposit"}},
		{Code: "signatures", Label: "Signatures", Keywords: []string{"signature", "signed this", "witness"}},
	}
}

// DetectAnomalies checks text for each canonical section's keywords and
// reports one Anomaly per missing section. An empty or near-empty document
// produces a single structural anomaly instead of one per section.
func DetectAnomalies(text string, structure CanonicalStructure) []Anomaly {
	lower := strings.ToLower(text)
	if len(strings.TrimSpace(lower)) < 200 {
		return []Anomaly{{
			Code:        "document_too_short",
			Description: "extracted text is too short to contain a complete lease",
			Severity:    Warning,
		}}
	}

	var anomalies []Anomaly
	for _, section := range structure {
		if !anyKeywordPresent(lower, section.Keywords) {
			anomalies = append(anomalies, Anomaly{
				Code:        "missing_section:" + section.Code,
				Description: "expected section not found: " + section.Label,
				Severity:    Warning,
			})
		}
	}
	return anomalies
}

func anyKeywordPresent(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

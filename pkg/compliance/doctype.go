package compliance

import "strings"

// DetectDocType inspects the first ~2KB of text for keyword and statute-
// number combinations and returns the best-guess DocType. Callers that
// already know the type should skip this and pass it explicitly instead of
// DocTypeAuto.
func DetectDocType(text string) DocType {
	window := text
	if len(window) > 2048 {
		window = window[:2048]
	}
	lower := strings.ToLower(window)

	switch {
	case strings.Contains(lower, "notice of commencement") && strings.Contains(lower, "713.13"):
		return DocTypeContractorDocFamily
	case strings.Contains(lower, "claim of lien") && strings.Contains(lower, "713.08"):
		return DocTypeContractorDocFamily
	case strings.Contains(lower, "lease agreement") && strings.Contains(lower, "landlord") && strings.Contains(lower, "tenant"):
		return DocTypeLease
	case strings.Contains(lower, "listing agreement"):
		return DocTypeListingAgreement
	case strings.Contains(lower, "purchase agreement") || strings.Contains(lower, "purchase and sale"):
		return DocTypeRealEstatePurchase
	default:
		return DocTypeLease
	}
}

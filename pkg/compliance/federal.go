package compliance

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadPaintDisclosurePattern = regexp.MustCompile(`(?i)(lead.based\s+paint|lead\s+paint|lead.hazard|EPA\s+pamphlet|protect\s+your\s+family)`)
	yearBuiltPattern           = regexp.MustCompile(`(?i)(?:built|constructed|year\s+built)(?:\s+in)?[:\s]+(\d{4})`)
)

type fairHousingPattern struct {
	re             *regexp.Regexp
	protectedClass string
}

var fairHousingPatterns = []fairHousingPattern{
	{regexp.MustCompile(`(?i)\b(no\s+children|no\s+kids|adults\s+only|child-?free)\b`), "familial status"},
	{regexp.MustCompile(`(?i)\b(christian\s+only|no\s+muslims|no\s+jews|religious\s+preference)\b`), "religion"},
	{regexp.MustCompile(`(?i)\b(whites?\s+only|no\s+blacks?|caucasian\s+only|no\s+hispanics?)\b`), "race/national origin"},
	{regexp.MustCompile(`(?i)\b(no\s+disabled|no\s+wheelchairs?|must\s+be\s+able-bodied)\b`), "disability"},
	{regexp.MustCompile(`(?i)\b(female\s+only|male\s+only|no\s+single\s+(?:men|women))\b`), "sex"},
}

// federalLayer always runs regardless of jurisdiction: lead-based paint
// disclosure and Fair Housing Act protected-class language.
func federalLayer(text string, ctx Context) []Violation {
	var out []Violation
	out = append(out, checkLeadPaintDisclosure(text, ctx.YearBuilt)...)
	out = append(out, checkFairHousing(text)...)
	return out
}

// checkLeadPaintDisclosure implements 42 U.S.C. § 4852d / 24 CFR Part 35:
// housing built before 1978 must disclose known lead-based paint hazards and
// reference the EPA pamphlet.
func checkLeadPaintDisclosure(text string, yearBuilt *int) []Violation {
	var out []Violation

	effectiveYear := yearBuilt
	if effectiveYear == nil {
		if m := yearBuiltPattern.FindStringSubmatch(text); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				effectiveYear = &y
			}
		}
	}

	lower := strings.ToLower(text)
	isPre1978 := false
	switch {
	case effectiveYear != nil && *effectiveYear < 1978:
		isPre1978 = true
	case effectiveYear != nil:
		isPre1978 = false
	default:
		isPre1978 = strings.Contains(lower, "1978") || strings.Contains(lower, "lead")
	}

	if !isPre1978 {
		return out
	}

	hasDisclosure := leadPaintDisclosurePattern.MatchString(text)
	hasPamphlet := strings.Contains(lower, "pamphlet") || strings.Contains(lower, "protect your family")

	switch {
	case !hasDisclosure:
		out = append(out, Violation{
			Statute:  "42 U.S.C. § 4852d",
			Severity: Critical,
			Message:  "Lead-based paint disclosure required for pre-1978 housing. Must include disclosure of known hazards and provide EPA pamphlet.",
		})
	case !hasPamphlet:
		out = append(out, Violation{
			Statute:  "24 CFR 35.92",
			Severity: Warning,
			Message:  "Lead paint disclosure present but EPA pamphlet reference not found. Landlord must provide 'Protect Your Family From Lead in Your Home'.",
		})
	}
	return out
}

// checkFairHousing implements 42 U.S.C. § 3604: discriminatory language
// targeting any protected class is void and flagged Critical.
func checkFairHousing(text string) []Violation {
	var out []Violation
	for _, p := range fairHousingPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		out = append(out, Violation{
			Statute:  "42 U.S.C. § 3604",
			Severity: Critical,
			Message:  "Fair Housing Act violation: discriminatory language based on " + p.protectedClass + ". This clause is void and subjects the landlord to civil liability.",
			TextSnippet: extractContext(text, loc[0], loc[1]),
			TextPosition: &TextPosition{StartOffset: loc[0], EndOffset: loc[1]},
		})
	}
	return out
}

func extractContext(text string, start, end int) string {
	const pad = 50
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(text) {
		hi = len(text)
	}
	out := text[lo:hi]
	if lo > 0 {
		out = "..." + out
	}
	if hi < len(text) {
		out += "..."
	}
	return out
}

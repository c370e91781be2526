package florida

import (
	"strings"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/docforge/docforge/pkg/semantic"
)

var (
	waiverKeywords      = []string{"waive", "waiver", "relinquish", "forfeit"}
	noticeKeywords      = []string{"notice", "notification"}
	terminationKeywords = []string{"termination", "terminate", "eviction", "evict"}
	disposalKeywords    = []string{"dispose", "discard", "throw away", "remove and destroy"}
	propertyKeywords    = []string{"property", "belongings", "possessions", "personal items"}
	tenantKeywords      = []string{"tenant", "tenant's", "occupant"}
	asIsKeywords        = []string{"as-is", "as is", "as is condition"}
	structuralKeywords  = []string{"roof", "plumbing", "electrical", "structural", "foundation", "hvac"}
	rightsKeywords      = []string{"rights", "right to"}
	flLawKeywords       = []string{"florida", "statute", "chapter 83", "landlord tenant"}
)

// CheckProhibitedProvisions flags clauses prohibited by Florida Statute
// § 83.47 (waiver of notice, disposal of tenant property, general waiver of
// rights) and § 83.51 (AS-IS clauses that waive structural-maintenance
// obligations).
func CheckProhibitedProvisions(text string, _ compliance.Context) []compliance.Violation {
	var out []compliance.Violation
	lower := strings.ToLower(text)

	if checkWaiverOfNotice(lower) {
		out = append(out, compliance.Violation{
			Statute:     "83.47(1)(a)",
			Severity:    compliance.Critical,
			Message:     "Lease contains prohibited waiver of tenant's right to notice before termination or eviction",
			TextSnippet: snippetNear(text, "waive"),
		})
	}

	if checkPropertyDisposal(lower) {
		out = append(out, compliance.Violation{
			Statute:     "83.47(1)(b)",
			Severity:    compliance.Critical,
			Message:     "Lease contains prohibited authorization for landlord to dispose of tenant's property",
			TextSnippet: snippetNear(text, "dispose"),
		})
	}

	if checkAsIsStructural(lower) {
		out = append(out, compliance.Violation{
			Statute:     "83.51(2)(a)",
			Severity:    compliance.Critical,
			Message:     "AS-IS clause may improperly waive landlord's obligation to maintain structural components",
			TextSnippet: snippetNearAny(text, []string{"as-is", "as is"}),
		})
	}

	if checkGeneralRightsWaiver(lower) {
		out = append(out, compliance.Violation{
			Statute:     "83.47(1)(a)",
			Severity:    compliance.Critical,
			Message:     "Lease contains prohibited waiver of tenant's rights under Florida landlord-tenant law",
			TextSnippet: snippetNear(text, "waive"),
		})
	}

	return out
}

func checkWaiverOfNotice(lower string) bool {
	return semantic.ContainsSemanticCluster(lower, [][]string{waiverKeywords, noticeKeywords, terminationKeywords})
}

func checkPropertyDisposal(lower string) bool {
	hasDisposal := anyContains(lower, disposalKeywords)
	hasProperty := anyContains(lower, propertyKeywords)
	hasTenantContext := anyContains(lower, tenantKeywords) || strings.Contains(lower, "left by")
	return hasDisposal && hasProperty && hasTenantContext
}

func checkAsIsStructural(lower string) bool {
	return anyContains(lower, asIsKeywords) && anyContains(lower, structuralKeywords)
}

func checkGeneralRightsWaiver(lower string) bool {
	hasWaiver := anyContains(lower, waiverKeywords)
	hasRights := anyContains(lower, rightsKeywords)
	hasLawRef := anyContains(lower, flLawKeywords)
	return hasWaiver && hasRights && (hasLawRef || strings.Contains(lower, "all"))
}

func anyContains(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func snippetNear(text, needle string) string {
	idx := strings.Index(strings.ToLower(text), needle)
	if idx < 0 {
		return ""
	}
	return semantic.Snippet(text, idx)
}

func snippetNearAny(text string, needles []string) string {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if idx := strings.Index(lower, n); idx >= 0 {
			return semantic.Snippet(text, idx)
		}
	}
	return ""
}

package florida

import (
	"strings"

	"github.com/docforge/docforge/pkg/compliance"
)

// CheckAttorneyFees validates attorney-fee clause reciprocity under Florida
// Statute § 83.48: if the landlord can recover attorney fees, the tenant
// must have the same right. "Prevailing party" language is always
// compliant; one-sided fee clauses are not.
func CheckAttorneyFees(text string, _ compliance.Context) []compliance.Violation {
	lower := strings.ToLower(text)

	hasPrevailingParty := strings.Contains(lower, "prevailing party")
	hasBothParties := strings.Contains(lower, "both parties") ||
		strings.Contains(lower, "either party") ||
		(strings.Contains(lower, "both") && strings.Contains(lower, "landlord") && strings.Contains(lower, "tenant"))

	if hasPrevailingParty || hasBothParties {
		return nil
	}

	hasAttorneyFees := strings.Contains(lower, "attorney") && (strings.Contains(lower, "fee") || strings.Contains(lower, "cost"))
	if !hasAttorneyFees {
		return nil
	}

	hasLandlordFeeRight := containsAny(lower,
		"landlord is entitled to attorney fee",
		"landlord shall be entitled to attorney fee",
		"lessor is entitled to attorney fee",
		"landlord is entitled to recover attorney fee",
		"landlord may recover attorney fee",
	)

	hasTenantPayObligation := (strings.Contains(lower, "tenant shall pay") && (strings.Contains(lower, "landlord") || strings.Contains(lower, "attorney"))) ||
		(strings.Contains(lower, "tenant agrees to pay") && (strings.Contains(lower, "landlord") || strings.Contains(lower, "attorney") || strings.Contains(lower, "legal")))

	hasTenantFeeRight := containsAny(lower,
		"tenant is entitled to attorney fee",
		"tenant shall be entitled to attorney fee",
		"lessee is entitled to attorney fee",
		"tenant is entitled to recover attorney fee",
		"tenant may recover attorney fee",
	)

	if (hasLandlordFeeRight || hasTenantPayObligation) && !hasTenantFeeRight {
		return []compliance.Violation{{
			Statute:     "83.48",
			Severity:    compliance.Critical,
			Message:     "Attorney fee clause is not reciprocal. Florida Statute § 83.48 requires that if the landlord can recover attorney fees, the tenant must have the same right. Use 'prevailing party' language or ensure mutual fee recovery rights.",
			TextSnippet: truncate(text, 200),
		}}
	}
	return nil
}

func containsAny(lower string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

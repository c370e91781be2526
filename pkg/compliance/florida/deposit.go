package florida

import (
	"strconv"
	"strings"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/docforge/docforge/pkg/semantic"
)

var depositAnchors = []string{"deposit", "return"}

// CheckSecurityDeposit validates security deposit return timelines and the
// banking-institution disclosure required by Florida Statute § 83.49.
func CheckSecurityDeposit(text string, _ compliance.Context) []compliance.Violation {
	var out []compliance.Violation

	if days, ok := semantic.ExtractDaysNear(text, depositAnchors); ok {
		hasClaim := semantic.HasClaimContext(text)

		// § 83.49(3)(a): 15-day rule when no claim is made.
		if days > 15 && !hasClaim {
			out = append(out, compliance.Violation{
				Statute:     "83.49(3)(a)",
				Severity:    compliance.Critical,
				Message:     depositReturnMessage(days),
				TextSnippet: truncate(text, 100),
			})
		}

		// 30 days without a stated claim is ambiguous rather than
		// outright noncompliant: it's valid only when the landlord is
		// claiming deductions, which the text doesn't confirm.
		if days == 30 && !hasClaim {
			out = append(out, compliance.Violation{
				Statute:     "83.49(3)(b)",
				Severity:    compliance.Warning,
				Message:     "30-day deposit return period found without clear claim context. Florida law requires 15 days if no claim, or notice within 30 days if claiming deductions.",
				TextSnippet: truncate(text, 100),
			})
		}

		// § 83.49(3)(b): 30 days is the statutory maximum regardless of claim.
		if days > 30 {
			out = append(out, compliance.Violation{
				Statute:     "83.49(3)(b)",
				Severity:    compliance.Critical,
				Message:     "Deposit notice period exceeds statutory maximum of 30 days (found: " + strconv.Itoa(days) + " days)",
				TextSnippet: truncate(text, 100),
			})
		}
	}

	lower := strings.ToLower(text)
	mentionsDeposit := strings.Contains(lower, "deposit") || strings.Contains(lower, "security")
	if mentionsDeposit && !semantic.HasBankLocation(text) {
		out = append(out, compliance.Violation{
			Statute:     "83.49(2)",
			Severity:    compliance.Warning,
			Message:     "Lease should specify the name and address of the Florida banking institution where the security deposit is held, or evidence of surety bond.",
			TextSnippet: truncate(text, 100),
		})
	}

	return out
}

func depositReturnMessage(days int) string {
	return "Security deposit must be returned within 15 days if no claim is made (found: " + strconv.Itoa(days) + " days)"
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

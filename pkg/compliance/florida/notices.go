package florida

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docforge/docforge/pkg/compliance"
)

var (
	nonpaymentNoticePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:day|business\s*day)s?\s*(?:notice|written\s*notice).*?(?:nonpayment|non-payment|rent)`),
		regexp.MustCompile(`(?i)(?:nonpayment|non-payment|rent).*?(\d+)\s*(?:day|business\s*day)s?\s*(?:notice|written\s*notice)`),
	}
	violationNoticePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:day|business\s*day)s?\s*(?:notice|written\s*notice).*?(?:violation|breach|default|noncompliance|non-compliance)`),
		regexp.MustCompile(`(?i)(?:violation|breach|default|noncompliance|non-compliance).*?(\d+)\s*(?:day|business\s*day)s?\s*(?:notice|written\s*notice)`),
	}
	terminationNoticePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:day|business\s*day)s?\s*(?:notice|written\s*notice)`),
		regexp.MustCompile(`(?:notice|written\s*notice)\s*(?:of\s*)?(\d+)\s*(?:day|business\s*day)s?`),
	}
)

// CheckNoticeRequirements validates the statutory notice periods of
// Florida Statute § 83.56 (nonpayment, lease violation) and § 83.57 as
// amended by HB 1417 (2023) (month-to-month termination).
func CheckNoticeRequirements(text string, _ compliance.Context) []compliance.Violation {
	lower := strings.ToLower(text)
	var out []compliance.Violation
	out = append(out, checkNonpaymentNotice(lower)...)
	out = append(out, checkLeaseViolationNotice(lower)...)
	out = append(out, checkTerminationNotice(lower)...)
	return out
}

func checkNonpaymentNotice(lower string) []compliance.Violation {
	var out []compliance.Violation
	for _, re := range nonpaymentNoticePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		days, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if days < 3 {
			out = append(out, compliance.Violation{
				Statute:     "83.56(3)",
				Severity:    compliance.Critical,
				Message:     "Notice period for nonpayment of rent must be at least 3 business days. Found: " + strconv.Itoa(days) + " day(s)",
				TextSnippet: m[0],
			})
		}
	}
	return out
}

func checkLeaseViolationNotice(lower string) []compliance.Violation {
	var out []compliance.Violation
	for _, re := range violationNoticePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		days, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if days < 7 {
			out = append(out, compliance.Violation{
				Statute:     "83.56(2)",
				Severity:    compliance.Critical,
				Message:     "Notice period for lease violations must be at least 7 days. Found: " + strconv.Itoa(days) + " day(s)",
				TextSnippet: m[0],
			})
		}
	}
	return out
}

// checkTerminationNotice implements the § 83.57 month-to-month termination
// rule; HB 1417 (2023) raised the floor from 15 to 30 days. Only the first
// matching pattern is reported to avoid duplicate findings from the same
// clause.
func checkTerminationNotice(lower string) []compliance.Violation {
	isMonthToMonth := strings.Contains(lower, "month-to-month") || strings.Contains(lower, "monthly")
	hasTerminationContext := strings.Contains(lower, "terminat") || strings.Contains(lower, "end") || strings.Contains(lower, "cancel")
	if !isMonthToMonth || !hasTerminationContext {
		return nil
	}

	for _, re := range terminationNoticePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		days, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if days < 30 {
			return []compliance.Violation{{
				Statute:     "83.57",
				Severity:    compliance.Critical,
				Message:     "Notice period for month-to-month termination must be at least 30 days per HB 1417 (2023). Found: " + strconv.Itoa(days) + " day(s)",
				TextSnippet: m[0],
			}}
		}
		return nil
	}
	return nil
}

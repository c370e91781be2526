package florida

import (
	"strings"
	"testing"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/stretchr/testify/assert"
)

func TestCheckNoticeRequirements_FlagsShortNoticePeriod(t *testing.T) {
	violations := CheckNoticeRequirements("Tenant will be given 1 day notice for nonpayment", compliance.Context{})
	found := false
	for _, v := range violations {
		if strings.Contains(v.Statute, "83.56") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckNoticeRequirements_AcceptsValidThreeDay(t *testing.T) {
	text := "Tenant shall receive 3 business days notice for nonpayment of rent"
	violations := CheckNoticeRequirements(text, compliance.Context{})
	for _, v := range violations {
		assert.NotEqual(t, "83.56(3)", v.Statute)
	}
}

func TestCheckNoticeRequirements_MonthToMonth15DaysNowFails(t *testing.T) {
	// HB 1417 (2023): 15 days is no longer sufficient; must be 30 days.
	text := "Either party may terminate this month-to-month tenancy with 15 days written notice."
	violations := checkTerminationNotice(strings.ToLower(text))
	found := false
	for _, v := range violations {
		if v.Statute == "83.57" && strings.Contains(v.Message, "30 days") {
			found = true
		}
	}
	assert.True(t, found, "15-day notice should trigger violation after HB 1417, got %+v", violations)
}

func TestCheckNoticeRequirements_MonthToMonth30DaysPasses(t *testing.T) {
	text := "Either party may terminate this month-to-month tenancy with 30 days written notice."
	violations := checkTerminationNotice(strings.ToLower(text))
	assert.Empty(t, violations, "30-day notice should pass, got %+v", violations)
}

func TestCheckNoticeRequirements_MonthToMonth7DaysFails(t *testing.T) {
	text := "Monthly tenancy may be ended with 7 days notice to terminate."
	violations := checkTerminationNotice(strings.ToLower(text))
	found := false
	for _, v := range violations {
		if v.Statute == "83.57" {
			found = true
		}
	}
	assert.True(t, found, "7-day notice should trigger violation, got %+v", violations)
}

func TestCheckNoticeRequirements_MonthToMonth60DaysPasses(t *testing.T) {
	text := "Either party may cancel this monthly lease with 60 days written notice."
	violations := checkTerminationNotice(strings.ToLower(text))
	assert.Empty(t, violations, "60-day notice should pass, got %+v", violations)
}

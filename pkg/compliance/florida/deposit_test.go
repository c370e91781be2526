package florida

import (
	"strings"
	"testing"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/stretchr/testify/assert"
)

func TestCheckSecurityDeposit_FlagsExcessiveReturnPeriod(t *testing.T) {
	violations := CheckSecurityDeposit("Landlord shall return deposit within 45 days", compliance.Context{})
	assert.True(t, hasStatuteWithText(violations, "83.49(3)(a)", "15 days"))
}

func TestCheckSecurityDeposit_FlagsMissingBankLocation(t *testing.T) {
	violations := CheckSecurityDeposit("Security deposit is $1000. Deposit will be returned within 15 days.", compliance.Context{})
	found := false
	for _, v := range violations {
		if v.Severity == compliance.Warning && strings.Contains(v.Message, "bank") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckSecurityDeposit_AcceptsCompliantClause(t *testing.T) {
	text := "Security deposit of $1000 held at First National Bank, Miami, Florida. Landlord returns deposit within 15 days if no claim."
	violations := CheckSecurityDeposit(text, compliance.Context{})
	for _, v := range violations {
		assert.False(t, strings.HasPrefix(v.Statute, "83.49"))
	}
}

func TestCheckSecurityDeposit_Flags30DayWithoutClaimContext(t *testing.T) {
	violations := CheckSecurityDeposit("Deposit returned within 30 days", compliance.Context{})
	found := false
	for _, v := range violations {
		if v.Severity == compliance.Warning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckSecurityDeposit_Accepts30DayWithClaim(t *testing.T) {
	text := "If landlord intends to impose a claim on the deposit, written notice will be sent within 30 days"
	violations := CheckSecurityDeposit(text, compliance.Context{})
	for _, v := range violations {
		assert.NotEqual(t, compliance.Critical, v.Severity)
	}
}

func hasStatuteWithText(violations []compliance.Violation, statute, substr string) bool {
	for _, v := range violations {
		if v.Statute == statute && strings.Contains(v.Message, substr) {
			return true
		}
	}
	return false
}

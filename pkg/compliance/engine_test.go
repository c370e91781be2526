package compliance_test

import (
	"testing"

	"github.com/docforge/docforge/pkg/compliance"
	"github.com/docforge/docforge/pkg/compliance/florida"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFloridaEngine(t *testing.T) *compliance.Engine {
	t.Helper()
	e, err := compliance.NewEngine()
	require.NoError(t, err)
	e.RegisterState("FL", florida.Rules()...)
	return e
}

func TestEngine_ScenarioV1_DepositReturn45Days(t *testing.T) {
	e := newFloridaEngine(t)
	violations, err := e.Check("Landlord shall return deposit within 45 days", compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL"},
		DocType:      compliance.DocTypeLease,
	})
	require.NoError(t, err)

	found := false
	for _, v := range violations {
		if v.Statute == "83.49(3)(a)" && v.Severity == compliance.Critical {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEngine_ScenarioV2_FairHousing(t *testing.T) {
	e := newFloridaEngine(t)
	violations, err := e.Check("adults only community; no children", compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL"},
	})
	require.NoError(t, err)

	found := false
	for _, v := range violations {
		if v.Statute == "42 U.S.C. § 3604" && v.Severity == compliance.Critical {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEngine_ScenarioV3_PrevailingPartyPasses(t *testing.T) {
	e := newFloridaEngine(t)
	violations, err := e.Check("The prevailing party shall recover reasonable attorney fees", compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL"},
	})
	require.NoError(t, err)

	for _, v := range violations {
		assert.NotEqual(t, "83.48", v.Statute)
	}
}

func TestEngine_ScenarioV4_HB1417Termination(t *testing.T) {
	e := newFloridaEngine(t)
	text := "Either party may terminate this monthly tenancy with 15 days written notice."
	violations, err := e.Check(text, compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL"},
	})
	require.NoError(t, err)

	found := false
	for _, v := range violations {
		if v.Statute == "83.57" && v.Severity == compliance.Critical {
			assert.Contains(t, v.Message, "30 days")
			found = true
		}
	}
	assert.True(t, found)
}

func TestEngine_LocalityOverride_GatesOnExpression(t *testing.T) {
	e := newFloridaEngine(t)
	fired := false
	e.RegisterLocalityOverride(compliance.LocalityOverride{
		Locality: "33101",
		Gate:     `year_built < 1950`,
		Rule: func(text string, ctx compliance.Context) []compliance.Violation {
			fired = true
			return []compliance.Violation{{Statute: "miami-dade-local", Severity: compliance.Info, Message: "pre-1950 locality override"}}
		},
	})

	year := 1940
	violations, err := e.Check("A lease with no particular violations.", compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL", Locality: "33101"},
		YearBuilt:    &year,
	})
	require.NoError(t, err)
	assert.True(t, fired)
	assert.True(t, hasStatuteGlobal(violations, "miami-dade-local"))
}

func TestEngine_LocalityOverride_GateFalseDoesNotFire(t *testing.T) {
	e := newFloridaEngine(t)
	e.RegisterLocalityOverride(compliance.LocalityOverride{
		Locality: "33101",
		Gate:     `year_built < 1950`,
		Rule: func(text string, ctx compliance.Context) []compliance.Violation {
			return []compliance.Violation{{Statute: "miami-dade-local", Severity: compliance.Info, Message: "should not fire"}}
		},
	})

	year := 2020
	violations, err := e.Check("A modern lease.", compliance.Context{
		Jurisdiction: compliance.Jurisdiction{StateCode: "FL", Locality: "33101"},
		YearBuilt:    &year,
	})
	require.NoError(t, err)
	assert.False(t, hasStatuteGlobal(violations, "miami-dade-local"))
}

func TestEngine_DeduplicatesIdenticalViolations(t *testing.T) {
	e, err := compliance.NewEngine()
	require.NoError(t, err)
	e.RegisterState("FL", func(text string, ctx compliance.Context) []compliance.Violation {
		return []compliance.Violation{
			{Statute: "x.1", Severity: compliance.Warning, Message: "dup"},
			{Statute: "x.1", Severity: compliance.Warning, Message: "dup"},
		}
	})

	violations, err := e.Check("irrelevant", compliance.Context{Jurisdiction: compliance.Jurisdiction{StateCode: "FL"}})
	require.NoError(t, err)

	count := 0
	for _, v := range violations {
		if v.Statute == "x.1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func hasStatuteGlobal(violations []compliance.Violation, statute string) bool {
	for _, v := range violations {
		if v.Statute == statute {
			return true
		}
	}
	return false
}

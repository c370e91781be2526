package verify_test

import (
	"testing"

	"github.com/docforge/docforge/pkg/render/markup"
	"github.com/docforge/docforge/pkg/render/pdfwrite"
	"github.com/docforge/docforge/pkg/verify"
	"github.com/stretchr/testify/require"
)

func buildFixturePDF(t *testing.T, source string) []byte {
	t.Helper()
	doc, _, errs := markup.Interpret(source, nil)
	require.Empty(t, errs)
	data, err := pdfwrite.Write(doc)
	require.NoError(t, err)
	return data
}

const completeLease = `This lease agreement is between the Landlord and the Tenant for the
premises at 123 Main St, Tampa FL. The term of this lease commences on
the first of the month. Monthly rent payable is due on the first of
each month. Security deposit of $500 shall be held in a bank account
at a federally insured institution. Tenant waives all rights under
Florida law and chapter 83 regarding this agreement. Signature of
tenant and landlord required below, witnessed by a notary.`

func TestVerifyLeaseReturnsComplianceChecksAndAnomalies(t *testing.T) {
	v, err := verify.New()
	require.NoError(t, err)

	pdfBytes := buildFixturePDF(t, completeLease)
	report, err := v.VerifyLease(pdfBytes, "florida", true)
	require.NoError(t, err)

	require.Equal(t, "native", report.BackendUsed)
	require.False(t, report.FallbackOccurred)

	found := false
	for _, c := range report.ComplianceChecks {
		if c.Statute == "83.47(1)(a)" {
			found = true
		}
	}
	require.True(t, found, "expected the broad-rights-waiver violation to be detected")
	require.Equal(t, verify.StatusNonCompliant, report.Summary.Status)
}

func TestVerifyLeaseSkipsAnomalySweepWhenDisabled(t *testing.T) {
	v, err := verify.New()
	require.NoError(t, err)

	pdfBytes := buildFixturePDF(t, "Too short to be a lease.")
	report, err := v.VerifyLease(pdfBytes, "florida", false)
	require.NoError(t, err)
	require.Empty(t, report.Anomalies)
}

func TestVerifyLeaseRejectsUnsupportedState(t *testing.T) {
	v, err := verify.New()
	require.NoError(t, err)

	pdfBytes := buildFixturePDF(t, "some text")
	_, err = v.VerifyLease(pdfBytes, "california", true)
	require.Error(t, err)
}

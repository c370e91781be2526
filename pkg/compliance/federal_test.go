package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func yr(y int) *int { return &y }

func TestCheckLeadPaintDisclosure_Pre1978NoDisclosure(t *testing.T) {
	text := "This property was built in 1965. Monthly rent is $1500."
	violations := checkLeadPaintDisclosure(text, nil)
	assert.NotEmpty(t, violations)
	found := false
	for _, v := range violations {
		if v.Statute == "42 U.S.C. § 4852d" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckLeadPaintDisclosure_Pre1978WithDisclosure(t *testing.T) {
	text := "This property was built in 1965. " +
		"Lead-Based Paint Disclosure: Landlord has no knowledge of lead-based paint hazards. " +
		"Tenant has received the EPA pamphlet 'Protect Your Family From Lead in Your Home'."
	violations := checkLeadPaintDisclosure(text, nil)
	assert.Empty(t, violations)
}

func TestCheckLeadPaintDisclosure_Post1978(t *testing.T) {
	violations := checkLeadPaintDisclosure("This property was built in 1985.", yr(1985))
	assert.Empty(t, violations)
}

func TestCheckFairHousing_FamilialStatus(t *testing.T) {
	violations := checkFairHousing("This is an adults only community. No children allowed.")
	assert.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "familial status")
}

func TestCheckFairHousing_Religion(t *testing.T) {
	violations := checkFairHousing("Christian only household preferred.")
	assert.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "religion")
}

func TestCheckFairHousing_Disability(t *testing.T) {
	violations := checkFairHousing("Tenant must be able-bodied and capable of using stairs.")
	assert.NotEmpty(t, violations)
	assert.Contains(t, violations[0].Message, "disability")
}

func TestCheckFairHousing_Compliant(t *testing.T) {
	text := "All applicants will be considered equally without regard to race, religion, sex, familial status, or disability."
	assert.Empty(t, checkFairHousing(text))
}

func TestFederalLayer_Combined(t *testing.T) {
	violations := federalLayer("Built 1960. No children. Adults only community.", Context{})
	assert.GreaterOrEqual(t, len(violations), 2)
}

func TestDetectDocType(t *testing.T) {
	assert.Equal(t, DocTypeContractorDocFamily, DetectDocType("Notice of Commencement filed per 713.13"))
	assert.Equal(t, DocTypeContractorDocFamily, DetectDocType("Claim of Lien recorded under 713.08"))
	assert.Equal(t, DocTypeLease, DetectDocType("Lease Agreement between Landlord and Tenant"))
	assert.Equal(t, DocTypeListingAgreement, DetectDocType("This Listing Agreement is entered into..."))
}

// Package florida is the Florida landlord-tenant and real-estate rule pack
// consumed by the compliance engine's state layer. Each exported Rules
// entry point is a compliance.RuleFunc built from the text/geometry
// primitives in pkg/semantic.
package florida

import "github.com/docforge/docforge/pkg/compliance"

// Rules returns the full Florida lease rule pack in the order the engine
// should run them: security deposit, prohibited provisions, attorney fees,
// then notice periods.
func Rules() []compliance.RuleFunc {
	return []compliance.RuleFunc{
		CheckSecurityDeposit,
		CheckProhibitedProvisions,
		CheckAttorneyFees,
		CheckNoticeRequirements,
	}
}

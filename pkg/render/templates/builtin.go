package templates

// Default returns the registry compiled into this binary: the lease and
// disclosure templates docforge ships out of the box. Source text is a
// package-level constant, not loaded from disk, per the "compiled into the
// binary" requirement.
func Default() *Registry {
	return New([]Definition{
		{
			Name:           "lease/florida-residential",
			Description:    "Florida residential lease agreement with lead paint and security deposit clauses",
			RequiredInputs: []string{"landlord.name", "tenant.name", "property.address", "lease.rent", "lease.deposit"},
			OptionalInputs: []string{"property.year_built"},
			Source:         floridaResidentialLease,
		},
		{
			Name:           "disclosure/lead-paint",
			Description:    "Federal lead-based paint disclosure (42 U.S.C. 4852d) for pre-1978 housing",
			RequiredInputs: []string{"landlord.name", "tenant.name", "property.address", "property.year_built"},
			Source:         leadPaintDisclosure,
		},
		{
			Name:           "listing/exclusive-right-to-sell",
			Description:    "Exclusive right-to-sell listing agreement",
			RequiredInputs: []string{"seller.name", "broker.name", "property.address", "listing.price", "listing.commission_pct"},
			Source:         listingAgreement,
		},
	})
}

const floridaResidentialLease = `RESIDENTIAL LEASE AGREEMENT

This Lease Agreement is entered into between {{landlord.name}} ("Landlord") and {{tenant.name}} ("Tenant") for the property located at {{property.address}}.

1. TERM AND RENT. Tenant agrees to pay monthly rent of {{lease.rent}} dollars.

2. SECURITY DEPOSIT. Landlord shall hold a security deposit of {{lease.deposit}} dollars in a separate non-interest-bearing account and shall return the deposit within 15 days of lease termination if no claim is made, or provide written notice of any claim within 30 days as required by Florida Statute 83.49.

3. FAIR HOUSING. This property is offered without regard to race, color, religion, sex, national origin, familial status, or handicap.

#pagebreak
SIGNATURES

#field(id: "landlord_signature", type: "signature", x: 72, y: 120, width: 220, height: 40, recipient: "landlord")
#field(id: "landlord_date", type: "date", x: 320, y: 120, width: 120, height: 40, recipient: "landlord")
#field(id: "tenant_signature", type: "signature", x: 72, y: 60, width: 220, height: 40, recipient: "tenant")
#field(id: "tenant_date", type: "date", x: 320, y: 60, width: 120, height: 40, recipient: "tenant")
`

const leadPaintDisclosure = `DISCLOSURE OF INFORMATION ON LEAD-BASED PAINT AND/OR LEAD-BASED PAINT HAZARDS

Property: {{property.address}}
Built: {{property.year_built}}

Landlord: {{landlord.name}}
Tenant: {{tenant.name}}

Lessor has no knowledge of lead-based paint and/or lead-based paint hazards in the housing except as described below.

Lessee has received the pamphlet "Protect Your Family from Lead in Your Home".

#field(id: "landlord_signature", type: "signature", x: 72, y: 80, width: 220, height: 40, recipient: "landlord")
#field(id: "tenant_signature", type: "signature", x: 320, y: 80, width: 220, height: 40, recipient: "tenant")
`

const listingAgreement = `EXCLUSIVE RIGHT TO SELL LISTING AGREEMENT

Seller: {{seller.name}}
Broker: {{broker.name}}
Property: {{property.address}}
List Price: {{listing.price}}
Commission: {{listing.commission_pct}}%

Seller grants Broker the exclusive right to sell the property described above.

#field(id: "seller_signature", type: "signature", x: 72, y: 100, width: 220, height: 40, recipient: "seller")
#field(id: "broker_signature", type: "signature", x: 320, y: 100, width: 220, height: 40, recipient: "broker")
`

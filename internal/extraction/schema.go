package extraction

// Class identifies a document class with its own schema and prompts.
type Class string

// Document classes handled by the pipeline.
const (
	ClassComp       Class = "comp"
	ClassPermit     Class = "permit"
	ClassProspect   Class = "prospect"
	ClassIndustrial Class = "industrial"
	ClassOffice     Class = "office"
	ClassLease      Class = "lease"
)

// Schema describes the extraction contract for one document class.
type Schema struct {
	Class    Class
	Fields   []string
	Guidance string
	// TwoPass enables the context-completing inferred pass.
	TwoPass bool
}

var schemas = map[Class]Schema{
	ClassComp: {
		Class: ClassComp,
		Fields: []string{
			"address", "city", "transaction_type", "tenant", "landlord",
			"vendor", "purchaser", "start_date", "term_months", "area_sqft",
			"rate_psf", "annual_rent", "sale_price", "notes",
		},
		Guidance: `The document describes a comparable commercial real estate
transaction (a lease or a sale). transaction_type is "lease" or "sale".
Dates use YYYY-MM-DD. area_sqft is the leased or sold area in square
feet. rate_psf is the net rental rate per square foot per year.
annual_rent is the total annual rent in dollars. For sales, vendor and
purchaser name the parties and sale_price the consideration.`,
		TwoPass: true,
	},
	ClassPermit: {
		Class: ClassPermit,
		Fields: []string{
			"permit_number", "issue_date", "address", "city", "owner",
			"contractor", "scope", "work_type", "value",
		},
		Guidance: `The document describes a commercial building permit.
permit_number is the full permit identifier (for example COMM-2025-01234).
issue_date uses YYYY-MM-DD. value is the declared construction value in
dollars. work_type is one of "New Construction", "Alteration/Renovation",
or "Demolition" when stated.`,
	},
	ClassProspect: {
		Class: ClassProspect,
		Fields: []string{
			"name", "company", "title", "email", "phone",
			"requirement", "notes",
		},
		Guidance: `The document describes a prospective client or contact.
name is the person's full name. requirement summarizes what space or
property they are looking for, including size and area when stated.`,
	},
	ClassIndustrial: {
		Class: ClassIndustrial,
		Fields: []string{
			"address", "city", "unit", "area_sqft", "asking_rate_psf",
			"op_costs_psf", "clear_height_ft", "loading_doors", "power",
			"available_date", "notes",
		},
		Guidance: `The document describes an available industrial space or
bay. area_sqft is the available area in square feet. asking_rate_psf and
op_costs_psf are per square foot per year. clear_height_ft is the clear
ceiling height in feet. loading_doors counts dock and grade doors.`,
	},
	ClassOffice: {
		Class: ClassOffice,
		Fields: []string{
			"address", "city", "suite", "floor", "area_sqft",
			"asking_rate_psf", "op_costs_psf", "available_date", "notes",
		},
		Guidance: `The document describes an available office suite.
area_sqft is the rentable area in square feet. asking_rate_psf and
op_costs_psf are per square foot per year.`,
	},
	ClassLease: {
		Class: ClassLease,
		Fields: []string{
			"tenant", "landlord", "address", "city", "commencement_date",
			"expiry_date", "term_months", "area_sqft", "base_rent_psf",
			"deposit", "free_rent_months", "renewal_options", "notes",
		},
		Guidance: `The document describes agreed lease terms. Dates use
YYYY-MM-DD. base_rent_psf is the starting net rent per square foot per
year. renewal_options describes any renewal or extension rights as text.`,
	},
}

// SchemaFor returns the schema registered for a document class.
func SchemaFor(c Class) Schema {
	return schemas[c]
}

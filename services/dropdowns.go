package services

// UnitOptions returns the list of measurement unit options.
var UnitOptions = []string{
	"Cum",
	"Sqm",
	"Rmt",
	"Nos",
	"Kg",
	"MT",
	"Bag",
	"Ltr",
	"Day",
	"Lumpsum",
}

// WorkTypeOptions returns the sanction types a work can be created under.
var WorkTypeOptions = []string{
	"Technical Sanction",
	"Administrative Approval",
}

// WorkStatusOptions returns the work lifecycle states.
var WorkStatusOptions = []string{
	"draft",
	"pending",
	"approved",
	"rejected",
	"in_progress",
	"completed",
}

// PartOptions returns the recap funding parts a subwork can belong to.
var PartOptions = []string{
	"part_a",
	"part_b",
}

// TaxScopeOptions returns the valid apply-to values for a recap tax entry.
var TaxScopeOptions = []string{
	"part_a",
	"part_b",
	"both",
}

// DefaultSSRRate is the fallback rate applied when a measurement selects no
// specific item rate.
const DefaultSSRRate = 660.0

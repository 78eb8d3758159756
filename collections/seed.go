package collections

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type ssrRateDef struct {
	srNo        string
	description string
	unit        string
	rate2023    float64
	rate2024    float64
	section     string
	pageNumber  int
	keywords    []string
}

type measurementDef struct {
	srNo        int
	description string
	noOfUnits   float64
	length      float64
	width       float64
	height      float64
	isDeduction bool
}

type itemDef struct {
	srNo        int
	description string
	unit        string
	rate        float64
	measures    []measurementDef
}

type subworkDef struct {
	name  string
	part  string
	unit  float64
	items []itemDef
}

type taxDef struct {
	name       string
	percentage float64
	applyTo    string
	sortOrder  int
}

// ssrRateDefs is the bundled SSR rate list used until a full rate book is
// imported.
var ssrRateDefs = []ssrRateDef{
	{"25", "Acetylene Gas for welding work", "Kg", 450, 485, "MATERIALS", 15,
		[]string{"acetylene", "gas", "welding", "cutting", "torch"}},
	{"38", "Cement OPC 53 Grade", "Bag", 385, 420, "MATERIALS", 8,
		[]string{"cement", "opc", "53", "grade", "binding", "concrete"}},
	{"42", "Steel TMT Bars Fe 500", "Kg", 65, 72, "MATERIALS", 12,
		[]string{"steel", "tmt", "bars", "fe", "500", "reinforcement", "rebar"}},
	{"15", "Sand fine aggregate", "Cum", 1200, 1350, "MATERIALS", 5,
		[]string{"sand", "fine", "aggregate", "mortar", "concrete"}},
	{"67", "Skilled Labour Mason", "Day", 650, 720, "LABOUR", 25,
		[]string{"labour", "labor", "mason", "skilled", "worker", "craftsman"}},
	{"89", "Brick work in cement mortar 1:6", "Cum", 4500, 4950, "MASONRY", 18,
		[]string{"brick", "work", "masonry", "cement", "mortar", "wall"}},
	{"156", "PCC M15 grade concrete", "Cum", 3200, 3520, "CONCRETE", 22,
		[]string{"pcc", "concrete", "m15", "grade", "plain", "foundation"}},
	{"178", "RCC M20 grade concrete", "Cum", 4800, 5280, "CONCRETE", 24,
		[]string{"rcc", "concrete", "m20", "grade", "reinforced", "structural"}},
	{"203", "Plaster work cement mortar 1:4", "Sqm", 180, 198, "PLASTERING", 28,
		[]string{"plaster", "plastering", "cement", "mortar", "finish", "wall"}},
	{"245", "Painting with acrylic emulsion", "Sqm", 85, 93.5, "PAINTING", 32,
		[]string{"painting", "paint", "acrylic", "emulsion", "wall", "finish"}},
}

// defaultTaxDefs are the recap tax rows created for every new work.
var defaultTaxDefs = []taxDef{
	{"GST", 18, "part_b", 1},
	{"Labour Insurance", 1, "part_b", 2},
	{"Royalty Charges", 0.5, "part_b", 3},
}

// Seed populates the collections with a realistic demonstration estimate:
// a CC road work with two subworks, priced items and measurement detail.
// Safe to call on every startup because it returns early if any work
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if works already exist ─────────────────────
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("seed: could not find works collection: %w", err)
	}
	existing, err := app.FindAllRecords(worksCol)
	if err != nil {
		return fmt.Errorf("seed: could not query works: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: works collection is empty – inserting seed data …")

	subworksCol, err := app.FindCollectionByNameOrId("subworks")
	if err != nil {
		return fmt.Errorf("seed: could not find subworks collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("subwork_items")
	if err != nil {
		return fmt.Errorf("seed: could not find subwork_items collection: %w", err)
	}
	measurementsCol, err := app.FindCollectionByNameOrId("item_measurements")
	if err != nil {
		return fmt.Errorf("seed: could not find item_measurements collection: %w", err)
	}
	taxesCol, err := app.FindCollectionByNameOrId("recap_taxes")
	if err != nil {
		return fmt.Errorf("seed: could not find recap_taxes collection: %w", err)
	}

	// ── helper: create item with measurements and cached totals ──────
	createItem := func(subworkID string, d itemDef) (float64, error) {
		item := core.NewRecord(itemsCol)
		item.Set("subwork", subworkID)
		item.Set("sr_no", d.srNo)
		item.Set("description_of_item", d.description)
		item.Set("ssr_unit", d.unit)
		item.Set("ssr_rate", d.rate)
		if err := app.Save(item); err != nil {
			return 0, fmt.Errorf("save item %q: %w", d.description, err)
		}

		var inputs []services.MeasurementInput
		for _, md := range d.measures {
			input := services.MeasurementInput{
				NoOfUnits:   md.noOfUnits,
				Length:      md.length,
				Width:       md.width,
				Height:      md.height,
				IsDeduction: md.isDeduction,
			}
			inputs = append(inputs, input)

			computed := services.ComputeMeasurement(input, d.rate)
			m := core.NewRecord(measurementsCol)
			m.Set("item", item.Id)
			m.Set("measurement_sr_no", md.srNo)
			m.Set("description_of_items", md.description)
			m.Set("no_of_units", md.noOfUnits)
			m.Set("length", md.length)
			m.Set("width_breadth", md.width)
			m.Set("height_depth", md.height)
			m.Set("unit", d.unit)
			m.Set("is_deduction", md.isDeduction)
			m.Set("calculated_quantity", computed.CalculatedQuantity)
			m.Set("line_amount", computed.LineAmount)
			if err := app.Save(m); err != nil {
				return 0, fmt.Errorf("save measurement %q: %w", md.description, err)
			}
		}

		totals, err := services.AggregateItem(inputs, d.rate)
		if err != nil {
			return 0, fmt.Errorf("aggregate item %q: %w", d.description, err)
		}
		item.Set("ssr_quantity", totals.TotalQuantity)
		item.Set("total_item_amount", totals.TotalAmount)
		if err := app.Save(item); err != nil {
			return 0, fmt.Errorf("update item totals %q: %w", d.description, err)
		}
		return totals.TotalAmount, nil
	}

	// ── the demo work ────────────────────────────────────────────────
	now := time.Now()
	worksID, err := services.GenerateWorksID(app, "Technical Sanction", now)
	if err != nil {
		return fmt.Errorf("seed: generate works id: %w", err)
	}

	work := core.NewRecord(worksCol)
	work.Set("works_id", worksID)
	work.Set("work_name", "Construction of CC Road and Drainage at Ward No. 4")
	work.Set("type", "Technical Sanction")
	work.Set("division", "Public Works Division")
	work.Set("sub_division", "Sub Division No. 2")
	work.Set("fund_head", "15th Finance Commission")
	work.Set("status", "draft")
	work.Set("ssr", "2024-25")
	if err := app.Save(work); err != nil {
		return fmt.Errorf("seed: save work: %w", err)
	}

	subworkDefs := []subworkDef{
		{
			name: "CC Road from Panchayat Office to Temple",
			part: "part_b",
			unit: 1,
			items: []itemDef{
				{
					srNo:        1,
					description: "Earthwork in excavation for road formation",
					unit:        "Cum",
					rate:        185,
					measures: []measurementDef{
						{1, "Road stretch ch. 0 to 120m", 1, 120, 3.75, 0.3, false},
					},
				},
				{
					srNo:        2,
					description: "PCC M15 grade concrete for base course",
					unit:        "Cum",
					rate:        3520,
					measures: []measurementDef{
						{1, "Base course ch. 0 to 120m", 1, 120, 3.75, 0.1, false},
						{2, "Culvert crossing", 1, 2.4, 3.75, 0.1, true},
					},
				},
				{
					srNo:        3,
					description: "RCC M20 grade concrete for wearing coat",
					unit:        "Cum",
					rate:        5280,
					measures: []measurementDef{
						{1, "Wearing coat ch. 0 to 120m", 1, 120, 3.75, 0.15, false},
					},
				},
			},
		},
		{
			name: "RCC Drain along CC Road",
			part: "part_b",
			unit: 1,
			items: []itemDef{
				{
					srNo:        1,
					description: "Earthwork in excavation for drain",
					unit:        "Cum",
					rate:        185,
					measures: []measurementDef{
						{1, "Drain both sides", 2, 120, 0.6, 0.75, false},
					},
				},
				{
					srNo:        2,
					description: "Brick work in cement mortar 1:6 for drain walls",
					unit:        "Cum",
					rate:        4950,
					measures: []measurementDef{
						{1, "Side walls", 4, 120, 0.23, 0.6, false},
					},
				},
			},
		},
	}

	var workTotal float64
	for i, sd := range subworkDefs {
		subworksID, err := services.GenerateSubworksID(app, work.Id, worksID)
		if err != nil {
			return fmt.Errorf("seed: generate subworks id: %w", err)
		}

		sw := core.NewRecord(subworksCol)
		sw.Set("work", work.Id)
		sw.Set("subworks_id", subworksID)
		sw.Set("subworks_name", sd.name)
		sw.Set("part", sd.part)
		sw.Set("unit", sd.unit)
		sw.Set("sort_order", i+1)
		if err := app.Save(sw); err != nil {
			return fmt.Errorf("seed: save subwork %q: %w", sd.name, err)
		}

		for _, id := range sd.items {
			amount, err := createItem(sw.Id, id)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			workTotal += amount
		}
	}

	work.Set("total_estimated_cost", workTotal)
	if err := app.Save(work); err != nil {
		return fmt.Errorf("seed: update work total: %w", err)
	}

	for _, td := range defaultTaxDefs {
		tax := core.NewRecord(taxesCol)
		tax.Set("work", work.Id)
		tax.Set("name", td.name)
		tax.Set("percentage", td.percentage)
		tax.Set("apply_to", td.applyTo)
		tax.Set("enabled", true)
		tax.Set("sort_order", td.sortOrder)
		if err := app.Save(tax); err != nil {
			return fmt.Errorf("seed: save tax %q: %w", td.name, err)
		}
	}

	log.Printf("seed: created work %s with %d subworks", worksID, len(subworkDefs))
	return nil
}

// SeedSSRRates inserts the bundled SSR rate list when the ssr_rates
// collection is empty. Idempotent on startup.
func SeedSSRRates(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("ssr_rates")
	if err != nil {
		return fmt.Errorf("seed ssr: could not find ssr_rates collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed ssr: could not query ssr_rates: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	for _, d := range ssrRateDefs {
		r := core.NewRecord(col)
		r.Set("sr_no", d.srNo)
		r.Set("description", d.description)
		r.Set("unit", d.unit)
		r.Set("rate_2023_24", d.rate2023)
		r.Set("rate_2024_25", d.rate2024)
		r.Set("section", d.section)
		r.Set("page_number", d.pageNumber)
		r.Set("keywords", strings.Join(d.keywords, ","))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed ssr: save %q: %w", d.description, err)
		}
	}

	log.Printf("seed ssr: inserted %d rate entries", len(ssrRateDefs))
	return nil
}

// CreateDefaultTaxes inserts the standard recap tax rows for a newly created
// work. Works created by the seed get them inline; this is the call-site for
// works created through the UI.
func CreateDefaultTaxes(app *pocketbase.PocketBase, workID string) error {
	col, err := app.FindCollectionByNameOrId("recap_taxes")
	if err != nil {
		return fmt.Errorf("default taxes: %w", err)
	}
	for _, td := range defaultTaxDefs {
		tax := core.NewRecord(col)
		tax.Set("work", workID)
		tax.Set("name", td.name)
		tax.Set("percentage", td.percentage)
		tax.Set("apply_to", td.applyTo)
		tax.Set("enabled", true)
		tax.Set("sort_order", td.sortOrder)
		if err := app.Save(tax); err != nil {
			return fmt.Errorf("default taxes: save %q: %w", td.name, err)
		}
	}
	return nil
}

package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the estimate collections exist:
// works, subworks, subwork_items, item_measurements, item_rates, item_leads,
// item_materials, ssr_rates and recap_taxes.
func Setup(app *pocketbase.PocketBase) {
	works := ensureCollection(app, "works", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "works_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "work_name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"Technical Sanction", "Administrative Approval"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "division", Required: false})
		c.Fields.Add(&core.TextField{Name: "sub_division", Required: false})
		c.Fields.Add(&core.TextField{Name: "fund_head", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"draft", "pending", "approved", "rejected", "in_progress", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "ssr", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_estimated_cost", Required: false})
		c.Fields.Add(&core.TextField{Name: "recap_json", Required: false, Max: 100000})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	subworks := ensureCollection(app, "subworks", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "subworks_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "subworks_name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "part",
			Required:  false,
			Values:    []string{"part_a", "part_b"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	items := ensureCollection(app, "subwork_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "subwork",
			Required:      true,
			CollectionId:  subworks.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sr_no", Required: false})
		c.Fields.Add(&core.TextField{Name: "description_of_item", Required: true, Max: 2000})
		c.Fields.Add(&core.TextField{Name: "ssr_unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "ssr_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "ssr_quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_item_amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
	})

	itemRates := ensureCollection(app, "item_rates", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	ensureCollection(app, "item_measurements", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "measurement_sr_no", Required: false})
		c.Fields.Add(&core.TextField{Name: "description_of_items", Required: false, Max: 2000})
		c.Fields.Add(&core.NumberField{Name: "no_of_units", Required: false})
		c.Fields.Add(&core.NumberField{Name: "length", Required: false})
		c.Fields.Add(&core.NumberField{Name: "width_breadth", Required: false})
		c.Fields.Add(&core.NumberField{Name: "height_depth", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_deduction"})
		c.Fields.Add(&core.BoolField{Name: "is_manual_quantity"})
		c.Fields.Add(&core.NumberField{Name: "manual_quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "calculated_quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "line_amount", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:          "selected_rate",
			Required:      false,
			CollectionId:  itemRates.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
	})

	ensureCollection(app, "item_leads", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "material", Required: true})
		c.Fields.Add(&core.NumberField{Name: "lead_distance_km", Required: false})
		c.Fields.Add(&core.NumberField{Name: "initial_lead_charges", Required: false})
		c.Fields.Add(&core.NumberField{Name: "lead_charges", Required: false})
		c.Fields.Add(&core.NumberField{Name: "net_lead_charges", Required: false})
	})

	ensureCollection(app, "item_materials", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "item",
			Required:      true,
			CollectionId:  items.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "material_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_material_cost", Required: false})
	})

	ensureCollection(app, "ssr_rates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "sr_no", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true, Max: 2000})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate_2023_24", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate_2024_25", Required: false})
		c.Fields.Add(&core.TextField{Name: "section", Required: false})
		c.Fields.Add(&core.NumberField{Name: "page_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "keywords", Required: false, Max: 2000})
	})

	ensureCollection(app, "recap_taxes", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "percentage", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "apply_to",
			Required:  true,
			Values:    []string{"part_a", "part_b", "both"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "enabled"})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

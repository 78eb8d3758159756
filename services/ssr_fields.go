package services

// TemplateField describes one column of the SSR rate import template.
type TemplateField struct {
	Key          string // internal name, matches PocketBase field name
	Label        string // human-readable header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string // e.g. "number", "comma-separated", ""
	ExampleValue string // shown on the Instructions sheet
	Required     bool
}

// SSRTemplateFields returns the ordered list of columns for SSR rate imports.
func SSRTemplateFields() []TemplateField {
	return []TemplateField{
		{
			Key:          "sr_no",
			Label:        "Sr No",
			Description:  "SSR serial number, unique within the rate list",
			FormatRule:   "text, unique",
			ExampleValue: "22.15",
			Required:     true,
		},
		{
			Key:          "description",
			Label:        "Description",
			Description:  "Full item description as printed in the SSR book",
			ExampleValue: "Providing and laying cement concrete M-15",
			Required:     true,
		},
		{
			Key:          "unit",
			Label:        "Unit",
			Description:  "Unit of measurement (Cum, Sqm, Rmt, Nos, Kg, MT...)",
			ExampleValue: "Cum",
			Required:     true,
		},
		{
			Key:          "rate_2023_24",
			Label:        "Rate 2023-24",
			Description:  "Rate for the 2023-24 SSR year, in rupees",
			FormatRule:   "number >= 0",
			ExampleValue: "5245.50",
		},
		{
			Key:          "rate_2024_25",
			Label:        "Rate 2024-25",
			Description:  "Rate for the 2024-25 SSR year, in rupees",
			FormatRule:   "number >= 0",
			ExampleValue: "5510.00",
			Required:     true,
		},
		{
			Key:          "section",
			Label:        "Section",
			Description:  "SSR book chapter or section name",
			ExampleValue: "Concrete Work",
		},
		{
			Key:          "page_number",
			Label:        "Page No",
			Description:  "Page number in the SSR book",
			FormatRule:   "whole number",
			ExampleValue: "142",
		},
		{
			Key:          "keywords",
			Label:        "Keywords",
			Description:  "Search keywords used by item suggestions",
			FormatRule:   "comma-separated",
			ExampleValue: "concrete, cement, m15, pcc",
		},
	}
}

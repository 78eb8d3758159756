package services

// ExportMeasurementRow is a single measurement line under an item in the
// estimate report.
type ExportMeasurementRow struct {
	SrNo        int
	Description string
	NoOfUnits   float64
	Length      float64
	Width       float64
	Height      float64
	Quantity    float64
	Unit        string
	LineAmount  float64
	IsDeduction bool
}

// ExportItemRow is one priced subwork item with its measurement detail.
type ExportItemRow struct {
	SrNo         int
	Description  string
	Quantity     float64
	Unit         string
	Rate         float64
	Amount       float64
	Measurements []ExportMeasurementRow
}

// ExportSubwork groups the items of one subwork.
type ExportSubwork struct {
	SubworksID   string
	SubworksName string
	Part         string
	Items        []ExportItemRow
	TotalAmount  float64
}

// EstimateExportData holds everything the PDF and Excel report generators
// need for one work.
type EstimateExportData struct {
	WorksID     string
	WorkName    string
	WorkType    string
	Division    string
	SubDivision string
	FundHead    string
	SSR         string
	CreatedDate string
	HeaderLines []string
	FooterLines []string
	Subworks    []ExportSubwork
	Recap       *RecapCalculation
}

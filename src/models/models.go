package models

// RawHolding is the manager-specific, transient shape a parser emits for one
// statement row. Each parser is responsible for populating as many of these
// fields as possible directly from the source document; values stay in the
// statement's own currency until the normalizer runs.
type RawHolding struct {
	SourceManager   string
	AssetType       string
	AssetName       string
	InvestmentValue float64
	MarketValue     float64
	Currency        string // ISO code of the two value fields, e.g. "INR", "USD"
	ValueAsOfDate   string // "2006-01-02", as printed on the statement
	InvestmentDate  string // optional, "" when the statement does not carry it
	IRRPercentage   *float64
	RawData         map[string]any
}

// Holding is the canonical, persisted unit. The json tags are the interchange
// contract with every downstream viewer and must not change.
type Holding struct {
	ManagerName            string         `json:"manager_name"`
	AssetType              string         `json:"asset_type"`
	AssetName              string         `json:"asset_name"`
	CurrentInvestmentValue float64        `json:"current_investment_value"`
	CurrentMarketValue     float64        `json:"current_market_value"`
	ValueAsOfDate          string         `json:"value_as_of_date"`
	PLAmount               float64        `json:"pl_amount"`
	PLPercentage           float64        `json:"pl_percentage"`
	IRRPercentage          *float64       `json:"irr_percentage"`
	InvestmentDate         string         `json:"investment_date,omitempty"`
	RawData                map[string]any `json:"raw_data,omitempty"`
}

// ManagerSummary records the outcome of one manager's extraction.
type ManagerSummary struct {
	Manager         string
	StatementPath   string
	RowsExtracted   int
	RowsDropped     int // failed mandatory-field validation
	RowsUnconverted int // no exchange rate resolvable
	Err             error
}

// RunReport aggregates per-manager summaries for one pipeline run.
type RunReport struct {
	MonthDir  string
	Managers  []ManagerSummary
	Extracted int // rows after parsing, before the filter
	Emitted   int // rows in the final dataset
}

func (r *RunReport) Failed() []ManagerSummary {
	var failed []ManagerSummary
	for _, m := range r.Managers {
		if m.Err != nil {
			failed = append(failed, m)
		}
	}
	return failed
}

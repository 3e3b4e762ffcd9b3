package model

// NetPosition is the aggregate of a symbol's open Buy lots. A symbol with no
// open lots yields the zero value, which callers treat as "no holding".
type NetPosition struct {
	Symbol    string  `json:"symbol"`
	Units     float64 `json:"units"`
	TotalCost float64 `json:"total_cost"`
}

// Position is the detailed per-symbol view served by the positions endpoint.
type Position struct {
	Symbol                string   `json:"symbol"`
	Units                 float64  `json:"units"`
	CurrentPrice          float64  `json:"current_price"`
	PositionValue         float64  `json:"position_value"`
	MA50                  *float64 `json:"ma50"`
	MA200                 *float64 `json:"ma200"`
	CostBasis             float64  `json:"cost_basis"`
	UnrealizedGain        float64  `json:"unrealized_gain"`
	UnrealizedGainPercent float64  `json:"unrealized_gain_percent"`
	Sector                string   `json:"sector"`
	DividendYield         float64  `json:"dividend_yield"`
	AnnualDividend        float64  `json:"annual_dividend"`
	RealizedPL            float64  `json:"realized_pl"`
	TotalDividends        float64  `json:"total_dividends"`
}

// Holding is one row of the holdings report.
type Holding struct {
	Symbol                string   `json:"symbol"`
	Units                 float64  `json:"units"`
	CurrentPrice          float64  `json:"current_price"`
	PositionValue         float64  `json:"position_value"`
	MA50                  *float64 `json:"ma50"`
	MA200                 *float64 `json:"ma200"`
	Overamt               *float64 `json:"overamt"`
	PriceChange           float64  `json:"price_change"`
	PriceChangePct        float64  `json:"price_change_pct"`
	UnrealizedGain        float64  `json:"unrealized_gain"`
	UnrealizedGainPercent float64  `json:"unrealized_gain_percent"`
}

// SecurityReturn is one row of the returns-by-security report.
type SecurityReturn struct {
	Symbol        string  `json:"symbol"`
	ReturnPercent float64 `json:"return_percent"`
}

// SectorSlice is one sector's share of the portfolio.
type SectorSlice struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// SectorAllocation is the sector allocation report.
type SectorAllocation struct {
	Sectors    []SectorSlice `json:"sectors"`
	TotalValue float64       `json:"total_value"`
}

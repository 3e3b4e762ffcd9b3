package model

// Weight flags materialized by the rebalance engine.
const (
	FlagOver  = "O"
	FlagHold  = "H"
	FlagUnder = "U"
)

// MPTRecord is one symbol's row in the allocation model.
type MPTRecord struct {
	Symbol        string   `json:"symbol"`
	TargetAlloc   *float64 `json:"target_alloc"`
	Sector        *string  `json:"sector"`
	SectorShort   *string  `json:"sectorshort"`
	Industry      *string  `json:"industry"`
	MarketCap     *string  `json:"market_cap"`
	Flag          *string  `json:"flag"`
	Overamt       *float64 `json:"overamt"`
	DivYield      *float64 `json:"divyield"`
	PE            *float64 `json:"pe"`
	RSI           *float64 `json:"rsi"`
	DivGrowthRate *float64 `json:"div_growth_rate"`
	FCFNIRatio    *float64 `json:"fcf_ni_ratio"`
}

// OverweightUpdate carries one symbol's recomputed deviation from target.
type OverweightUpdate struct {
	Symbol  string
	Overamt float64
	Flag    string
}

// RebalanceResult summarizes one rebalance engine run.
type RebalanceResult struct {
	TotalValue     float64  `json:"total_value"`
	UpdatedSymbols int      `json:"updated_symbols"`
	SkippedSymbols []string `json:"skipped_symbols,omitempty"`
}

// PriceQuote is the current price row for a symbol.
type PriceQuote struct {
	Symbol     string   `json:"symbol"`
	Price      *float64 `json:"price"`
	LastUpdate *int64   `json:"lastupdate"`
	Mean50     *float64 `json:"mean50"`
	Mean200    *float64 `json:"mean200"`
	DivYield   *float64 `json:"divyield"`
}

// SecurityValue is one daily history row for a symbol.
type SecurityValue struct {
	Symbol    string   `json:"symbol"`
	Timestamp string   `json:"timestamp"`
	Close     *float64 `json:"close"`
	Shares    *float64 `json:"shares"`
	CostBasis *float64 `json:"cost_basis"`
	CumDivs   *float64 `json:"cum_divs"`
	CumRealGL *float64 `json:"cum_real_gl"`
	CBPS      *float64 `json:"cbps"`
}

package model

// Term classification for tax treatment. A lot held exactly 365 days is
// still short-term; the boundary is a strict "more than one year".
const (
	TermLong  = "Long-term"
	TermShort = "Short-term"
)

// OpenLot is a derived view over a Buy transaction that has not been closed.
// Value fields are nil when the symbol has no current price, so unit totals
// stay usable while P&L is explicitly unknown.
type OpenLot struct {
	ID             int64    `json:"id"`
	Account        string   `json:"acct"`
	Symbol         string   `json:"symbol"`
	Date           string   `json:"date_new"`
	Units          float64  `json:"units"`
	UnitsRemaining *float64 `json:"units_remaining"`
	Price          float64  `json:"price"`
	Term           string   `json:"term"`
	LotBasis       *float64 `json:"lot_basis"`
	CurrentValue   *float64 `json:"current_value"`
	ProfitLoss     *float64 `json:"profit_loss"`
	PLPct          *float64 `json:"pl_pct"`
}

// PotentialLot is a sale candidate: a profitable open lot of an overweight
// symbol, ranked globally by profit percentage.
type PotentialLot struct {
	Account      string  `json:"account"`
	Symbol       string  `json:"symbol"`
	Date         string  `json:"date"`
	Units        float64 `json:"units"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	Profit       float64 `json:"profit"`
	ProfitPct    float64 `json:"profit_pct"`
	IsLongTerm   bool    `json:"is_long_term"`
	TargetDiff   float64 `json:"target_diff"`
}

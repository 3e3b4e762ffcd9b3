package model

// Transaction type tags. The set is open: rows carry whatever tag they were
// recorded with, but these three drive all derivations.
const (
	TypeBuy  = "Buy"
	TypeSell = "Sell"
	TypeDiv  = "Div"
)

// DispositionSold marks a Buy lot as fully closed.
const DispositionSold = "sold"

// Transaction represents one row of the transaction ledger.
// Used internally for calculations and data processing.
type Transaction struct {
	ID             int64    `json:"id"`
	Date           string   `json:"date"`
	Symbol         string   `json:"symbol"`
	Type           string   `json:"type"`
	Account        string   `json:"account"`
	Price          float64  `json:"price"`
	Units          float64  `json:"units"`
	UnitsRemaining *float64 `json:"units_remaining"`
	Gain           *float64 `json:"gain"`
	Disposition    *string  `json:"disposition"`
	Fee            *float64 `json:"fee,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

// EffectiveUnits returns the units still open in a Buy lot: units_remaining
// when set, the original units otherwise (legacy rows predate the column).
func (t Transaction) EffectiveUnits() float64 {
	if t.UnitsRemaining != nil {
		return *t.UnitsRemaining
	}
	return t.Units
}

// IsClosed reports whether a Buy lot has been fully disposed of.
func (t Transaction) IsClosed() bool {
	if t.Disposition != nil && *t.Disposition != "" {
		return true
	}
	return t.UnitsRemaining != nil && *t.UnitsRemaining <= 0
}

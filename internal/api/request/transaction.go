// Package request defines the JSON request bodies accepted by the API.
package request

// CreateTransactionRequest is the body for recording a ledger entry.
type CreateTransactionRequest struct {
	Date    string   `json:"date"`
	Symbol  string   `json:"symbol"`
	Type    string   `json:"type"`
	Account string   `json:"account"`
	Price   float64  `json:"price"`
	Units   float64  `json:"units"`
	Fee     *float64 `json:"fee,omitempty"`
	Note    *string  `json:"note,omitempty"`
}

// UpdateTransactionRequest is the body for rewriting a ledger entry.
type UpdateTransactionRequest struct {
	Date           string   `json:"date"`
	Symbol         string   `json:"symbol"`
	Type           string   `json:"type"`
	Account        string   `json:"account"`
	Price          float64  `json:"price"`
	Units          float64  `json:"units"`
	UnitsRemaining *float64 `json:"units_remaining,omitempty"`
	Gain           *float64 `json:"gain,omitempty"`
	Disposition    *string  `json:"disposition,omitempty"`
	Fee            *float64 `json:"fee,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

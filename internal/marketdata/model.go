package marketdata

// chartResponse mirrors the provider's chart API envelope. Only the fields
// the price jobs consume are mapped.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *string       `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Quote is a symbol's latest traded price.
type Quote struct {
	Symbol string
	Price  float64
}

// Bar is one daily close.
type Bar struct {
	Timestamp int64
	Close     float64
}

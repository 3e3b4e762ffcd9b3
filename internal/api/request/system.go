package request

// SetTokenRequest is the body for storing the market data provider token.
type SetTokenRequest struct {
	Token string `json:"token"`
}

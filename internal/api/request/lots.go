package request

// CloseLotsRequest is the body for closing one or more open lots.
type CloseLotsRequest struct {
	LotIDs []int64 `json:"lot_ids"`
}

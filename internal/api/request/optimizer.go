package request

// OptimizeRequest is the body for launching an optimization run. Zero-valued
// tuning fields fall back to server defaults.
type OptimizeRequest struct {
	Symbols       []string `json:"symbols"`
	LookbackDays  int      `json:"lookback_days"`
	Iterations    int      `json:"iterations"`
	RiskAversion  float64  `json:"risk_aversion"`
	MaxWeight     float64  `json:"max_weight"`
	MinWeight     float64  `json:"min_weight"`
	TotalPortion  float64  `json:"total_portion"`
	RoundDecimals int      `json:"round_decimals"`
}

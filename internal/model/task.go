package model

import "time"

// Background task states.
const (
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// Task tracks one asynchronous optimizer run.
type Task struct {
	ID        string      `json:"task_id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// OptimizationRequest is the optimizer input.
type OptimizationRequest struct {
	Symbols       []string `json:"symbols"`
	LookbackDays  int      `json:"lookback_days"`
	Iterations    int      `json:"iterations"`
	RiskAversion  float64  `json:"risk_aversion"`
	MaxWeight     float64  `json:"max_weight"`
	MinWeight     float64  `json:"min_weight"`
	TotalPortion  float64  `json:"total_portion"`
	RoundDecimals int      `json:"round_decimals"`
}

// OptimizationResult is the optimizer output for one run.
type OptimizationResult struct {
	Weights        map[string]float64 `json:"weights"`
	ExpectedReturn float64            `json:"expected_return"`
	Volatility     float64            `json:"volatility"`
	Score          float64            `json:"score"`
	Iterations     int                `json:"iterations"`
	Symbols        []string           `json:"symbols"`
}

package model

// Dividend payment frequencies as reported by the classifier.
const (
	FreqMonthly   = "monthly"
	FreqQuarterly = "quarterly"
)

// Classifier reasons.
const (
	ReasonIntervalAnalysis = "interval_analysis"
	ReasonPaymentCount     = "payment_count"
	ReasonInsufficientData = "insufficient_data"
	ReasonParsingError     = "parsing_error"
	ReasonInconclusive     = "inconclusive"
)

// DividendPayment is one Div transaction projected for analysis.
type DividendPayment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// FrequencyResult is the classifier's verdict for one symbol, including the
// evidence it was derived from.
type FrequencyResult struct {
	Symbol          string         `json:"symbol"`
	Frequency       string         `json:"frequency"`
	Confidence      float64        `json:"confidence"`
	Reason          string         `json:"reason"`
	DataPoints      int            `json:"data_points"`
	AvgIntervalDays float64        `json:"avg_interval_days"`
	IntervalStdDev  float64        `json:"interval_std_dev"`
	Intervals       []int          `json:"intervals"`
	PaymentsByYear  map[string]int `json:"payments_by_year"`
}

// ForecastPoint is one predicted dividend payment.
type ForecastPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// DividendForecast is the regression-based projection for one symbol.
type DividendForecast struct {
	Symbol           string          `json:"symbol"`
	Frequency        string          `json:"frequency"`
	LastThree        []ForecastPoint `json:"last_three"`
	CompleteForecast []ForecastPoint `json:"complete_forecast"`
}

// MonthlyDividend is one month's summed dividend income for a symbol.
type MonthlyDividend struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

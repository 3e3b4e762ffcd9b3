package service

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/config"
	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// Classifier window and thresholds. Interval bounds are in days; a monthly
// payer lands near 30, a quarterly payer near 91.
const (
	classifierWindowMonths = 36

	monthlyMeanLow   = 25.0
	monthlyMeanHigh  = 35.0
	monthlyMaxStdDev = 10.0

	quarterlyMeanLow   = 80.0
	quarterlyMeanHigh  = 100.0
	quarterlyMaxStdDev = 15.0
)

// Predictor windows in months. Symbols on the long-history list get the
// extended window because their payment records are sparse.
const (
	forecastWindowMonths     = 24
	forecastLongWindowMonths = 36
)

// forecastCutoff bounds how far forward the predictor will extend a series.
var forecastCutoff = time.Date(2038, time.November, 1, 0, 0, 0, 0, time.UTC)

// DividendService analyzes and forecasts dividend income from the
// transaction ledger's Div rows.
type DividendService struct {
	txRepo *repository.TransactionRepository
	cfg    *config.Config
	logger zerolog.Logger

	now func() time.Time
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	txRepo *repository.TransactionRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *DividendService {
	return &DividendService{
		txRepo: txRepo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// ClassifyFrequency infers a symbol's payment cadence from the gaps between
// its dividend dates over a trailing three-year window. It never fails on
// sparse or dirty data; the fallback is quarterly with zero confidence and a
// machine-readable reason.
func (s *DividendService) ClassifyFrequency(symbol string) (model.FrequencyResult, error) {
	since := s.now().AddDate(0, -classifierWindowMonths, 0).Format("2006-01-02")
	dates, err := s.txRepo.GetDividendDates(symbol, since)
	if err != nil {
		return model.FrequencyResult{}, err
	}

	result := model.FrequencyResult{
		Symbol:         symbol,
		Frequency:      model.FreqQuarterly,
		Confidence:     0.0,
		DataPoints:     len(dates),
		Intervals:      []int{},
		PaymentsByYear: map[string]int{},
	}

	if len(dates) < 3 {
		result.Reason = model.ReasonInsufficientData
		return result, nil
	}

	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := repository.ParseTime(d)
		if err != nil {
			s.logger.Warn().Str("symbol", symbol).Str("date", d).Msg("unparseable dividend date, discarding")
			continue
		}
		parsed = append(parsed, t.Truncate(24*time.Hour))
	}

	if len(parsed) == 0 {
		result.Reason = model.ReasonParsingError
		return result, nil
	}

	byYear := map[string]int{}
	for _, t := range parsed {
		byYear[strconv.Itoa(t.Year())]++
	}
	result.PaymentsByYear = byYear
	result.DataPoints = len(parsed)

	if len(parsed) < 3 {
		result.Reason = model.ReasonInsufficientData
		return result, nil
	}

	intervals := make([]float64, 0, len(parsed)-1)
	rawIntervals := make([]int, 0, len(parsed)-1)
	for i := 1; i < len(parsed); i++ {
		days := int(parsed[i].Sub(parsed[i-1]).Hours() / 24)
		intervals = append(intervals, float64(days))
		rawIntervals = append(rawIntervals, days)
	}

	mean := stat.Mean(intervals, nil)
	stdDev := stat.PopStdDev(intervals, nil)

	result.Intervals = rawIntervals
	result.AvgIntervalDays = roundTo(mean, 1)
	result.IntervalStdDev = roundTo(stdDev, 1)

	switch {
	case mean >= monthlyMeanLow && mean <= monthlyMeanHigh && stdDev < monthlyMaxStdDev:
		result.Frequency = model.FreqMonthly
		result.Confidence = roundTo(max(0, 0.9-stdDev/100), 2)
		result.Reason = model.ReasonIntervalAnalysis
	case mean >= quarterlyMeanLow && mean <= quarterlyMeanHigh && stdDev < quarterlyMaxStdDev:
		result.Frequency = model.FreqQuarterly
		result.Confidence = roundTo(max(0, 0.9-stdDev/150), 2)
		result.Reason = model.ReasonIntervalAnalysis
	default:
		s.classifyByPaymentCount(&result, parsed)
	}

	return result, nil
}

// classifyByPaymentCount is the fallback when interval statistics are too
// noisy: count payments per full calendar year, excluding the first and last
// years in the sample since those are likely partial.
func (s *DividendService) classifyByPaymentCount(result *model.FrequencyResult, parsed []time.Time) {
	firstYear := parsed[0].Year()
	lastYear := parsed[len(parsed)-1].Year()

	var total, years int
	for y := firstYear + 1; y < lastYear; y++ {
		total += result.PaymentsByYear[strconv.Itoa(y)]
		years++
	}
	if years == 0 {
		result.Reason = model.ReasonInconclusive
		return
	}

	avg := float64(total) / float64(years)
	switch {
	case avg >= 10:
		result.Frequency = model.FreqMonthly
		result.Confidence = 0.7
		result.Reason = model.ReasonPaymentCount
	case avg >= 3 && avg <= 5:
		result.Frequency = model.FreqQuarterly
		result.Confidence = 0.7
		result.Reason = model.ReasonPaymentCount
	default:
		result.Reason = model.ReasonInconclusive
	}
}

// Forecast projects a symbol's per-period dividend income forward by fitting
// an ordinary least-squares line over its historical month-grouped totals.
// Pass monthly as nil to let the classifier pick the cadence.
func (s *DividendService) Forecast(symbol string, monthly *bool) (model.DividendForecast, error) {
	window := forecastWindowMonths
	if s.cfg.IsLongHistory(symbol) {
		window = forecastLongWindowMonths
	}
	since := s.now().AddDate(0, -window, 0).Format("2006-01-02")

	history, err := s.txRepo.GetMonthlyDividends(symbol, since)
	if err != nil {
		return model.DividendForecast{}, err
	}
	if len(history) == 0 {
		return model.DividendForecast{}, apperrors.ErrNoDividendHistory
	}

	isMonthly := false
	if monthly != nil {
		isMonthly = *monthly
	} else {
		classification, err := s.ClassifyFrequency(symbol)
		if err != nil {
			return model.DividendForecast{}, err
		}
		isMonthly = classification.Frequency == model.FreqMonthly
	}

	n := len(history)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, h := range history {
		xs[i] = float64(i + 1)
		ys[i] = h.Amount
	}

	var alpha, beta float64
	if n >= 2 {
		alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	} else {
		alpha = ys[0]
	}

	lastPeriod, err := time.Parse("2006-01", history[n-1].Month)
	if err != nil {
		return model.DividendForecast{}, apperrors.ErrNoDividendHistory
	}

	monthStep := 3
	frequency := model.FreqQuarterly
	if isMonthly {
		monthStep = 1
		frequency = model.FreqMonthly
	}

	forecast := []model.ForecastPoint{}
	step := 1
	for date := lastPeriod.AddDate(0, monthStep, 0); !date.After(forecastCutoff); date = date.AddDate(0, monthStep, 0) {
		value := alpha + beta*float64(n+step)
		if value < 0 {
			value = 0
		}
		forecast = append(forecast, model.ForecastPoint{
			Date:   date.Format("2006-01"),
			Amount: round(value),
		})
		step++
	}

	lastThree := forecast
	if len(forecast) > 3 {
		lastThree = forecast[len(forecast)-3:]
	}

	return model.DividendForecast{
		Symbol:           symbol,
		Frequency:        frequency,
		LastThree:        lastThree,
		CompleteForecast: forecast,
	}, nil
}

// ForecastAll builds a forecast for every symbol with dividend history.
// Symbols whose history has gone stale enough to yield no forecast are
// skipped rather than failing the batch.
func (s *DividendService) ForecastAll() ([]model.DividendForecast, error) {
	symbols, err := s.txRepo.GetDividendSymbols()
	if err != nil {
		return nil, err
	}

	forecasts := make([]model.DividendForecast, 0, len(symbols))
	for _, symbol := range symbols {
		monthly := s.cfg.IsMonthlyPayer(symbol)
		f, err := s.Forecast(symbol, &monthly)
		if err == apperrors.ErrNoDividendHistory {
			continue
		}
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, nil
}

// History returns every recorded dividend payment for a symbol.
func (s *DividendService) History(symbol string) ([]model.DividendPayment, error) {
	payments, err := s.txRepo.GetDividendHistory(symbol)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, apperrors.ErrNoDividendHistory
	}
	return payments, nil
}

package service

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mike4330/stokapp-v2/internal/model"
	"github.com/mike4330/stokapp-v2/internal/repository"
)

// tradingDaysPerYear annualizes daily return statistics.
const tradingDaysPerYear = 252

// Optimizer defaults, applied when the request leaves a field zero.
const (
	defaultLookbackDays  = 504
	defaultIterations    = 20000
	defaultRiskAversion  = 1.0
	defaultMaxWeight     = 0.35
	defaultTotalPortion  = 1.0
	defaultRoundDecimals = 4
)

// OptimizerService runs mean-variance weight searches over historical closes
// as fire-and-forget background tasks polled by task ID.
type OptimizerService struct {
	svRepo *repository.SecurityValueRepository
	tasks  TaskStore
	logger zerolog.Logger
}

// NewOptimizerService creates a new OptimizerService with the provided dependencies.
func NewOptimizerService(
	svRepo *repository.SecurityValueRepository,
	tasks TaskStore,
	logger zerolog.Logger,
) *OptimizerService {
	return &OptimizerService{
		svRepo: svRepo,
		tasks:  tasks,
		logger: logger,
	}
}

// StartOptimization launches a background optimization run and returns the
// task ID to poll. Results and failures land in the task store.
func (s *OptimizerService) StartOptimization(req model.OptimizationRequest) (model.Task, error) {
	if len(req.Symbols) < 2 {
		return model.Task{}, fmt.Errorf("optimization requires at least 2 symbols")
	}
	applyOptimizationDefaults(&req)

	task := s.tasks.Create(uuid.NewString())

	go func() {
		result, err := s.optimize(req)
		if err != nil {
			s.logger.Error().Err(err).Str("task_id", task.ID).Msg("optimization failed")
			if ferr := s.tasks.Fail(task.ID, err.Error()); ferr != nil {
				s.logger.Error().Err(ferr).Str("task_id", task.ID).Msg("failed to record task failure")
			}
			return
		}
		if cerr := s.tasks.Complete(task.ID, result); cerr != nil {
			s.logger.Error().Err(cerr).Str("task_id", task.ID).Msg("failed to record task result")
		}
	}()

	return task, nil
}

// GetTask retrieves the state of a previously started run.
func (s *OptimizerService) GetTask(id string) (model.Task, error) {
	return s.tasks.Get(id)
}

func applyOptimizationDefaults(req *model.OptimizationRequest) {
	if req.LookbackDays <= 0 {
		req.LookbackDays = defaultLookbackDays
	}
	if req.Iterations <= 0 {
		req.Iterations = defaultIterations
	}
	if req.RiskAversion <= 0 {
		req.RiskAversion = defaultRiskAversion
	}
	if req.MaxWeight <= 0 {
		req.MaxWeight = defaultMaxWeight
	}
	if req.TotalPortion <= 0 {
		req.TotalPortion = defaultTotalPortion
	}
	if req.RoundDecimals <= 0 {
		req.RoundDecimals = defaultRoundDecimals
	}
}

// optimize fits return statistics from stored closes and runs a bounded
// random search over the weight simplex, scoring each sample by expected
// return minus risk-aversion-weighted variance.
func (s *OptimizerService) optimize(req model.OptimizationRequest) (model.OptimizationResult, error) {
	returns, err := s.dailyReturns(req.Symbols, req.LookbackDays)
	if err != nil {
		return model.OptimizationResult{}, err
	}

	nAssets := len(req.Symbols)
	nObs := len(returns[req.Symbols[0]])

	obs := mat.NewDense(nObs, nAssets, nil)
	means := make([]float64, nAssets)
	for j, symbol := range req.Symbols {
		series := returns[symbol]
		for i, r := range series {
			obs.Set(i, j, r)
		}
		means[j] = stat.Mean(series, nil) * tradingDaysPerYear
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, nil)
	cov.ScaleSym(tradingDaysPerYear, &cov)

	best := model.OptimizationResult{
		Score:      -1e18,
		Iterations: req.Iterations,
		Symbols:    req.Symbols,
	}

	weights := make([]float64, nAssets)
	for iter := 0; iter < req.Iterations; iter++ {
		if !sampleWeights(weights, req) {
			continue
		}

		var expected float64
		for j, w := range weights {
			expected += w * means[j]
		}

		var variance float64
		for a := 0; a < nAssets; a++ {
			for b := 0; b < nAssets; b++ {
				variance += weights[a] * weights[b] * cov.At(a, b)
			}
		}

		score := expected - req.RiskAversion*variance
		if score > best.Score {
			best.Score = score
			best.ExpectedReturn = expected
			best.Volatility = variance
			best.Weights = snapshotWeights(req.Symbols, weights, req.RoundDecimals)
		}
	}

	if best.Weights == nil {
		return model.OptimizationResult{}, fmt.Errorf("no feasible weight vector found within bounds")
	}

	best.ExpectedReturn = roundTo(best.ExpectedReturn, req.RoundDecimals)
	best.Volatility = roundTo(best.Volatility, req.RoundDecimals)
	best.Score = roundTo(best.Score, req.RoundDecimals)
	return best, nil
}

// sampleWeights fills w with a random weight vector normalized to the
// requested total portion. Returns false when the sample violates the
// per-asset bounds and should be discarded.
func sampleWeights(w []float64, req model.OptimizationRequest) bool {
	var sum float64
	for i := range w {
		w[i] = rand.Float64()
		sum += w[i]
	}
	for i := range w {
		w[i] = w[i] / sum * req.TotalPortion
		if w[i] < req.MinWeight || w[i] > req.MaxWeight {
			return false
		}
	}
	return true
}

func snapshotWeights(symbols []string, weights []float64, decimals int) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = roundTo(weights[i], decimals)
	}
	return out
}

// dailyReturns loads each symbol's recent closes and converts them to simple
// daily returns, truncating every series to the shortest so the observation
// matrix stays rectangular.
func (s *OptimizerService) dailyReturns(symbols []string, lookbackDays int) (map[string][]float64, error) {
	series := make(map[string][]float64, len(symbols))
	shortest := -1

	for _, symbol := range symbols {
		closes, err := s.svRepo.GetRecentCloses(symbol, lookbackDays+1)
		if err != nil {
			return nil, err
		}
		if len(closes) < 2 {
			return nil, fmt.Errorf("insufficient price history for %s", symbol)
		}

		// GetRecentCloses returns newest first; returns are computed oldest
		// to newest.
		for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
			closes[i], closes[j] = closes[j], closes[i]
		}

		returns := make([]float64, 0, len(closes)-1)
		for i := 1; i < len(closes); i++ {
			if closes[i-1] == 0 {
				continue
			}
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
		if len(returns) == 0 {
			return nil, fmt.Errorf("insufficient price history for %s", symbol)
		}

		series[symbol] = returns
		if shortest < 0 || len(returns) < shortest {
			shortest = len(returns)
		}
	}

	for symbol, returns := range series {
		series[symbol] = returns[len(returns)-shortest:]
	}
	return series, nil
}

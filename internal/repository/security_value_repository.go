package repository

import (
	"database/sql"
	"fmt"

	"github.com/mike4330/stokapp-v2/internal/model"
)

// SecurityValueRepository provides data access methods for the security_values
// table, the daily per-symbol history behind moving averages, returns and the
// optimizer.
type SecurityValueRepository struct {
	db *sql.DB
}

// NewSecurityValueRepository creates a new SecurityValueRepository with the provided database connection.
func NewSecurityValueRepository(db *sql.DB) *SecurityValueRepository {
	return &SecurityValueRepository{db: db}
}

// GetRecentCloses retrieves a symbol's most recent daily closes, newest
// first, limited to the given count. NULL closes are skipped.
func (r *SecurityValueRepository) GetRecentCloses(symbol string, limit int) ([]float64, error) {
	query := `
		SELECT close FROM security_values
		WHERE symbol = ? AND close IS NOT NULL
		ORDER BY timestamp DESC
		LIMIT ?`

	rows, err := r.db.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query closes: %w", err)
	}
	defer rows.Close()

	closes := []float64{}
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan close: %w", err)
		}
		closes = append(closes, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closes: %w", err)
	}
	return closes, nil
}

// GetCloseSeries retrieves a symbol's daily closes on or after the cutoff
// date, oldest first, keyed by timestamp. NULL closes are skipped.
func (r *SecurityValueRepository) GetCloseSeries(symbol, since string) ([]model.SecurityValue, error) {
	query := `
		SELECT symbol, timestamp, close FROM security_values
		WHERE symbol = ? AND timestamp >= ? AND close IS NOT NULL
		ORDER BY timestamp ASC`

	rows, err := r.db.Query(query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query close series: %w", err)
	}
	defer rows.Close()

	series := []model.SecurityValue{}
	for rows.Next() {
		var v model.SecurityValue
		var c sql.NullFloat64
		if err := rows.Scan(&v.Symbol, &v.Timestamp, &c); err != nil {
			return nil, fmt.Errorf("failed to scan close series row: %w", err)
		}
		v.Close = nullFloat(c)
		series = append(series, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating close series: %w", err)
	}
	return series, nil
}

// GetLatest retrieves a symbol's most recent history row, or nil when the
// symbol has no history.
func (r *SecurityValueRepository) GetLatest(symbol string) (*model.SecurityValue, error) {
	query := `
		SELECT symbol, timestamp, close, shares, cost_basis, cum_divs, cum_real_gl, cbps
		FROM security_values
		WHERE symbol = ?
		ORDER BY timestamp DESC
		LIMIT 1`

	var v model.SecurityValue
	var c, shares, costBasis, cumDivs, cumRealGL, cbps sql.NullFloat64
	err := r.db.QueryRow(query, symbol).Scan(
		&v.Symbol, &v.Timestamp, &c, &shares, &costBasis, &cumDivs, &cumRealGL, &cbps,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest history row: %w", err)
	}

	v.Close = nullFloat(c)
	v.Shares = nullFloat(shares)
	v.CostBasis = nullFloat(costBasis)
	v.CumDivs = nullFloat(cumDivs)
	v.CumRealGL = nullFloat(cumRealGL)
	v.CBPS = nullFloat(cbps)
	return &v, nil
}

// GetTrackedSymbols retrieves every symbol with history rows.
func (r *SecurityValueRepository) GetTrackedSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM security_values ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan tracked symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked symbols: %w", err)
	}
	return symbols, nil
}

// DeleteBySymbol removes a symbol's entire history.
func (r *SecurityValueRepository) DeleteBySymbol(symbol string) error {
	if _, err := r.db.Exec(`DELETE FROM security_values WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to delete history for %s: %w", symbol, err)
	}
	return nil
}

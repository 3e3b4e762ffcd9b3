package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
)

// PriceRepository provides data access methods for the prices table, which
// holds one current quote row per symbol.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetPriceMap retrieves current prices keyed by symbol. Symbols with a NULL
// price are omitted so callers can treat absence as "no price known".
func (r *PriceRepository) GetPriceMap() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT symbol, price FROM prices WHERE price IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var price float64
		if err := rows.Scan(&symbol, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices[symbol] = price
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

// GetQuote retrieves the full quote row for a symbol.
func (r *PriceRepository) GetQuote(symbol string) (model.PriceQuote, error) {
	q := model.PriceQuote{Symbol: symbol}
	var price, mean50, mean200, divYield sql.NullFloat64
	var lastUpdate sql.NullInt64

	err := r.db.QueryRow(
		`SELECT price, lastupdate, mean50, mean200, divyield FROM prices WHERE symbol = ?`,
		symbol,
	).Scan(&price, &lastUpdate, &mean50, &mean200, &divYield)
	if errors.Is(err, sql.ErrNoRows) {
		return q, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return q, fmt.Errorf("failed to query quote: %w", err)
	}

	q.Price = nullFloat(price)
	q.LastUpdate = nullInt(lastUpdate)
	q.Mean50 = nullFloat(mean50)
	q.Mean200 = nullFloat(mean200)
	q.DivYield = nullFloat(divYield)
	return q, nil
}

// GetSymbols retrieves every symbol with a quote row.
func (r *PriceRepository) GetSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT symbol FROM prices ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan price symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price symbols: %w", err)
	}
	return symbols, nil
}

// UpsertPrice writes a symbol's current price and stamps the update time.
func (r *PriceRepository) UpsertPrice(symbol string, price float64, at time.Time) error {
	query := `
		INSERT INTO prices (symbol, price, lastupdate)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET price = excluded.price, lastupdate = excluded.lastupdate`

	if _, err := r.db.Exec(query, symbol, price, at.Unix()); err != nil {
		return fmt.Errorf("failed to upsert price for %s: %w", symbol, err)
	}
	return nil
}

// UpdateMovingAverages writes a symbol's 50 and 200 day moving averages.
func (r *PriceRepository) UpdateMovingAverages(symbol string, mean50, mean200 float64) error {
	res, err := r.db.Exec(
		`UPDATE prices SET mean50 = ?, mean200 = ? WHERE symbol = ?`,
		mean50, mean200, symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update moving averages for %s: %w", symbol, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPriceNotFound
	}
	return nil
}

// DeletePrice removes a symbol's quote row. Missing rows are not an error so
// cascade deletes stay idempotent.
func (r *PriceRepository) DeletePrice(symbol string) error {
	if _, err := r.db.Exec(`DELETE FROM prices WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to delete price for %s: %w", symbol, err)
	}
	return nil
}

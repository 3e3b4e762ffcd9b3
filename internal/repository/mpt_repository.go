package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
)

// MPTRepository provides data access methods for the mpt table, the target
// allocation model with its materialized overweight amounts.
type MPTRepository struct {
	db *sql.DB
}

// NewMPTRepository creates a new MPTRepository with the provided database connection.
func NewMPTRepository(db *sql.DB) *MPTRepository {
	return &MPTRepository{db: db}
}

const mptColumns = `symbol, target_alloc, sector, sectorshort, industry, market_cap, flag, overamt, divyield, pe, rsi, div_growth_rate, fcf_ni_ratio`

func scanMPTRecord(scan func(dest ...any) error) (model.MPTRecord, error) {
	var m model.MPTRecord
	var targetAlloc, overamt, divYield, pe, rsi, divGrowth, fcfNI sql.NullFloat64
	var sector, sectorShort, industry, marketCap, flag sql.NullString

	err := scan(
		&m.Symbol,
		&targetAlloc,
		&sector,
		&sectorShort,
		&industry,
		&marketCap,
		&flag,
		&overamt,
		&divYield,
		&pe,
		&rsi,
		&divGrowth,
		&fcfNI,
	)
	if err != nil {
		return m, err
	}

	m.TargetAlloc = nullFloat(targetAlloc)
	m.Sector = nullString(sector)
	m.SectorShort = nullString(sectorShort)
	m.Industry = nullString(industry)
	m.MarketCap = nullString(marketCap)
	m.Flag = nullString(flag)
	m.Overamt = nullFloat(overamt)
	m.DivYield = nullFloat(divYield)
	m.PE = nullFloat(pe)
	m.RSI = nullFloat(rsi)
	m.DivGrowthRate = nullFloat(divGrowth)
	m.FCFNIRatio = nullFloat(fcfNI)
	return m, nil
}

// GetAll retrieves every allocation model row.
func (r *MPTRepository) GetAll() ([]model.MPTRecord, error) {
	rows, err := r.db.Query(`SELECT ` + mptColumns + ` FROM mpt ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation model: %w", err)
	}
	defer rows.Close()

	records := []model.MPTRecord{}
	for rows.Next() {
		m, err := scanMPTRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation record: %w", err)
		}
		records = append(records, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation model: %w", err)
	}
	return records, nil
}

// GetBySymbol retrieves one symbol's allocation model row.
func (r *MPTRepository) GetBySymbol(symbol string) (model.MPTRecord, error) {
	m, err := scanMPTRecord(r.db.QueryRow(
		`SELECT `+mptColumns+` FROM mpt WHERE symbol = ?`, symbol,
	).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return m, apperrors.ErrSymbolNotFound
	}
	if err != nil {
		return m, fmt.Errorf("failed to query allocation record: %w", err)
	}
	return m, nil
}

// GetTargets retrieves symbols with a target allocation set, keyed by symbol.
func (r *MPTRepository) GetTargets() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT symbol, target_alloc FROM mpt WHERE target_alloc IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation targets: %w", err)
	}
	defer rows.Close()

	targets := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var target float64
		if err := rows.Scan(&symbol, &target); err != nil {
			return nil, fmt.Errorf("failed to scan allocation target: %w", err)
		}
		targets[symbol] = target
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation targets: %w", err)
	}
	return targets, nil
}

// GetOverweightAmounts retrieves the materialized overweight amount for
// symbols flagged "O" whose deviation exceeds the given threshold.
func (r *MPTRepository) GetOverweightAmounts(threshold float64) (map[string]float64, error) {
	rows, err := r.db.Query(
		`SELECT symbol, overamt FROM mpt WHERE flag = 'O' AND overamt > ?`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overweight symbols: %w", err)
	}
	defer rows.Close()

	overweights := make(map[string]float64)
	for rows.Next() {
		var symbol string
		var overamt float64
		if err := rows.Scan(&symbol, &overamt); err != nil {
			return nil, fmt.Errorf("failed to scan overweight amount: %w", err)
		}
		overweights[symbol] = overamt
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overweight symbols: %w", err)
	}
	return overweights, nil
}

// ApplyOverweightUpdates writes a rebalance run's recomputed overamt and flag
// values in a single transaction. A run either lands whole or not at all.
func (r *MPTRepository) ApplyOverweightUpdates(updates []model.OverweightUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE mpt SET overamt = ?, flag = ? WHERE symbol = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare overweight update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.Overamt, u.Flag, u.Symbol); err != nil {
			return fmt.Errorf("failed to update overweight for %s: %w", u.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit overweight updates: %w", err)
	}
	return nil
}

// GetSectors retrieves each symbol's sector, preferring the allocation model
// row and falling back to the standalone sectors table.
func (r *MPTRepository) GetSectors() (map[string]string, error) {
	query := `
		SELECT m.symbol, COALESCE(m.sector, s.sector, '')
		FROM mpt m
		LEFT JOIN sectors s ON s.symbol = m.symbol`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	sectors := make(map[string]string)
	for rows.Next() {
		var symbol, sector string
		if err := rows.Scan(&symbol, &sector); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors[symbol] = sector
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}
	return sectors, nil
}

// DeleteRecord removes a symbol's allocation model row. Missing rows are not
// an error so cascade deletes stay idempotent.
func (r *MPTRepository) DeleteRecord(symbol string) error {
	if _, err := r.db.Exec(`DELETE FROM mpt WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to delete allocation record for %s: %w", symbol, err)
	}
	return nil
}

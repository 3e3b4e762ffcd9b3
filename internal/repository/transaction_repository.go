package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/model"
)

// TransactionRepository provides data access methods for the transactions table.
// It covers the raw ledger CRUD plus the lot-oriented queries the ledger,
// rebalance and dividend layers are built on.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, date_new, symbol, xtype, acct, price, units, units_remaining, gain, disposition, fee, note`

func scanTransaction(scan func(dest ...any) error) (model.Transaction, error) {
	var t model.Transaction
	var unitsRemaining, gain, fee sql.NullFloat64
	var disposition, note sql.NullString

	err := scan(
		&t.ID,
		&t.Date,
		&t.Symbol,
		&t.Type,
		&t.Account,
		&t.Price,
		&t.Units,
		&unitsRemaining,
		&gain,
		&disposition,
		&fee,
		&note,
	)
	if err != nil {
		return t, err
	}

	t.UnitsRemaining = nullFloat(unitsRemaining)
	t.Gain = nullFloat(gain)
	t.Disposition = nullString(disposition)
	t.Fee = nullFloat(fee)
	t.Note = nullString(note)
	return t, nil
}

// openLotFilter selects Buy rows that still have units to dispose of. Legacy
// rows with a NULL units_remaining count as fully open.
const openLotFilter = `
	xtype = 'Buy'
	AND (disposition IS NULL OR disposition = '')
	AND (units_remaining IS NULL OR units_remaining > 0)`

// GetOpenLots retrieves open Buy lots ordered by purchase date ascending,
// which is the FIFO consumption order. Pass an empty symbol for all symbols.
func (r *TransactionRepository) GetOpenLots(symbol string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + openLotFilter
	var args []any
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY date_new ASC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open lots: %w", err)
	}
	defer rows.Close()

	lots := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open lot: %w", err)
		}
		lots = append(lots, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open lots: %w", err)
	}
	return lots, nil
}

// GetNetPositions aggregates open lots into per-symbol unit and cost totals.
// Symbols with no open lots do not appear in the result.
func (r *TransactionRepository) GetNetPositions() (map[string]model.NetPosition, error) {
	query := `
		SELECT symbol,
		       SUM(COALESCE(units_remaining, units)),
		       SUM(COALESCE(units_remaining, units) * price)
		FROM transactions
		WHERE ` + openLotFilter + `
		GROUP BY symbol`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query net positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]model.NetPosition)
	for rows.Next() {
		var p model.NetPosition
		if err := rows.Scan(&p.Symbol, &p.Units, &p.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan net position: %w", err)
		}
		positions[p.Symbol] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating net positions: %w", err)
	}
	return positions, nil
}

// GetNetPosition aggregates one symbol's open lots. A symbol with no open
// lots returns the zero value, not an error.
func (r *TransactionRepository) GetNetPosition(symbol string) (model.NetPosition, error) {
	query := `
		SELECT COALESCE(SUM(COALESCE(units_remaining, units)), 0),
		       COALESCE(SUM(COALESCE(units_remaining, units) * price), 0)
		FROM transactions
		WHERE symbol = ? AND ` + openLotFilter

	p := model.NetPosition{Symbol: symbol}
	if err := r.db.QueryRow(query, symbol).Scan(&p.Units, &p.TotalCost); err != nil {
		return p, fmt.Errorf("failed to query net position: %w", err)
	}
	return p, nil
}

// GetLot retrieves a single Buy lot by ID.
func (r *TransactionRepository) GetLot(id int64) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND xtype = 'Buy'`
	t, err := scanTransaction(r.db.QueryRow(query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return t, apperrors.ErrLotNotFound
	}
	if err != nil {
		return t, fmt.Errorf("failed to query lot: %w", err)
	}
	return t, nil
}

// LotUpdate carries the new state of one lot after a partial or full close.
// Disposition is nil while the lot stays open.
type LotUpdate struct {
	ID             int64
	UnitsRemaining float64
	Disposition    *string
}

// ApplyLotUpdates writes a set of lot closures in a single transaction so a
// multi-lot sale either lands completely or not at all.
func (r *TransactionRepository) ApplyLotUpdates(updates []LotUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE transactions SET units_remaining = ?, disposition = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare lot update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.UnitsRemaining, u.Disposition, u.ID); err != nil {
			return fmt.Errorf("failed to update lot %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lot updates: %w", err)
	}
	return nil
}

// CloseLots marks the given Buy lots as sold in a single transaction and
// returns the number of rows actually changed. Rows that are missing, not
// Buy lots, or already closed are excluded from the count, which makes the
// operation idempotent against double-close.
func (r *TransactionRepository) CloseLots(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		UPDATE transactions
		SET disposition = 'sold'
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
		AND xtype = 'Buy'
		AND (disposition IS NULL OR disposition = '')`

	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to close lots: %w", err)
	}
	closed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read close result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit lot closures: %w", err)
	}
	return closed, nil
}

// GetTransactions retrieves ledger rows, newest first. Symbol is an optional
// filter; limit <= 0 returns all rows.
func (r *TransactionRepository) GetTransactions(symbol string, limit int) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var args []any
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY date_new DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// GetTransaction retrieves a single ledger row by ID.
func (r *TransactionRepository) GetTransaction(id int64) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`
	t, err := scanTransaction(r.db.QueryRow(query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return t, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return t, fmt.Errorf("failed to query transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction inserts a ledger row and returns its ID.
func (r *TransactionRepository) CreateTransaction(t model.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (date_new, symbol, xtype, acct, price, units, units_remaining, gain, disposition, fee, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.Exec(query,
		t.Date, t.Symbol, t.Type, t.Account, t.Price, t.Units,
		t.UnitsRemaining, t.Gain, t.Disposition, t.Fee, t.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted transaction ID: %w", err)
	}
	return id, nil
}

// UpdateTransaction rewrites a ledger row in place.
func (r *TransactionRepository) UpdateTransaction(t model.Transaction) error {
	query := `
		UPDATE transactions
		SET date_new = ?, symbol = ?, xtype = ?, acct = ?, price = ?, units = ?,
		    units_remaining = ?, gain = ?, disposition = ?, fee = ?, note = ?
		WHERE id = ?`

	res, err := r.db.Exec(query,
		t.Date, t.Symbol, t.Type, t.Account, t.Price, t.Units,
		t.UnitsRemaining, t.Gain, t.Disposition, t.Fee, t.Note, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes a ledger row by ID.
func (r *TransactionRepository) DeleteTransaction(id int64) error {
	res, err := r.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransactionsBySymbol removes every ledger row for a symbol and
// returns the number of rows deleted.
func (r *TransactionRepository) DeleteTransactionsBySymbol(symbol string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM transactions WHERE symbol = ?`, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for %s: %w", symbol, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected, nil
}

// GetDividendDates retrieves the dates of a symbol's dividend payments on or
// after the given cutoff date, oldest first.
func (r *TransactionRepository) GetDividendDates(symbol, since string) ([]string, error) {
	query := `
		SELECT date_new FROM transactions
		WHERE symbol = ? AND xtype = 'Div' AND date_new >= ?
		ORDER BY date_new ASC`

	rows, err := r.db.Query(query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan dividend date: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend dates: %w", err)
	}
	return dates, nil
}

// GetMonthlyDividends sums a symbol's dividend income by calendar month on or
// after the cutoff, oldest month first. Amount is price * units per row.
func (r *TransactionRepository) GetMonthlyDividends(symbol, since string) ([]model.MonthlyDividend, error) {
	query := `
		SELECT strftime('%Y-%m', date_new) AS month, SUM(price * units)
		FROM transactions
		WHERE symbol = ? AND xtype = 'Div' AND date_new >= ?
		GROUP BY month
		ORDER BY month ASC`

	rows, err := r.db.Query(query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly dividends: %w", err)
	}
	defer rows.Close()

	months := []model.MonthlyDividend{}
	for rows.Next() {
		var m model.MonthlyDividend
		if err := rows.Scan(&m.Month, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly dividend: %w", err)
		}
		months = append(months, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly dividends: %w", err)
	}
	return months, nil
}

// GetDividendHistory retrieves every dividend payment for a symbol, oldest
// first, with the cash amount per payment.
func (r *TransactionRepository) GetDividendHistory(symbol string) ([]model.DividendPayment, error) {
	query := `
		SELECT date_new, price * units
		FROM transactions
		WHERE symbol = ? AND xtype = 'Div'
		ORDER BY date_new ASC`

	rows, err := r.db.Query(query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend history: %w", err)
	}
	defer rows.Close()

	payments := []model.DividendPayment{}
	for rows.Next() {
		var p model.DividendPayment
		if err := rows.Scan(&p.Date, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan dividend payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend history: %w", err)
	}
	return payments, nil
}

// GetDividendSymbols retrieves the distinct symbols with at least one
// dividend payment on record.
func (r *TransactionRepository) GetDividendSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM transactions WHERE xtype = 'Div' ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan dividend symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend symbols: %w", err)
	}
	return symbols, nil
}

// GetRealizedPL sums the recorded gains of a symbol's Sell rows.
func (r *TransactionRepository) GetRealizedPL(symbol string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(gain), 0) FROM transactions WHERE symbol = ? AND xtype = 'Sell'`
	if err := r.db.QueryRow(query, symbol).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query realized P&L: %w", err)
	}
	return total, nil
}

// GetTotalDividends sums all dividend cash received for a symbol.
func (r *TransactionRepository) GetTotalDividends(symbol string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(price * units), 0) FROM transactions WHERE symbol = ? AND xtype = 'Div'`
	if err := r.db.QueryRow(query, symbol).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query total dividends: %w", err)
	}
	return total, nil
}

package testutil

import (
	"database/sql"
	"testing"
)

// testAccount is the account every factory row lands in unless the test
// inserts rows directly.
const testAccount = "taxable"

// InsertBuy inserts a fully open Buy lot (units_remaining equals units) and
// returns its row ID.
//
// Example usage:
//
//	id := testutil.InsertBuy(t, db, "AAPL", "2024-01-15", 50.0, 100)
func InsertBuy(t *testing.T, db *sql.DB, symbol, date string, price, units float64) int64 {
	t.Helper()
	return InsertBuyRemaining(t, db, symbol, date, price, units, units)
}

// InsertBuyRemaining inserts a partially sold Buy lot with an explicit
// units_remaining and returns its row ID.
func InsertBuyRemaining(t *testing.T, db *sql.DB, symbol, date string, price, units, remaining float64) int64 {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO transactions (date_new, symbol, xtype, acct, price, units, units_remaining)
		 VALUES (?, ?, 'Buy', ?, ?, ?, ?)`,
		date, symbol, testAccount, price, units, remaining,
	)
	if err != nil {
		t.Fatalf("Failed to insert buy: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read insert id: %v", err)
	}
	return id
}

// InsertClosedBuy inserts a Buy lot already marked sold. Closed lots must
// never surface as open positions.
func InsertClosedBuy(t *testing.T, db *sql.DB, symbol, date string, price, units float64) int64 {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO transactions (date_new, symbol, xtype, acct, price, units, units_remaining, disposition)
		 VALUES (?, ?, 'Buy', ?, ?, ?, ?, 'sold')`,
		date, symbol, testAccount, price, units, units,
	)
	if err != nil {
		t.Fatalf("Failed to insert closed buy: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read insert id: %v", err)
	}
	return id
}

// InsertSell inserts a Sell row carrying a realized gain.
func InsertSell(t *testing.T, db *sql.DB, symbol, date string, price, units, gain float64) int64 {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO transactions (date_new, symbol, xtype, acct, price, units, gain)
		 VALUES (?, ?, 'Sell', ?, ?, ?, ?)`,
		date, symbol, testAccount, price, units, gain,
	)
	if err != nil {
		t.Fatalf("Failed to insert sell: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read insert id: %v", err)
	}
	return id
}

// InsertDividend inserts a Div row. The cash amount is price times units.
func InsertDividend(t *testing.T, db *sql.DB, symbol, date string, perShare, units float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO transactions (date_new, symbol, xtype, acct, price, units)
		 VALUES (?, ?, 'Div', ?, ?, ?)`,
		date, symbol, testAccount, perShare, units,
	)
	if err != nil {
		t.Fatalf("Failed to insert dividend: %v", err)
	}
}

// InsertPrice sets the current price for a symbol.
func InsertPrice(t *testing.T, db *sql.DB, symbol string, price float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO prices (symbol, price) VALUES (?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET price = excluded.price`,
		symbol, price,
	)
	if err != nil {
		t.Fatalf("Failed to insert price: %v", err)
	}
}

// InsertTarget creates an allocation model row with the given target weight.
func InsertTarget(t *testing.T, db *sql.DB, symbol string, targetAlloc float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO mpt (symbol, target_alloc) VALUES (?, ?)`,
		symbol, targetAlloc,
	)
	if err != nil {
		t.Fatalf("Failed to insert target: %v", err)
	}
}

// SetOverweight writes a materialized overweight state for a symbol, creating
// the allocation row if needed.
func SetOverweight(t *testing.T, db *sql.DB, symbol string, overamt float64, flag string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO mpt (symbol, overamt, flag) VALUES (?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET overamt = excluded.overamt, flag = excluded.flag`,
		symbol, overamt, flag,
	)
	if err != nil {
		t.Fatalf("Failed to set overweight: %v", err)
	}
}

// InsertSector maps a symbol to a sector.
func InsertSector(t *testing.T, db *sql.DB, symbol, sector string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO sectors (symbol, sector) VALUES (?, ?)`, symbol, sector)
	if err != nil {
		t.Fatalf("Failed to insert sector: %v", err)
	}
}

// InsertClose records a daily close for a symbol.
func InsertClose(t *testing.T, db *sql.DB, symbol, timestamp string, closePrice float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO security_values (symbol, timestamp, close) VALUES (?, ?, ?)`,
		symbol, timestamp, closePrice,
	)
	if err != nil {
		t.Fatalf("Failed to insert close: %v", err)
	}
}

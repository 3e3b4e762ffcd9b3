package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with internal/database/migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Transaction ledger
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date_new TEXT NOT NULL,
			symbol TEXT NOT NULL,
			xtype TEXT NOT NULL,
			acct TEXT NOT NULL,
			price REAL NOT NULL,
			units REAL NOT NULL,
			units_remaining REAL,
			gain REAL,
			lotgain REAL,
			term TEXT,
			disposition TEXT,
			datetime TEXT,
			fee REAL,
			note TEXT,
			tradetype TEXT
		);

		-- Current price per symbol
		CREATE TABLE IF NOT EXISTS prices (
			symbol TEXT NOT NULL PRIMARY KEY,
			price REAL,
			lastupdate INTEGER,
			mean50 REAL,
			mean200 REAL,
			divyield REAL,
			volat REAL,
			alloc_target REAL
		);

		-- Target allocation model
		CREATE TABLE IF NOT EXISTS mpt (
			symbol TEXT NOT NULL PRIMARY KEY,
			target_alloc REAL,
			sector TEXT,
			sectorshort TEXT,
			industry TEXT,
			market_cap TEXT,
			flag TEXT,
			overamt REAL,
			divyield REAL,
			pe REAL,
			rsi REAL,
			div_growth_rate REAL,
			fcf_ni_ratio REAL
		);

		-- Daily per-symbol history
		CREATE TABLE IF NOT EXISTS security_values (
			symbol TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			close REAL,
			shares REAL,
			cost_basis REAL,
			cum_divs REAL,
			cum_real_gl REAL,
			cbps REAL,
			PRIMARY KEY (symbol, timestamp)
		);

		CREATE TABLE IF NOT EXISTS sectors (
			symbol TEXT NOT NULL PRIMARY KEY,
			sector TEXT
		);

		-- Portfolio-level daily time series
		CREATE TABLE IF NOT EXISTS historical (
			date TEXT NOT NULL PRIMARY KEY,
			value REAL,
			cost REAL,
			return REAL
		);

		CREATE TABLE IF NOT EXISTS system_setting (
			key TEXT NOT NULL PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT
		);

		CREATE INDEX IF NOT EXISTS ix_transactions_symbol ON transactions(symbol);
		CREATE INDEX IF NOT EXISTS ix_transactions_date ON transactions(date_new);
		CREATE INDEX IF NOT EXISTS ix_transactions_symbol_type ON transactions(symbol, xtype);
		CREATE INDEX IF NOT EXISTS ix_security_values_symbol ON security_values(symbol);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{
		"transactions",
		"prices",
		"mpt",
		"security_values",
		"sectors",
		"historical",
		"system_setting",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

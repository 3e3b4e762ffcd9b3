package repository

import (
	"database/sql"
	"fmt"
)

// SecurityRepository handles operations that span every symbol-keyed table,
// currently just the delete cascade used when retiring a security.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

// DeleteCascade removes every row referencing the symbol across all
// symbol-keyed tables in a single transaction, and returns per-table counts.
// A write failure in any table rolls back the whole cascade.
func (r *SecurityRepository) DeleteCascade(symbol string) (map[string]int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{"transactions", "prices", "mpt", "security_values", "sectors"}
	counts := make(map[string]int64, len(tables))

	for _, table := range tables {
		res, err := tx.Exec(`DELETE FROM `+table+` WHERE symbol = ?`, symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to delete %s rows for %s: %w", table, symbol, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read delete result for %s: %w", table, err)
		}
		counts[table] = affected
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit security deletion: %w", err)
	}
	return counts, nil
}

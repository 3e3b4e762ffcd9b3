package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
)

// SettingRepository provides data access methods for the system_setting table,
// a small key/value store for runtime configuration such as provider tokens.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a setting value by key.
func (r *SettingRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM system_setting WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a setting value, replacing any existing value for the key.
func (r *SettingRepository) Set(key, value string) error {
	query := `
		INSERT INTO system_setting (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.Exec(query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

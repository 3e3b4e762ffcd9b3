package service

import (
	"database/sql"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/mike4330/stokapp-v2/internal/apperrors"
	"github.com/mike4330/stokapp-v2/internal/database"
	"github.com/mike4330/stokapp-v2/internal/repository"
	"github.com/mike4330/stokapp-v2/internal/version"
)

// providerTokenKey is the system_setting row holding the encrypted market
// data provider token.
const providerTokenKey = "marketdata_token"

// SystemService handles system-related operations: health, version and the
// encrypted provider-token setting.
type SystemService struct {
	db          *sql.DB
	settingRepo *repository.SettingRepository
	fernetKeys  []*fernet.Key
}

// NewSystemService creates a new SystemService. tokenKey is the fernet key
// protecting the provider token at rest; pass an empty string to store the
// token unencrypted.
func NewSystemService(db *sql.DB, settingRepo *repository.SettingRepository, tokenKey string) (*SystemService, error) {
	s := &SystemService{
		db:          db,
		settingRepo: settingRepo,
	}
	if tokenKey != "" {
		key, err := fernet.DecodeKey(tokenKey)
		if err != nil {
			return nil, fmt.Errorf("invalid token encryption key: %w", err)
		}
		s.fernetKeys = []*fernet.Key{key}
	}
	return s, nil
}

// CheckHealth checks the health of the system.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the build version string.
func (s *SystemService) CheckVersion() string {
	return version.Version
}

// SetProviderToken stores the market data provider token, encrypted at rest
// when an encryption key is configured.
func (s *SystemService) SetProviderToken(token string) error {
	if token == "" {
		return apperrors.ErrMissingRequiredField
	}

	value := token
	if len(s.fernetKeys) > 0 {
		encrypted, err := fernet.EncryptAndSign([]byte(token), s.fernetKeys[0])
		if err != nil {
			return fmt.Errorf("failed to encrypt provider token: %w", err)
		}
		value = string(encrypted)
	}
	return s.settingRepo.Set(providerTokenKey, value)
}

// GetProviderToken retrieves and, when a key is configured, decrypts the
// stored provider token.
func (s *SystemService) GetProviderToken() (string, error) {
	value, err := s.settingRepo.Get(providerTokenKey)
	if err != nil {
		return "", err
	}

	if len(s.fernetKeys) == 0 {
		return value, nil
	}
	// TTL 0 disables expiry; the token rotates on operator action, not time.
	plaintext := fernet.VerifyAndDecrypt([]byte(value), 0, s.fernetKeys)
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt provider token")
	}
	return string(plaintext), nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Market     MarketConfig
	Dividends  DividendConfig
	MarketData MarketDataConfig
	Scheduler  SchedulerConfig
	LogLevel   string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig describes the US market session used to gate price-change
// reporting and the overweight refresh job. Hours are in the configured
// timezone (US Eastern by default).
type MarketConfig struct {
	OpenHour  int
	CloseHour int
	Timezone  string
	// StaticPriceSymbols always report a zero intraday change (continuously
	// traded assets whose previous close has no meaning here).
	StaticPriceSymbols []string
}

// DividendConfig holds dividend analysis configuration.
type DividendConfig struct {
	// LongHistorySymbols get a 36-month lookback instead of 24 for history
	// and prediction queries. Kept as data, not logic: the set was inherited
	// from the prior deployment and is never inferred automatically.
	LongHistorySymbols []string
	// TrackedTickers is the universe covered by the all-symbols prediction
	// report.
	TrackedTickers []string
	// MonthlyTickers are known monthly payers within TrackedTickers.
	MonthlyTickers []string
}

// MarketDataConfig holds price provider configuration.
type MarketDataConfig struct {
	BaseURL string
	// TokenKey is the fernet key used to decrypt the provider API token
	// stored in system_setting. Empty disables token auth.
	TokenKey string
}

// SchedulerConfig controls the background job runner.
type SchedulerConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stokapp.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Market: MarketConfig{
			OpenHour:           getEnvInt("MARKET_OPEN_HOUR", 9),
			CloseHour:          getEnvInt("MARKET_CLOSE_HOUR", 16),
			Timezone:           getEnv("MARKET_TZ", "America/New_York"),
			StaticPriceSymbols: getEnvList("STATIC_PRICE_SYMBOLS", []string{"ETHUSD", "BTCUSD", "XAG"}),
		},
		Dividends: DividendConfig{
			LongHistorySymbols: getEnvList("LONG_HISTORY_SYMBOLS", []string{
				"ANGL", "ASML", "FPE", "GILD", "KMB", "LKOR", "MLN", "REM", "VMC",
			}),
			TrackedTickers: getEnvList("DIVIDEND_TICKERS", []string{
				"AMX", "ANGL", "AVGO", "BNDX", "BRT", "CARR", "DGX", "EMB",
				"EVC", "FAF", "FAGIX", "FDGFX", "FNBGX", "FTS", "HPK", "HUN",
				"IMKTA", "IPAR", "JPIB", "LKOR", "NXST", "PBR", "PLD", "PGHY",
				"SJNK", "TDTF", "TXNM", "USLM", "VALE", "VCSH", "WDFC",
			}),
			MonthlyTickers: getEnvList("MONTHLY_TICKERS", []string{
				"ANGL", "EMB", "FPE", "JPIB", "LKOR", "FAGIX", "FNBGX", "PGHY", "SJNK", "VCSH",
			}),
		},
		MarketData: MarketDataConfig{
			BaseURL:  getEnv("MARKETDATA_URL", "https://query1.finance.yahoo.com"),
			TokenKey: getEnv("MARKETDATA_TOKEN_KEY", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled: getEnvBool("SCHEDULER_ENABLED", true),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// IsLongHistory reports whether symbol uses the extended 36-month dividend
// lookback.
func (c *Config) IsLongHistory(symbol string) bool {
	return contains(c.Dividends.LongHistorySymbols, symbol)
}

// IsMonthlyPayer reports whether symbol is a known monthly dividend payer.
func (c *Config) IsMonthlyPayer(symbol string) bool {
	return contains(c.Dividends.MonthlyTickers, symbol)
}

// IsStaticPrice reports whether symbol is excluded from intraday change
// reporting.
func (c *Config) IsStaticPrice(symbol string) bool {
	return contains(c.Market.StaticPriceSymbols, symbol)
}

func contains(list []string, value string) bool {
	for _, s := range list {
		if s == value {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvList gets a comma-separated environment variable or returns a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

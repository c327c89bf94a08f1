package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	// ServerURL is the rippled WebSocket endpoint.
	ServerURL string `validate:"required,url"`

	// AccountAddress and AccountSecret identify the operating account that
	// funds batch payments. The secret never appears in logs or outcome
	// records.
	AccountAddress string
	AccountSecret  string

	// DatabasePath is the SQLite file shared with the draw engine.
	DatabasePath string `validate:"required"`

	// MaxLedgerOffset is the validity window of each prepared transaction,
	// in ledger closes.
	MaxLedgerOffset uint32 `validate:"gt=0"`

	// MaxParticipationRatio scales generated test amounts relative to the
	// prize value.
	MaxParticipationRatio float64 `validate:"gt=0"`

	// FloodSize is the number of randomized requests a flood run generates.
	FloodSize int `validate:"gt=0"`

	// AccountsFile is the JSON fixture holding the test account pool.
	AccountsFile string

	LogLevel string
}

const testnetURL = "wss://s.altnet.rippletest.net:51233"

// Load reads environment variables using viper and returns a typed config.
// In test mode (the default) the endpoint and database defaults point at
// the test network; production mode requires them to be set explicitly.
func Load(production bool) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "server_url", "SERVER_URL", "ZERPPAY_SERVER_URL")
	bindEnv(v, "account_address", "ACCOUNT_ADDRESS", "ZERPPAY_ACCOUNT_ADDRESS")
	bindEnv(v, "account_secret", "ACCOUNT_SECRET", "ZERPPAY_ACCOUNT_SECRET")
	bindEnv(v, "database_path", "DATABASE_PATH", "ZERPPAY_DATABASE_PATH")
	bindEnv(v, "max_ledger_offset", "MAX_LEDGER_OFFSET", "ZERPPAY_MAX_LEDGER_OFFSET")
	bindEnv(v, "max_participation_ratio", "MAX_PARTICIPATION_RATIO", "ZERPPAY_MAX_PARTICIPATION_RATIO")
	bindEnv(v, "flood_size", "FLOOD_SIZE", "ZERPPAY_FLOOD_SIZE")
	bindEnv(v, "accounts_file", "ACCOUNTS_FILE", "ZERPPAY_ACCOUNTS_FILE")
	bindEnv(v, "log_level", "LOG_LEVEL", "ZERPPAY_LOG_LEVEL")

	if production {
		v.SetDefault("database_path", "zerplotto.db")
	} else {
		v.SetDefault("server_url", testnetURL)
		v.SetDefault("database_path", "zerplotto_test.db")
	}
	v.SetDefault("max_ledger_offset", 5)
	v.SetDefault("max_participation_ratio", 0.8)
	v.SetDefault("flood_size", 100)
	v.SetDefault("accounts_file", "testAccounts.json")
	v.SetDefault("log_level", "info")

	cfg := &Config{
		ServerURL:             v.GetString("server_url"),
		AccountAddress:        v.GetString("account_address"),
		AccountSecret:         v.GetString("account_secret"),
		DatabasePath:          v.GetString("database_path"),
		MaxLedgerOffset:       v.GetUint32("max_ledger_offset"),
		MaxParticipationRatio: v.GetFloat64("max_participation_ratio"),
		FloodSize:             v.GetInt("flood_size"),
		AccountsFile:          v.GetString("accounts_file"),
		LogLevel:              v.GetString("log_level"),
	}

	if production && cfg.ServerURL == "" {
		return nil, fmt.Errorf("SERVER_URL is required in production mode")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}

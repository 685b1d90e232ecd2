package configuration

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/pkg/errors"
)

type Config struct {
	ServerAddress       string
	DatabaseURL         string
	WhatsAppNumber      string
	WhatsAppSandboxJoin string
	DashboardURL        string
	TokenExpiry         time.Duration
	BotAPIKeyHash       []byte
	AuthSecretKey       jwk.Key
	LogDebugEnabled     bool
	LogInfoEnabled      bool
	LogErrorEnabled     bool
	LogToFile           bool
}

type tomlConfig struct {
	ServerAddress       string `toml:"server_address"`
	DatabaseURL         string `toml:"database_url"`
	WhatsAppNumber      string `toml:"whatsapp_number"`
	WhatsAppSandboxJoin string `toml:"whatsapp_sandbox_join"`
	DashboardURL        string `toml:"dashboard_url"`
	TokenExpiry         string `toml:"token_expiry"`
	BotAPIKeyHash       string `toml:"bot_api_key_hash"`
	AuthSecretKey       string `toml:"auth_secret_key"`
	LogDebugEnabled     bool   `toml:"log_debug_enabled"`
	LogInfoEnabled      bool   `toml:"log_info_enabled"`
	LogErrorEnabled     bool   `toml:"log_error_enabled"`
	LogToFile           bool   `toml:"log_to_file"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8080"
	}

	// database_url is either a postgres:// URL or a SQLite file path,
	// matching the bot's DATABASE_URL convention.
	if tc.DatabaseURL == "" {
		tc.DatabaseURL = "deal_tracker.db"
	}

	if tc.WhatsAppNumber == "" {
		tc.WhatsAppNumber = "+14155238886"
	}
	if tc.WhatsAppSandboxJoin == "" {
		tc.WhatsAppSandboxJoin = "join lucky-spoke"
	}
	if tc.DashboardURL == "" {
		tc.DashboardURL = "http://" + tc.ServerAddress
	}

	if tc.TokenExpiry == "" {
		tc.TokenExpiry = "24h"
	}
	tokenExpiry, err := time.ParseDuration(tc.TokenExpiry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse token_expiry: %s", path)
	}
	if tokenExpiry < time.Minute {
		return nil, errors.Errorf("token_expiry too short (%v), minimum expiry: 1m", tokenExpiry)
	}

	if tc.BotAPIKeyHash == "" {
		return nil, errors.New("bot_api_key_hash is not set")
	}

	if tc.AuthSecretKey == "" {
		return nil, errors.New("auth_secret_key is not set")
	}
	authSecretKey, err := jwk.FromRaw([]byte(tc.AuthSecretKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create key from auth_secret_key")
	}

	return &Config{
		ServerAddress:       tc.ServerAddress,
		DatabaseURL:         tc.DatabaseURL,
		WhatsAppNumber:      tc.WhatsAppNumber,
		WhatsAppSandboxJoin: tc.WhatsAppSandboxJoin,
		DashboardURL:        tc.DashboardURL,
		TokenExpiry:         tokenExpiry,
		BotAPIKeyHash:       []byte(tc.BotAPIKeyHash),
		AuthSecretKey:       authSecretKey,
		LogDebugEnabled:     tc.LogDebugEnabled,
		LogInfoEnabled:      tc.LogInfoEnabled,
		LogErrorEnabled:     tc.LogErrorEnabled,
		LogToFile:           tc.LogToFile,
	}, nil
}

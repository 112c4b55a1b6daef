package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds everything the server reads from the environment.
type Config struct {
	StorageDriver string
	SQLitePath    string
	ServerPort    string
	LogLevel      string

	SessionTTL      time.Duration
	PasswordHashing string

	ResetTokenSecret            string
	ResetTokenExpirationMinutes int64

	PostalCodeAPIURL  string
	PostalCodeTimeout time.Duration

	SeedAdminEmail    string
	SeedAdminPassword string

	// Warnings lists values that were rejected and replaced by defaults.
	Warnings []string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// positiveInt reads key as a positive integer, falling back to def.
func (c *Config) positiveInt(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		c.Warnings = append(c.Warnings, "invalid "+key+", using default "+strconv.FormatInt(def, 10))
		return def
	}
	return v
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		StorageDriver:     strings.ToLower(getenv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:        getenv("SQLITE_PATH", "cardapio.db"),
		ServerPort:        getenv("SERVER_PORT", "8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		PasswordHashing:   strings.ToLower(getenv("PASSWORD_HASHING", "plain")),
		ResetTokenSecret:  os.Getenv("RESET_TOKEN_SECRET"),
		PostalCodeAPIURL:  getenv("POSTAL_CODE_API_URL", "https://viacep.com.br/ws"),
		SeedAdminEmail:    strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	switch cfg.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		cfg.Warnings = append(cfg.Warnings, "unknown STORAGE_DRIVER "+cfg.StorageDriver+", using sqlite")
		cfg.StorageDriver = DriverSQLite
	}

	cfg.SessionTTL = time.Duration(cfg.positiveInt("SESSION_TTL_HOURS", 24)) * time.Hour
	cfg.ResetTokenExpirationMinutes = cfg.positiveInt("RESET_TOKEN_EXPIRATION_MINUTES", 30)
	cfg.PostalCodeTimeout = time.Duration(cfg.positiveInt("POSTAL_CODE_TIMEOUT_SECONDS", 5)) * time.Second

	if cfg.ResetTokenSecret == "" {
		cfg.ResetTokenSecret = randomSecret()
	}
	return cfg
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}

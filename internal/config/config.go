package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	DataDir          string   `mapstructure:"DATA_DIR"`
	ReservationsFile string   `mapstructure:"RESERVATIONS_FILE"`
	CatalogFile      string   `mapstructure:"CATALOG_FILE"`
	StoreBackend     string   `mapstructure:"STORE_BACKEND"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	BillingSeed      int64    `mapstructure:"BILLING_SEED"`
	AssistantAPIURL  string   `mapstructure:"ASSISTANT_API_URL"`
	AssistantAPIKey  string   `mapstructure:"ASSISTANT_API_KEY"`
	AssistantModel   string   `mapstructure:"ASSISTANT_MODEL"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
}

const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("RESERVATIONS_FILE", "reservations.csv")
	v.SetDefault("CATALOG_FILE", "treatment_fees.csv")
	v.SetDefault("STORE_BACKEND", StoreCSV)
	v.SetDefault("BILLING_SEED", 42)
	v.SetDefault("ASSISTANT_API_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("ASSISTANT_MODEL", "gemini-2.0-flash")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("RESERVATIONS_FILE")
	v.BindEnv("CATALOG_FILE")
	v.BindEnv("STORE_BACKEND")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("BILLING_SEED")
	v.BindEnv("ASSISTANT_API_URL")
	v.BindEnv("ASSISTANT_API_KEY")
	v.BindEnv("ASSISTANT_MODEL")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ReservationsPath is the visit store file resolved against DataDir.
func (c *Config) ReservationsPath() string {
	return filepath.Join(c.DataDir, c.ReservationsFile)
}

// CatalogPath is the treatment catalog file resolved against DataDir.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, c.CatalogFile)
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreCSV:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %q", StorePostgres)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreCSV, StorePostgres, c.StoreBackend)
	}

	switch filepath.Ext(c.CatalogFile) {
	case ".csv", ".xlsx":
	default:
		return fmt.Errorf("CATALOG_FILE must be a .csv or .xlsx file, got %q", c.CatalogFile)
	}

	return nil
}

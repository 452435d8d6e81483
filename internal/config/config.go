// Package config loads runtime settings from defaults, an optional .env file
// and MEDTRACK_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "MEDTRACK_"

// Config holds application configuration values.
type Config struct {
	Primary   Primary         `koanf:"primary" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Database  DatabaseConfig  `koanf:"database" validate:"required"`
	Log       LogConfig       `koanf:"log" validate:"required"`
	Seed      SeedConfig      `koanf:"seed"`
	Inventory InventoryConfig `koanf:"inventory"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port               string `koanf:"port" validate:"required,numeric"`
	StaticDir          string `koanf:"static_dir" validate:"required"`
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// AllowedOrigins splits the comma separated origin list.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// DatabaseConfig selects the storage engine. Path is used by sqlite, DSN by
// postgres.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"required,oneof=sqlite postgres"`
	Path            string        `koanf:"path" validate:"required_if=Driver sqlite"`
	DSN             string        `koanf:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	BusyTimeout     time.Duration `koanf:"busy_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=console json"`
}

type SeedConfig struct {
	Enabled     bool   `koanf:"enabled"`
	CatalogPath string `koanf:"catalog_path"`
}

type InventoryConfig struct {
	LowStockThreshold int64 `koanf:"low_stock_threshold" validate:"min=0"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Port:               "5000",
			StaticDir:          "public",
			CORSAllowedOrigins: "*",
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Path:         "pharmacy.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			BusyTimeout:  5 * time.Second,
		},
		Log:       LogConfig{Level: "info", Format: "console"},
		Seed:      SeedConfig{Enabled: true},
		Inventory: InventoryConfig{LowStockThreshold: 10},
	}
}

// envKey maps MEDTRACK_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

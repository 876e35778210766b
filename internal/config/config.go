package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Report ReportConfig `mapstructure:"report"`
	Seed   SeedConfig   `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

// ReportConfig carries the defaults for the trailing-window sales report.
// Every value can still be overridden per invocation via CLI flag or
// query parameter.
type ReportConfig struct {
	WindowDays  int    `mapstructure:"window_days"`
	Limit       int    `mapstructure:"limit"`
	Policy      string `mapstructure:"policy"`      // date-truncated | full-timestamp
	Formulation string `mapstructure:"formulation"` // direct | optimized
}

type SeedConfig struct {
	Customers int   `mapstructure:"customers"`
	Products  int   `mapstructure:"products"`
	Orders    int   `mapstructure:"orders"`
	RandSeed  int64 `mapstructure:"rand_seed"`
	BatchSize int   `mapstructure:"batch_size"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.salescope/")
	v.AddConfigPath("/etc/salescope/")

	// Enable environment variable override with SALESCOPE_ prefix
	v.SetEnvPrefix("SALESCOPE")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("report.window_days", 90)
	v.SetDefault("report.limit", 100)
	v.SetDefault("report.policy", "date-truncated")
	v.SetDefault("report.formulation", "direct")
	v.SetDefault("seed.customers", 5000)
	v.SetDefault("seed.products", 2000)
	v.SetDefault("seed.orders", 20000)
	v.SetDefault("seed.rand_seed", 42)
	v.SetDefault("seed.batch_size", 500)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

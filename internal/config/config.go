package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Signals      Signals      `mapstructure:"signals"`
	Connectivity Connectivity `mapstructure:"connectivity"`
	Logger       Logger       `mapstructure:"logger"`
	Server       Server       `mapstructure:"server"`
	Dashboard    Dashboard    `mapstructure:"dashboard"`
	Database     Database     `mapstructure:"database"`
}

// Signals holds the configuration for the signal engine.
type Signals struct {
	AutoMode       bool    `mapstructure:"auto_mode"`
	Rotation       string  `mapstructure:"rotation"` // SEQUENTIAL, RANDOM or NONE
	HouseEdge      float64 `mapstructure:"house_edge"`
	AdDelayMs      int     `mapstructure:"ad_delay_ms"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Connectivity holds the configuration for the network probe.
type Connectivity struct {
	ProbeURL        string `mapstructure:"probe_url"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

// Server holds the configuration for the engine API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Dashboard holds the configuration for the read-only dashboard server.
type Dashboard struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("signals.auto_mode", true)
	viper.SetDefault("signals.rotation", "SEQUENTIAL")
	viper.SetDefault("signals.house_edge", 0.05)
	viper.SetDefault("signals.ad_delay_ms", 0)
	viper.SetDefault("signals.rate_limit", 2) // mutating requests per second
	viper.SetDefault("signals.rate_limit_burst", 5)
	viper.SetDefault("connectivity.probe_url", "https://clients3.google.com/generate_204")
	viper.SetDefault("connectivity.interval_seconds", 15)
	viper.SetDefault("connectivity.timeout_seconds", 5)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("dashboard.port", 8081)
	viper.SetDefault("database.dsn", "signals.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

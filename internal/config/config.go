// Package config provides centralized configuration for the analysis app.
// Values come from an optional yaml config file and AZWEBAPP_* environment
// variables, with defaults matching the tuned model parameters.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Port            int     `mapstructure:"port"`
	LogFilePath     string  `mapstructure:"log_file_path"`
	LogLevel        string  `mapstructure:"log_level"`
	LogFormat       string  `mapstructure:"log_format"` // "text" or "json"
	Trees           int     `mapstructure:"trees"`
	Contamination   float64 `mapstructure:"contamination"`
	Seed            int64   `mapstructure:"seed"`
	StrictLevels    bool    `mapstructure:"strict_levels"`
	ShutdownTimeout int     `mapstructure:"shutdown_timeout_sec"`
	EnablePprof     bool    `mapstructure:"enable_pprof"`
	PprofAddr       string  `mapstructure:"pprof_addr"`
}

// Load reads configuration from config.yaml (searched in /etc/azure-webapp,
// $HOME/.azure-webapp and the working directory) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/azure-webapp/")
	v.AddConfigPath("$HOME/.azure-webapp")
	v.AddConfigPath(".")

	// Defaults
	v.SetDefault("port", 8080)
	v.SetDefault("log_file_path", "system_logs.txt")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("trees", 150)
	v.SetDefault("contamination", 0.05)
	v.SetDefault("seed", 42)
	v.SetDefault("strict_levels", false)
	v.SetDefault("shutdown_timeout_sec", 15)
	v.SetDefault("enable_pprof", false)
	v.SetDefault("pprof_addr", "localhost:6060")

	// Environment variables
	v.SetEnvPrefix("AZWEBAPP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Trees <= 0 {
		return fmt.Errorf("invalid ensemble size %d", c.Trees)
	}
	if c.Contamination <= 0 || c.Contamination >= 1 {
		return fmt.Errorf("contamination must be in (0, 1), got %v", c.Contamination)
	}
	if c.LogFilePath == "" {
		return fmt.Errorf("log_file_path must not be empty")
	}
	return nil
}

// Package config is the simulation's configuration surface. Every knob has a
// default; files may be YAML, TOML, or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulation configuration.
type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account" toml:"account"`
	Risk      RiskConfig      `json:"risk" yaml:"risk" toml:"risk"`
	Execution ExecutionConfig `json:"execution" yaml:"execution" toml:"execution"`
	Strategy  StrategyConfig  `json:"strategy" yaml:"strategy" toml:"strategy"`
	Journal   JournalConfig   `json:"journal" yaml:"journal" toml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	InitialCash     float64 `json:"initial_cash" yaml:"initial_cash" toml:"initial_cash"`
	DefaultQuantity int     `json:"default_quantity" yaml:"default_quantity" toml:"default_quantity"`
}

// RiskConfig contains the validator's limits.
type RiskConfig struct {
	Window       string `json:"window" yaml:"window" toml:"window"` // e.g. "60s"
	MaxPerWindow int    `json:"max_per_window" yaml:"max_per_window" toml:"max_per_window"`
	MaxPosition  int    `json:"max_position" yaml:"max_position" toml:"max_position"`
}

// ParseWindow converts the window string to a time.Duration.
func (r RiskConfig) ParseWindow() (time.Duration, error) {
	if r.Window == "" {
		return 60 * time.Second, nil
	}
	return time.ParseDuration(r.Window)
}

// ExecutionConfig contains the simulated venue's parameters.
type ExecutionConfig struct {
	PFail          float64 `json:"p_fail" yaml:"p_fail" toml:"p_fail"`
	PFull          float64 `json:"p_full" yaml:"p_full" toml:"p_full"`
	PPartial       float64 `json:"p_partial" yaml:"p_partial" toml:"p_partial"`
	SlippageStdDev float64 `json:"slippage_stddev" yaml:"slippage_stddev" toml:"slippage_stddev"`
	Seed           int64   `json:"seed" yaml:"seed" toml:"seed"`
}

// StrategyConfig selects and tunes the signal source.
type StrategyConfig struct {
	Name           string `json:"name" yaml:"name" toml:"name"`
	ShortWindow    int    `json:"short_window" yaml:"short_window" toml:"short_window"`
	LongWindow     int    `json:"long_window" yaml:"long_window" toml:"long_window"`
	MomentumWindow int    `json:"momentum_window" yaml:"momentum_window" toml:"momentum_window"`
}

// JournalConfig contains audit-sink parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type" toml:"type"` // "csv" or "sqlite"
	AuditFile  string `json:"audit_file,omitempty" yaml:"audit_file,omitempty" toml:"audit_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty" toml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" toml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file. TOML is selected by
// extension; otherwise YAML is tried first with JSON as fallback.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else {
		err = yaml.Unmarshal(data, cfg)
		if err != nil {
			err = json.Unmarshal(data, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch {
	case strings.HasSuffix(path, ".toml"):
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(c)
		data = []byte(b.String())
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Account.DefaultQuantity <= 0 {
		return fmt.Errorf("account.default_quantity must be positive")
	}
	if _, err := c.Risk.ParseWindow(); err != nil {
		return fmt.Errorf("risk.window: %w", err)
	}
	if c.Risk.MaxPerWindow <= 0 {
		return fmt.Errorf("risk.max_per_window must be positive")
	}
	if c.Risk.MaxPosition <= 0 {
		return fmt.Errorf("risk.max_position must be positive")
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"execution.p_fail", c.Execution.PFail},
		{"execution.p_full", c.Execution.PFull},
		{"execution.p_partial", c.Execution.PPartial},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", p.name)
		}
	}
	if c.Execution.SlippageStdDev < 0 {
		return fmt.Errorf("execution.slippage_stddev must not be negative")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" && c.Journal.Type != "none" {
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Journal.Type == "csv" && (c.Journal.AuditFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal audit_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with the documented defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialCash:     100_000,
			DefaultQuantity: 10,
		},
		Risk: RiskConfig{
			Window:       "60s",
			MaxPerWindow: 50,
			MaxPosition:  500,
		},
		Execution: ExecutionConfig{
			PFail:          0.02,
			PFull:          0.95,
			PPartial:       0.04,
			SlippageStdDev: 0.0001,
			Seed:           1,
		},
		Strategy: StrategyConfig{
			Name:           "mac",
			ShortWindow:    20,
			LongWindow:     50,
			MomentumWindow: 10,
		},
		Journal: JournalConfig{
			Type:       "csv",
			AuditFile:  "./trade_audit.csv",
			EquityFile: "./equity.csv",
		},
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete analysis configuration.
type Config struct {
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
}

// JournalConfig locates the trade and daily-log records.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesCSV   string `json:"trades_csv,omitempty" yaml:"trades_csv,omitempty"`
	DailyLogCSV string `json:"daily_log_csv,omitempty" yaml:"daily_log_csv,omitempty"`
}

// AnalysisConfig contains snapshot engine parameters.
type AnalysisConfig struct {
	RiskFreeRate      float64  `json:"risk_free_rate" yaml:"risk_free_rate"` // annual percent
	NormalizeToOneLot bool     `json:"normalize_to_one_lot" yaml:"normalize_to_one_lot"`
	InitialCapital    float64  `json:"initial_capital,omitempty" yaml:"initial_capital,omitempty"`
	From              string   `json:"from,omitempty" yaml:"from,omitempty"` // YYYY-MM-DD
	To                string   `json:"to,omitempty" yaml:"to,omitempty"`
	Strategies        []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradestats.sqlite",
		},
		Analysis: AnalysisConfig{
			RiskFreeRate: 2.0,
		},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path is required for sqlite journals")
		}
	case "csv":
		if c.Journal.TradesCSV == "" {
			return fmt.Errorf("journal.trades_csv is required for csv journals")
		}
	default:
		return fmt.Errorf("journal.type must be \"sqlite\" or \"csv\", got %q", c.Journal.Type)
	}

	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate > 100 {
		return fmt.Errorf("analysis.risk_free_rate must be a percentage between 0 and 100")
	}
	if c.Analysis.InitialCapital < 0 {
		return fmt.Errorf("analysis.initial_capital must not be negative")
	}

	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	return nil
}

// DateRange parses the optional from/to bounds.
func (c *Config) DateRange() (from, to time.Time, _ error) {
	var err error
	if c.Analysis.From != "" {
		if from, err = time.Parse("2006-01-02", c.Analysis.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("analysis.from: %w", err)
		}
	}
	if c.Analysis.To != "" {
		if to, err = time.Parse("2006-01-02", c.Analysis.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("analysis.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("analysis.to is before analysis.from")
	}
	return from, to, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Analysis    AnalysisConfig            `json:"analysis"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// AnalysisConfig carries the tunable constants of the scoring and risk
// policy. Zero values are replaced with the documented defaults.
type AnalysisConfig struct {
	TrendThreshold     float64 `json:"trend_threshold"`
	DecliningAdjust    float64 `json:"declining_adjust"`
	RisingAdjust       float64 `json:"rising_adjust"`
	CancellationWeight float64 `json:"cancellation_weight"`
	SignalWeight       float64 `json:"signal_weight"`
	AlertThreshold     float64 `json:"alert_threshold"`
	ConfidenceCap      float64 `json:"confidence_cap"`
}

// Default returns a configuration suitable for local development:
// sqlite storage, no redis cache, stock analysis constants.
func Default() *Config {
	cfg := &Config{
		BasicConfig: BasicConfig{ServerAddress: ":8090"},
		Databases: map[string]DatabaseConfig{
			"sqlite3": {DSN: "./data/sentracker.db"},
		},
	}
	cfg.Analysis.applyDefaults()
	return cfg
}

func (a *AnalysisConfig) applyDefaults() {
	if a.TrendThreshold == 0 {
		a.TrendThreshold = 5
	}
	if a.DecliningAdjust == 0 {
		a.DecliningAdjust = 0.10
	}
	if a.RisingAdjust == 0 {
		a.RisingAdjust = 0.10
	}
	if a.CancellationWeight == 0 {
		a.CancellationWeight = 0.10
	}
	if a.SignalWeight == 0 {
		a.SignalWeight = 0.04
	}
	if a.AlertThreshold == 0 {
		a.AlertThreshold = 0.70
	}
	if a.ConfidenceCap == 0 {
		a.ConfidenceCap = 0.95
	}
}

// Load reads configuration from the provided path (defaults to
// config.json). A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Databases) == 0 {
		cfg.Databases = Default().Databases
	}
	cfg.Analysis.applyDefaults()
	return &cfg, nil
}

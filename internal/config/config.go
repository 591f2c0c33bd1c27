package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		Provider          string        `yaml:"provider"` // "yahoo" or "rest"
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		ChartBaseURL      string        `yaml:"chart_base_url"`
		SummaryBaseURL    string        `yaml:"summary_base_url"`
		CookieURL         string        `yaml:"cookie_url"`
		LookbackMonths    int           `yaml:"lookback_months"`
		Timeout           time.Duration `yaml:"timeout"`
		RetryCount        int           `yaml:"retry_count"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Indicators struct {
		RSIWindow int `yaml:"rsi_window"`
		MACDFast  int `yaml:"macd_fast"`
		MACDSlow  int `yaml:"macd_slow"`
	} `yaml:"indicators"`
	Dashboard struct {
		Title          string `yaml:"title"`
		DefaultSymbol1 string `yaml:"default_symbol1"`
		DefaultSymbol2 string `yaml:"default_symbol2"`
	} `yaml:"dashboard"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
		cfg.DataSource.Provider = "rest"
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_SOURCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse DATA_SOURCE_TIMEOUT: %w", err)
		}
		cfg.DataSource.Timeout = d
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8501"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "rest"
		}
	}
	if cfg.DataSource.ChartBaseURL == "" {
		cfg.DataSource.ChartBaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.DataSource.SummaryBaseURL == "" {
		cfg.DataSource.SummaryBaseURL = "https://query2.finance.yahoo.com"
	}
	if cfg.DataSource.CookieURL == "" {
		cfg.DataSource.CookieURL = "https://fc.yahoo.com"
	}
	if cfg.DataSource.LookbackMonths == 0 {
		cfg.DataSource.LookbackMonths = 6
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Indicators.MACDFast == 0 {
		cfg.Indicators.MACDFast = 12
	}
	if cfg.Indicators.MACDSlow == 0 {
		cfg.Indicators.MACDSlow = 26
	}
	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = "Stock analysis"
	}
	if cfg.Dashboard.DefaultSymbol1 == "" {
		cfg.Dashboard.DefaultSymbol1 = "AAPL"
	}
	if cfg.Dashboard.DefaultSymbol2 == "" {
		cfg.Dashboard.DefaultSymbol2 = "MSFT"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.LookbackMonths < 0 {
		return fmt.Errorf("data_source.lookback_months must not be negative")
	}
	if c.DataSource.RetryCount < 0 {
		return fmt.Errorf("data_source.retry_count must not be negative")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.Indicators.RSIWindow < 1 {
		return fmt.Errorf("indicators.rsi_window must be positive")
	}
	if c.Indicators.MACDFast < 1 || c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be positive and below macd_slow")
	}
	return nil
}

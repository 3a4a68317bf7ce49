package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`
	Feeds struct {
		Tick                  time.Duration `yaml:"tick"`
		NewsCadence           time.Duration `yaml:"news_cadence"`
		TrendingCadence       time.Duration `yaml:"trending_cadence"`
		MarketOverviewCadence time.Duration `yaml:"market_overview_cadence"`
		DefaultSymbol         string        `yaml:"default_symbol"`
	} `yaml:"feeds"`
	Cache struct {
		DashboardTTL time.Duration `yaml:"dashboard_ttl"`
		ExportTTL    time.Duration `yaml:"export_ttl"`
		Redis        struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		PredictCapacity float64 `yaml:"predict_capacity"`
		PredictRefill   float64 `yaml:"predict_refill_per_sec"`
	} `yaml:"ratelimit"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

// applyDefaults fills cadences and timeouts the dashboard relies on when the
// YAML leaves them out. News refreshes every 5 minutes, trending and market
// overview every minute.
func (c *Config) applyDefaults() {
	if c.Feeds.Tick <= 0 {
		c.Feeds.Tick = time.Second
	}
	if c.Feeds.NewsCadence <= 0 {
		c.Feeds.NewsCadence = 5 * time.Minute
	}
	if c.Feeds.TrendingCadence <= 0 {
		c.Feeds.TrendingCadence = time.Minute
	}
	if c.Feeds.MarketOverviewCadence <= 0 {
		c.Feeds.MarketOverviewCadence = time.Minute
	}
	if c.Feeds.DefaultSymbol == "" {
		c.Feeds.DefaultSymbol = "BTC-USD"
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 30 * time.Second
	}
	if c.Cache.DashboardTTL <= 0 {
		c.Cache.DashboardTTL = 2 * time.Second
	}
	if c.Cache.ExportTTL <= 0 {
		c.Cache.ExportTTL = time.Minute
	}
	if c.RateLimit.PredictCapacity <= 0 {
		c.RateLimit.PredictCapacity = 5
	}
	if c.RateLimit.PredictRefill <= 0 {
		c.RateLimit.PredictRefill = 0.5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.host is required when redis is enabled")
	}
	return nil
}

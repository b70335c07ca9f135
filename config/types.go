package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	User      UserConfig      `mapstructure:"user"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds recommendation service connection details
type ServerConfig struct {
	URL               string        `mapstructure:"url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	GenerativeTimeout time.Duration `mapstructure:"generative_timeout"`
	RateLimit         float64       `mapstructure:"rate_limit"`
}

// UserConfig identifies whose ratings and lists are shown
type UserConfig struct {
	ID string `mapstructure:"id"`
}

// DashboardConfig controls list browsing and status polling
type DashboardConfig struct {
	DefaultList  string        `mapstructure:"default_list"`
	PageSize     int           `mapstructure:"page_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// FilterConfig contains the default filter and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

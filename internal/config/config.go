// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Finder  FinderConfig  `mapstructure:"finder" yaml:"finder"`
	Crawl   CrawlConfig   `mapstructure:"crawl" yaml:"crawl"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser session.
type BrowserConfig struct {
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	UserAgent    string   `mapstructure:"user_agent" yaml:"user_agent"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	Profile      string   `mapstructure:"profile" yaml:"profile"`
	ProfileDir   string   `mapstructure:"profile_dir" yaml:"profile_dir"`
	Args         []string `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes page-load behavior. Timeouts live at the driver layer;
// the discovery core itself enforces none.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// FinderConfig is the configuration surface consumed by the discovery core.
type FinderConfig struct {
	// Threshold is the fuzzy similarity cutoff in [0,100]. 0 admits every
	// clickable element, 100 requires near-exact keyword presence.
	Threshold int `mapstructure:"threshold" yaml:"threshold"`
	// ExtraKeywords are appended to the built-in catalog before a run
	// starts. The catalog is immutable once the run begins.
	ExtraKeywords []string `mapstructure:"extra_keywords" yaml:"extra_keywords"`
}

// CrawlConfig holds settings for a batch crawl run, mostly populated from
// CLI flags.
type CrawlConfig struct {
	OutputDir   string        `mapstructure:"output_dir" yaml:"output_dir"`
	ScrollCount int           `mapstructure:"scroll_count" yaml:"scroll_count"`
	Delay       time.Duration `mapstructure:"delay" yaml:"delay"`
	ClickFirst  bool          `mapstructure:"click_first" yaml:"click_first"`
	Limit       int           `mapstructure:"limit" yaml:"limit"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "votelens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36")
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.profile", "")
	v.SetDefault("browser.profile_dir", "browser_profiles")

	// -- Network --
	v.SetDefault("network.navigation_timeout", "30s")
	v.SetDefault("network.post_load_wait", "1s")

	// -- Finder --
	v.SetDefault("finder.threshold", 70)

	// -- Crawl --
	v.SetDefault("crawl.output_dir", "output")
	v.SetDefault("crawl.scroll_count", 3)
	v.SetDefault("crawl.delay", "2s")
	v.SetDefault("crawl.click_first", false)
	v.SetDefault("crawl.limit", 0)
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration instance from a viper
// object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Finder.Threshold < 0 || c.Finder.Threshold > 100 {
		return fmt.Errorf("finder.threshold must be in the range [0,100], got %d", c.Finder.Threshold)
	}
	if c.Crawl.ScrollCount < 0 {
		return fmt.Errorf("crawl.scroll_count must not be negative")
	}
	if c.Crawl.Delay < 0 {
		return fmt.Errorf("crawl.delay must not be negative")
	}
	if c.Network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window dimensions must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Storage configuration
	Storage StorageConfig `mapstructure:"storage"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Domain           string        `mapstructure:"domain"`
	PathPrefix       string        `mapstructure:"path_prefix"`
	MaxPages         int           `mapstructure:"max_pages"`
	MaxDepth         int           `mapstructure:"max_depth"`
	MinContentLength int           `mapstructure:"min_content_length"`
	MinWordCount     int           `mapstructure:"min_word_count"`
	RequestDelay     time.Duration `mapstructure:"request_delay"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Workers          int           `mapstructure:"workers"`
	FollowRobotsTxt  bool          `mapstructure:"follow_robots_txt"`
	BypassCache      bool          `mapstructure:"bypass_cache"`
}

// StorageConfig holds output configuration
type StorageConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	bindEnvVars()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Crawler defaults mirror the original scrape run against the
	// Arabic section of the PSUT site.
	viper.SetDefault("crawler.base_url", "https://www.psut.edu.jo/ar")
	viper.SetDefault("crawler.domain", "psut.edu.jo")
	viper.SetDefault("crawler.path_prefix", "/ar")
	viper.SetDefault("crawler.max_pages", 3000)
	viper.SetDefault("crawler.max_depth", 10)
	viper.SetDefault("crawler.min_content_length", 100)
	viper.SetDefault("crawler.min_word_count", 10)
	viper.SetDefault("crawler.request_delay", "500ms")
	viper.SetDefault("crawler.timeout", "30s")
	viper.SetDefault("crawler.workers", 1)
	viper.SetDefault("crawler.follow_robots_txt", true)
	viper.SetDefault("crawler.bypass_cache", true)

	// Storage defaults
	viper.SetDefault("storage.output_dir", "./scraped_data")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// bindEnvVars binds environment variables
func bindEnvVars() {
	viper.SetEnvPrefix("SCRAPER")
	viper.AutomaticEnv()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler.base_url must be set")
	}
	if c.Crawler.Domain == "" {
		return fmt.Errorf("crawler.domain must be set")
	}
	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be positive")
	}
	if c.Crawler.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must not be negative")
	}
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be positive")
	}
	if c.Crawler.RequestDelay < 0 {
		return fmt.Errorf("crawler.request_delay must not be negative")
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must be set")
	}
	return nil
}

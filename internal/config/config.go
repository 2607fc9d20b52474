package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config holds the full application configuration.
type Config struct {
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures outbound fetching and extractor limits.
type ScrapeConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPagesToScan    int     `yaml:"max_pages_to_scan" mapstructure:"max_pages_to_scan"`
	MaxCatalogPages   int     `yaml:"max_catalog_pages" mapstructure:"max_catalog_pages"`
	MaxFanout         int     `yaml:"max_fanout" mapstructure:"max_fanout"`
	MaxConnsPerHost   int     `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// DiscoveryConfig holds credentials for the competitor discovery backends.
// The Bing backend is preferred when both keys are set.
type DiscoveryConfig struct {
	BingKey        string `yaml:"bing_key" mapstructure:"bing_key"`
	BingBaseURL    string `yaml:"bing_base_url" mapstructure:"bing_base_url"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scrape.timeout_secs", 12)
	v.SetDefault("scrape.max_pages_to_scan", 3)
	v.SetDefault("scrape.max_catalog_pages", 50)
	v.SetDefault("scrape.max_fanout", 5)
	v.SetDefault("scrape.max_conns_per_host", 8)
	v.SetDefault("scrape.requests_per_second", 0.0)
	v.SetDefault("scrape.user_agent", defaultUserAgent)
	v.SetDefault("discovery.bing_base_url", "https://api.bing.microsoft.com/v7.0")
	v.SetDefault("discovery.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "insights.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given run mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Scrape.TimeoutSecs <= 0 {
		problems = append(problems, "scrape.timeout_secs must be > 0")
	}
	if c.Scrape.MaxFanout < 1 || c.Scrape.MaxFanout > 50 {
		problems = append(problems, "scrape.max_fanout must be between 1 and 50")
	}
	if c.Scrape.MaxCatalogPages < 1 {
		problems = append(problems, "scrape.max_catalog_pages must be >= 1")
	}

	switch mode {
	case "scrape", "competitors":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Store.Enabled && c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required when store.enabled is set")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ShopSync backend.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Matcher   MatcherConfig   `mapstructure:"matcher"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Models    []ModelEntry    `mapstructure:"models"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	SearchBudget time.Duration `mapstructure:"search_budget"` // hard cap per /search request
}

// ProvidersConfig groups LLM provider settings.
type ProvidersConfig struct {
	NVIDIA LLMProviderConfig `mapstructure:"nvidia"`
}

// LLMProviderConfig configures one OpenAI-compatible chat-completions endpoint.
type LLMProviderConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	CompletionModel string        `mapstructure:"completion_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ScrapeConfig contains retailer scraping settings.
type ScrapeConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`        // per retailer search page
	DetailTimeout time.Duration `mapstructure:"detail_timeout"` // per product detail page
	MaxResults    int           `mapstructure:"max_results"`
	ScrollPasses  int           `mapstructure:"scroll_passes"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// MatcherConfig tunes cross-retailer entity matching.
type MatcherConfig struct {
	Threshold               float64       `mapstructure:"threshold"`
	SemanticConfidenceFloor float64       `mapstructure:"semantic_confidence_floor"`
	SemanticTimeout         time.Duration `mapstructure:"semantic_timeout"` // per pair-scoring call
	SemanticMaxConcurrent   int           `mapstructure:"semantic_max_concurrent"`
	PreferRetailer          string        `mapstructure:"prefer_retailer"` // canonical-title tie break
	PriceGapRatio           float64       `mapstructure:"price_gap_ratio"` // veto above this gap
}

// CacheConfig contains the optional redis listing cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Host    string        `mapstructure:"host"`
	Port    string        `mapstructure:"port"`
	Pass    string        `mapstructure:"password"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ModelEntry describes one semantic-matching model surfaced on /api/models.
type ModelEntry struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Provider string `mapstructure:"provider"`
	Desc     string `mapstructure:"desc"`
}

func (s ServerConfig) Validate() error {
	if s.SearchBudget <= 0 {
		return fmt.Errorf("server.search_budget must be > 0")
	}
	return nil
}

func (m MatcherConfig) Validate() error {
	if m.Threshold < 0 || m.Threshold > 1 {
		return fmt.Errorf("matcher.threshold must be in [0,1]")
	}
	if m.SemanticMaxConcurrent <= 0 {
		return fmt.Errorf("matcher.semantic_max_concurrent must be > 0")
	}
	switch m.PreferRetailer {
	case "amazon", "flipkart":
	default:
		return fmt.Errorf("matcher.prefer_retailer must be amazon or flipkart")
	}
	return nil
}

func (c CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("cache.host required when cache is enabled")
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("cache.port required when cache is enabled")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":5002")
	viper.SetDefault("server.search_budget", 45*time.Second)

	viper.SetDefault("providers.nvidia.base_url", "https://integrate.api.nvidia.com/v1")
	viper.SetDefault("providers.nvidia.completion_model", "moonshotai/kimi-k2-instruct-0905")
	viper.SetDefault("providers.nvidia.temperature", 0.6)
	viper.SetDefault("providers.nvidia.max_tokens", 1024)
	viper.SetDefault("providers.nvidia.timeout", 20*time.Second)

	viper.SetDefault("scrape.timeout", 30*time.Second)
	viper.SetDefault("scrape.detail_timeout", 20*time.Second)
	viper.SetDefault("scrape.max_results", 50)
	viper.SetDefault("scrape.scroll_passes", 2)
	viper.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	viper.SetDefault("matcher.threshold", 0.6)
	viper.SetDefault("matcher.semantic_confidence_floor", 0.5)
	viper.SetDefault("matcher.semantic_timeout", 8*time.Second)
	viper.SetDefault("matcher.semantic_max_concurrent", 4)
	viper.SetDefault("matcher.prefer_retailer", "amazon")
	viper.SetDefault("matcher.price_gap_ratio", 0.6)

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("cache.timeout", 2*time.Second)

	viper.SetDefault("models", []map[string]any{
		{"id": "moonshotai/kimi-k2-instruct-0905", "name": "Kimi K2", "provider": "nvidia", "desc": "Default semantic matcher"},
		{"id": "meta/llama-3.1-70b-instruct", "name": "Llama 3.1 70B", "provider": "nvidia", "desc": "Alternative matcher model"},
	})
}

// LoadConfig loads config from file (optional) and SHOPSYNC_* env vars.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	setDefaults()

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("SHOPSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus env are enough to run; only an explicit path
		// that cannot be read is fatal.
		if path != "" {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.Server.Validate(); err != nil {
		panic(err)
	}
	if err := config.Matcher.Validate(); err != nil {
		panic(err)
	}
	if err := config.Cache.Validate(); err != nil {
		panic(err)
	}
	return &config
}

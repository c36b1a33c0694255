package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research assistant
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Search    SearchConfig    `mapstructure:"search"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug             bool          `mapstructure:"debug"`
	LogLevel          string        `mapstructure:"log_level"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
	DefaultTimeout    time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server and session settings
type ServerConfig struct {
	Address       string        `mapstructure:"address"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	HistoryShown  int           `mapstructure:"history_shown"`
}

// Normalize applies defaults for unset server values.
func (s ServerConfig) Normalize() ServerConfig {
	if s.Address == "" {
		s.Address = ":8080"
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = 24 * time.Hour
	}
	if s.HistoryShown <= 0 {
		s.HistoryShown = 5
	}
	return s
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type        string        `mapstructure:"type"` // huggingface, openai
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CostPer1K   float64       `mapstructure:"cost_per_1k_input"`
	CostPer1KOut float64      `mapstructure:"cost_per_1k_output"`
}

// LLMRoutingConfig defines which provider entry to use for different roles
type LLMRoutingConfig struct {
	Manager  string `mapstructure:"manager"`  // composes the final structured answer
	Research string `mapstructure:"research"` // drives the web sub-agent tool loop
	Fallback string `mapstructure:"fallback"`
}

// Validate ensures at least one provider carries a usable credential. The
// token may come from config or from the environment (HF_TOKEN for
// huggingface, OPENAI_API_KEY for openai).
func (l LLMConfig) Validate() error {
	if len(l.Providers) == 0 {
		return errors.New("llm.providers: at least one provider is required")
	}
	for name, p := range l.Providers {
		switch p.Type {
		case "huggingface":
			if p.APIKey == "" && os.Getenv("HF_TOKEN") == "" {
				return fmt.Errorf("llm.providers.%s: HuggingFace token not found; set llm.providers.%s.api_key or HF_TOKEN", name, name)
			}
		case "openai":
			if p.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
				return fmt.Errorf("llm.providers.%s: OpenAI key not found; set llm.providers.%s.api_key or OPENAI_API_KEY", name, name)
			}
		default:
			return fmt.Errorf("llm.providers.%s: unsupported type %q", name, p.Type)
		}
	}
	return nil
}

// AgentsConfig contains agent-specific settings
type AgentsConfig struct {
	MaxSteps     int           `mapstructure:"max_steps"`
	MaxRetries   int           `mapstructure:"max_retries"`
	AgentTimeout time.Duration `mapstructure:"agent_timeout"`
}

// Normalize applies defaults for unset agent values.
func (a AgentsConfig) Normalize() AgentsConfig {
	if a.MaxSteps <= 0 {
		a.MaxSteps = 10
	}
	if a.AgentTimeout <= 0 {
		a.AgentTimeout = 2 * time.Minute
	}
	return a
}

// SearchConfig contains web search settings
type SearchConfig struct {
	Provider     string        `mapstructure:"provider"` // duckduckgo, serper, brave
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Normalize applies defaults for unset search values.
func (s SearchConfig) Normalize() SearchConfig {
	if s.Provider == "" {
		s.Provider = "duckduckgo"
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 15 * time.Second
	}
	return s
}

// Validate checks provider/key pairing.
func (s SearchConfig) Validate() error {
	switch s.Provider {
	case "duckduckgo":
	case "serper":
		if s.SerperAPIKey == "" {
			return errors.New("search.serper_api_key required for serper provider")
		}
	case "brave":
		if s.BraveAPIKey == "" {
			return errors.New("search.brave_api_key required for brave provider")
		}
	default:
		return fmt.Errorf("search.provider: unsupported provider %q", s.Provider)
	}
	return nil
}

// FetchConfig contains webpage fetch settings
type FetchConfig struct {
	Type      string        `mapstructure:"type"` // http, chromedp
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxChars  int           `mapstructure:"max_chars"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Normalize applies defaults for unset fetch values.
func (f FetchConfig) Normalize() FetchConfig {
	if f.Type == "" {
		f.Type = "http"
	}
	return f
}

// CacheConfig controls the fetched-content cache
type CacheConfig struct {
	Type  string        `mapstructure:"type"` // inmemory, redis
	TTL   time.Duration `mapstructure:"ttl"`  // 0 means process lifetime
	Redis RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Validate checks cache settings.
func (c CacheConfig) Validate() error {
	switch c.Type {
	case "", "inmemory":
	case "redis":
		if c.Redis.Host == "" || c.Redis.Port == 0 {
			return errors.New("cache.redis.host and cache.redis.port required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type: unsupported type %q", c.Type)
	}
	return nil
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CostTracking bool   `mapstructure:"cost_tracking"`
	PeriodicLogs bool   `mapstructure:"periodic_logs"`
	LogFile      string `mapstructure:"log_file"`
}

// LoadConfig reads configuration from file and environment. A missing config
// file is fine (defaults plus RESEARCH_* env vars apply); a malformed one is
// fatal.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.max_processing_time", "5m")
	viper.SetDefault("general.default_timeout", "30s")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.session_ttl", "24h")
	viper.SetDefault("server.history_shown", 5)
	viper.SetDefault("agents.max_steps", 10)
	viper.SetDefault("agents.agent_timeout", "2m")
	viper.SetDefault("search.provider", "duckduckgo")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "15s")
	viper.SetDefault("fetch.type", "http")
	viper.SetDefault("cache.type", "inmemory")
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.cost_tracking", true)
	viper.SetDefault("llm.providers.huggingface.type", "huggingface")
	viper.SetDefault("llm.providers.huggingface.model", "Qwen/Qwen2.5-Coder-32B-Instruct")
	viper.SetDefault("llm.providers.huggingface.timeout", "60s")
	viper.SetDefault("llm.routing.manager", "huggingface")
	viper.SetDefault("llm.routing.research", "huggingface")
	viper.SetDefault("llm.routing.fallback", "huggingface")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("RESEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Server = config.Server.Normalize()
	config.Agents = config.Agents.Normalize()
	config.Search = config.Search.Normalize()
	config.Fetch = config.Fetch.Normalize()

	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.Cache.Validate(); err != nil {
		panic(err)
	}
	return &config
}

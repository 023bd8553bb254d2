package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Detection DetectionConfig `mapstructure:"detection"`
	Callback  CallbackConfig  `mapstructure:"callback"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds the API key expected in the x-api-key header
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// AnalyzerConfig controls the optional external lookups of the link analyzer
type AnalyzerConfig struct {
	EnableWhois     bool          `mapstructure:"enable_whois"`
	EnableWebSearch bool          `mapstructure:"enable_web_search"`
	LookupTimeout   time.Duration `mapstructure:"lookup_timeout"`
	RDAPBaseURL     string        `mapstructure:"rdap_base_url"`
	SearchBaseURL   string        `mapstructure:"search_base_url"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// DetectionConfig holds classifier thresholds
type DetectionConfig struct {
	ScamConfidenceThreshold int `mapstructure:"scam_confidence_threshold"`
}

// CallbackConfig controls delivery of final session reports
type CallbackConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamtrap-lab")
	}

	// Environment variables
	v.SetEnvPrefix("SCAMTRAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "SCAMTRAP_REDIS_ENABLED")
	v.BindEnv("redis.host", "SCAMTRAP_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMTRAP_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMTRAP_REDIS_PASSWORD")
	v.BindEnv("auth.api_key", "SCAMTRAP_AUTH_API_KEY")
	v.BindEnv("analyzer.enable_whois", "SCAMTRAP_ANALYZER_ENABLE_WHOIS")
	v.BindEnv("analyzer.enable_web_search", "SCAMTRAP_ANALYZER_ENABLE_WEB_SEARCH")
	v.BindEnv("app.environment", "SCAMTRAP_APP_ENVIRONMENT")

	setDefaults(v)

	// Read config file; a missing file falls back to defaults and env
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scamtrap-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "scamtrap:")

	v.SetDefault("auth.api_key", "test-api-key-change-me")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "x-api-key"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests_per_minute", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("analyzer.enable_whois", false)
	v.SetDefault("analyzer.enable_web_search", false)
	v.SetDefault("analyzer.lookup_timeout", 5*time.Second)
	v.SetDefault("analyzer.rdap_base_url", "https://rdap.org")
	v.SetDefault("analyzer.search_base_url", "https://html.duckduckgo.com/html")
	v.SetDefault("analyzer.cache_ttl", time.Hour)

	v.SetDefault("detection.scam_confidence_threshold", 30)

	v.SetDefault("callback.enabled", false)
	v.SetDefault("callback.timeout", 5*time.Second)
}

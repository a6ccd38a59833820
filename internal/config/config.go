package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Course search modes.
const (
	CourseModeKeyword   = "keyword"
	CourseModeRetrieval = "retrieval"
)

// Vibe lexical fallbacks.
const (
	VibeFallbackOverlap = "overlap"
	VibeFallbackTfIdf   = "tfidf"
)

// Cache drivers.
const (
	CacheDriverNone  = "none"
	CacheDriverRedis = "redis"
)

// Config holds the recommender API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	CORS      CORSConfig      `yaml:"cors"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CORSConfig holds the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CatalogConfig points at an alternative catalog file. Empty uses the embedded catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig holds the sentence-embedding provider settings.
// An empty BaseURL disables the semantic strategy.
type EmbeddingConfig struct {
	Provider            string        `yaml:"provider"`
	APIKey              string        `yaml:"api_key"`
	BaseURL             string        `yaml:"base_url"`
	Model               string        `yaml:"model"`
	Dimensions          int           `yaml:"dimensions"`
	DocumentInstruction string        `yaml:"document_instruction"`
	QueryInstruction    string        `yaml:"query_instruction"`
	TimeoutSec          int           `yaml:"timeout_sec"`
	Breaker             BreakerConfig `yaml:"breaker"`
}

// Enabled reports whether an embedding provider is configured.
func (e EmbeddingConfig) Enabled() bool { return e.BaseURL != "" }

// Timeout returns the request timeout as a duration.
func (e EmbeddingConfig) Timeout() time.Duration { return time.Duration(e.TimeoutSec) * time.Second }

// BreakerConfig holds circuit breaker settings for the query embedder.
type BreakerConfig struct {
	FailureThreshold uint32 `yaml:"failure_threshold"`
	OpenTimeoutSec   int    `yaml:"open_timeout_sec"`
	MaxHalfOpen      uint32 `yaml:"max_half_open"`
}

// SynthesisConfig holds the chat model used to phrase answers in retrieval mode.
type SynthesisConfig struct {
	Enabled     bool    `yaml:"enabled"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, redis (default: none)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"` // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig selects retrieval behavior.
type SearchConfig struct {
	CourseMode   string `yaml:"course_mode"`   // keyword, retrieval (default: keyword)
	CourseK      int    `yaml:"course_k"`      // retrieval depth in retrieval mode
	VibeFallback string `yaml:"vibe_fallback"` // overlap, tfidf (default: overlap)
	WarmUp       bool   `yaml:"warm_up"`
	// BuildTimeoutSec bounds one index build, including document embedding.
	BuildTimeoutSec int `yaml:"build_timeout_sec"`
}

// BuildTimeout returns the index build timeout.
func (c SearchConfig) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes a YAML document, expands env variables, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Embedding.Breaker.FailureThreshold == 0 {
		c.Embedding.Breaker.FailureThreshold = 5
	}
	if c.Embedding.Breaker.OpenTimeoutSec <= 0 {
		c.Embedding.Breaker.OpenTimeoutSec = 30
	}
	if c.Embedding.Breaker.MaxHalfOpen == 0 {
		c.Embedding.Breaker.MaxHalfOpen = 1
	}

	if c.Synthesis.Model == "" {
		c.Synthesis.Model = "gpt-4o-mini"
	}
	if c.Synthesis.MaxTokens <= 0 {
		c.Synthesis.MaxTokens = 512
	}
	if c.Synthesis.TimeoutSec <= 0 {
		c.Synthesis.TimeoutSec = 20
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverNone
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	if c.Search.CourseMode == "" {
		c.Search.CourseMode = CourseModeKeyword
	}
	if c.Search.CourseK <= 0 {
		c.Search.CourseK = 3
	}
	if c.Search.VibeFallback == "" {
		c.Search.VibeFallback = VibeFallbackOverlap
	}
	if c.Search.BuildTimeoutSec <= 0 {
		c.Search.BuildTimeoutSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Search.CourseMode {
	case CourseModeKeyword, CourseModeRetrieval:
	default:
		return fmt.Errorf("search.course_mode must be %q or %q, got %q",
			CourseModeKeyword, CourseModeRetrieval, c.Search.CourseMode)
	}
	switch c.Search.VibeFallback {
	case VibeFallbackOverlap, VibeFallbackTfIdf:
	default:
		return fmt.Errorf("search.vibe_fallback must be %q or %q, got %q",
			VibeFallbackOverlap, VibeFallbackTfIdf, c.Search.VibeFallback)
	}
	switch c.Cache.Driver {
	case CacheDriverNone:
	case CacheDriverRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", CacheDriverRedis)
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q",
			CacheDriverNone, CacheDriverRedis, c.Cache.Driver)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Synthesis.Enabled && c.Synthesis.BaseURL == "" && c.Synthesis.APIKey == "" {
		return fmt.Errorf("synthesis.api_key or synthesis.base_url is required when synthesis is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

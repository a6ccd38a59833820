package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidCourseMode(t *testing.T) {
	cfg := validConfig()
	cfg.Search.CourseMode = "hybrid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown course mode")
	}

	expected := `search.course_mode must be "keyword" or "retrieval", got "hybrid"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_VibeFallbacks(t *testing.T) {
	for _, fb := range []string{VibeFallbackOverlap, VibeFallbackTfIdf} {
		t.Run("fallback="+fb, func(t *testing.T) {
			cfg := validConfig()
			cfg.Search.VibeFallback = fb
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for %q: %v", fb, err)
			}
		})
	}

	cfg := validConfig()
	cfg.Search.VibeFallback = "bm25"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown vibe fallback")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = CacheDriverRedis

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownCacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "memcached"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestValidate_SynthesisNeedsEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Synthesis.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for synthesis without credentials")
	}

	cfg.Synthesis.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected AllowedOrigins=[*], got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Embedding.Breaker.FailureThreshold != 5 {
		t.Errorf("expected FailureThreshold=5, got %d", cfg.Embedding.Breaker.FailureThreshold)
	}
	if cfg.Cache.Driver != CacheDriverNone {
		t.Errorf("expected cache driver none, got %q", cfg.Cache.Driver)
	}
	if cfg.Search.CourseMode != CourseModeKeyword {
		t.Errorf("expected course mode keyword, got %q", cfg.Search.CourseMode)
	}
	if cfg.Search.CourseK != 3 {
		t.Errorf("expected CourseK=3, got %d", cfg.Search.CourseK)
	}
	if cfg.Search.VibeFallback != VibeFallbackOverlap {
		t.Errorf("expected vibe fallback overlap, got %q", cfg.Search.VibeFallback)
	}
	if cfg.Search.BuildTimeout() != time.Minute {
		t.Errorf("expected 60s build timeout, got %s", cfg.Search.BuildTimeout())
	}
	if cfg.Embedding.Enabled() {
		t.Error("embedding must be disabled without base_url")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search: SearchConfig{CourseMode: CourseModeRetrieval, CourseK: 5, VibeFallback: VibeFallbackTfIdf},
		Cache:  CacheConfig{Driver: CacheDriverRedis, TTLSec: 3600},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.CourseMode != CourseModeRetrieval || cfg.Search.CourseK != 5 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.Cache.Driver != CacheDriverRedis || cfg.Cache.TTLSec != 3600 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RECOMMENDER_TEST_PORT", "9090")
	t.Setenv("RECOMMENDER_TEST_KEY", "")

	cfg, err := Parse([]byte(`
http:
  port: ${RECOMMENDER_TEST_PORT}
embedding:
  api_key: ${RECOMMENDER_TEST_KEY:-fallback-key}
  base_url: ${RECOMMENDER_TEST_UNSET_URL}
search:
  warm_up: true
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "fallback-key" {
		t.Errorf("expected default api key, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.BaseURL != "" {
		t.Errorf("expected empty base url, got %q", cfg.Embedding.BaseURL)
	}
	if !cfg.Search.WarmUp {
		t.Error("expected warm_up=true")
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}

	_, err = Parse([]byte("http: [1, 2"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoad_RepositoryConfigs(t *testing.T) {
	for _, env := range []string{"local", "dev", "prod"} {
		t.Run(env, func(t *testing.T) {
			if _, err := Load(env); err != nil {
				t.Fatalf("Load(%q): %v", env, err)
			}
		})
	}
}

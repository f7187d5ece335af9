package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(configs ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: configs,
	}
}

func TestTokenBucketExhaustsBurst(t *testing.T) {
	// 1 token per hour refill, burst of 3
	bucket := newTokenBucket(3, 1.0/3600)

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow())
}

func TestTokenBucketRefills(t *testing.T) {
	// 100 tokens per second, capacity 1
	bucket := newTokenBucket(1, 100)

	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, bucket.allow())
}

func TestLimiterEnforcesEndpointBurst(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/rewrite", Method: "POST", Limit: 30, Window: time.Hour, Burst: 2},
	))
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/rewrite", "POST")
	require.True(t, allowed)
	assert.Equal(t, 30, info.Limit)

	allowed, _ = limiter.Allow("1.2.3.4", "/rewrite", "POST")
	require.True(t, allowed)

	allowed, info = limiter.Allow("1.2.3.4", "/rewrite", "POST")
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter := NewLimiter(testConfig(
		EndpointConfig{Path: "/rewrite", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
	))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.1.1.1", "/rewrite", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.1.1.1", "/rewrite", "POST")
	require.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = limiter.Allow("2.2.2.2", "/rewrite", "POST")
	assert.True(t, allowed)
}

func TestLimiterWhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig(
		EndpointConfig{Path: "/rewrite", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
	)
	cfg.Whitelist["10.0.0.1"] = true
	cfg.Blacklist["10.0.0.2"] = true

	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/rewrite", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/rewrite", "POST")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantMatch bool
		wantLimit int
	}{
		{"rewrite exact", "/rewrite", "POST", true, 30},
		{"login exact", "/auth/login", "POST", true, 20},
		{"brief create exact", "/briefs", "POST", true, 60},
		{"outline field prefix", "/briefs/abc/outline/field", "PATCH", true, 120},
		{"outline remove prefix", "/briefs/abc/outline/remove", "POST", true, 120},
		{"brief delete prefix", "/briefs/abc", "DELETE", true, 60},
		{"read falls through", "/briefs", "GET", false, 0},
		{"health unlimited", "/health", "GET", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if !tt.wantMatch {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["1.1.1.1"])
	assert.True(t, cfg.Whitelist["2.2.2.2"])
}

func TestLoadConfigDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

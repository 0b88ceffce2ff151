package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg *Config) (*Limiter, *clock) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	c := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	l.now = c.now
	return l, c
}

func TestAllow_BurstThenRefill(t *testing.T) {
	l, c := newTestLimiter(DefaultConfig())
	defer l.Stop()

	for i := 0; i < 5; i++ {
		ok, info := l.Allow("1.2.3.4", "/auth/login", "POST")
		require.True(t, ok, "request %d", i)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	ok, info := l.Allow("1.2.3.4", "/auth/login", "POST")
	assert.False(t, ok)
	assert.Equal(t, 6*time.Second, info.RetryAfter)
	assert.True(t, info.ResetTime.After(c.now()))

	c.advance(6 * time.Second)
	ok, _ = l.Allow("1.2.3.4", "/auth/login", "POST")
	assert.True(t, ok)
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(DefaultConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("a", "/auth/signup", "POST")
		require.True(t, ok)
	}
	ok, _ := l.Allow("a", "/auth/signup", "POST")
	assert.False(t, ok)

	ok, _ = l.Allow("b", "/auth/signup", "POST")
	assert.True(t, ok)
}

func TestAllow_PrefixRuleSharesBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []Rule{{Method: "POST", Path: "/jobs/", Limit: 2, Window: time.Minute}}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	ok, _ := l.Allow("a", "/jobs/j1/apply", "POST")
	require.True(t, ok)
	ok, _ = l.Allow("a", "/jobs/j2/save", "POST")
	require.True(t, ok)
	ok, _ = l.Allow("a", "/jobs/j3/apply", "POST")
	assert.False(t, ok)
}

func TestAllow_AllowAndDenyLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Allow = map[string]bool{"trusted": true}
	cfg.Deny = map[string]bool{"banned": true}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 20; i++ {
		ok, _ := l.Allow("trusted", "/auth/login", "POST")
		require.True(t, ok)
	}
	ok, _ := l.Allow("banned", "/jobs", "GET")
	assert.False(t, ok)
}

func TestAllow_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 50; i++ {
		ok, _ := l.Allow("a", "/auth/signup", "POST")
		require.True(t, ok)
	}
}

func TestAllow_HealthIsUnlimited(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Default = Rule{Limit: 1, Window: time.Hour}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow("a", "/health", "GET")
		require.True(t, ok)
	}
	ok, _ := l.Allow("a", "/jobs", "GET")
	assert.True(t, ok)
	ok, _ = l.Allow("a", "/saved-jobs", "GET")
	assert.False(t, ok, "unmatched routes share the default bucket")
}

func TestSweep_DropsIdleBuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IdleAfter = time.Minute
	l, c := newTestLimiter(cfg)
	defer l.Stop()

	l.Allow("a", "/jobs", "GET")
	c.advance(30 * time.Second)
	l.Allow("b", "/jobs", "GET")
	c.advance(45 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 0, l.Sweep())
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, CleanupInterval: time.Hour})
	l.Stop()
	l.Stop()
}

func TestMatch(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name   string
		path   string
		method string
		want   string
	}{
		{"exact", "/auth/login", "POST", "/auth/login"},
		{"exact beats prefix", "/recruiter/jobs", "POST", "/recruiter/jobs"},
		{"longest prefix", "/recruiter/jobs/j1/close", "POST", "/recruiter/jobs/"},
		{"stream exact under jobs prefix", "/jobs/stream", "GET", "/jobs/stream"},
		{"method must match", "/auth/login", "GET", ""},
		{"no rule", "/dashboard/applier", "GET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.path, tt.method, rules)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}

	health := Match("/health", "GET", rules)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.Default.Limit)
	assert.Equal(t, 30*time.Second, cfg.Default.Window)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Allow)
	assert.Empty(t, cfg.Deny)
}

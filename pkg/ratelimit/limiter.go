package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasafe/tasafe-api/pkg/config"
)

// Identity classes for rate limiting purposes
type Identity int

const (
	// IdentityAnonymous is an unauthenticated caller, keyed by IP
	IdentityAnonymous Identity = iota
	// IdentityAuthenticated is a caller with a verified user id
	IdentityAuthenticated
)

// Rule is the limit applied to a single key within a window
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Result reports the outcome of a limiter check
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// slidingWindow counts hits in the current window and allows up to
// limit+burst of them. KEYS[1] = counter key, ARGV[1] = window seconds,
// ARGV[2] = max hits.
const slidingWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
if current > tonumber(ARGV[2]) then
  return {0, 0, ttl}
end
return {1, tonumber(ARGV[2]) - current, ttl}
`

// Limiter is a redis-backed request rate limiter
type Limiter struct {
	client redis.UniversalClient
	script *redis.Script
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a limiter backed by the given redis client
func NewLimiter(client redis.UniversalClient, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the limiter clock, for tests
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// Enabled reports whether limiting is switched on
func (l *Limiter) Enabled() bool {
	return l.cfg.Enabled
}

// RuleFor returns the rule applied to a path for the given identity class.
// Auth endpoints get a tighter budget since they are brute-force targets.
func (l *Limiter) RuleFor(path string, identity Identity) Rule {
	if strings.HasPrefix(path, "/api/v1/auth") {
		return Rule{Limit: 10, Burst: 2, Window: l.cfg.Window()}
	}

	if identity == IdentityAuthenticated {
		return Rule{Limit: l.cfg.DefaultLimit, Burst: l.cfg.DefaultBurst, Window: l.cfg.Window()}
	}
	return Rule{Limit: l.cfg.AnonymousLimit, Burst: l.cfg.AnonymousBurst, Window: l.cfg.Window()}
}

// Key builds the redis key for a caller within the current window
func (l *Limiter) Key(subject string, rule Rule) string {
	window := l.now().Unix() / int64(rule.Window.Seconds())
	return fmt.Sprintf("%s:%s:%d", l.cfg.RedisPrefix, subject, window)
}

// Allow records a hit for the subject and reports whether it is within budget
func (l *Limiter) Allow(ctx context.Context, subject string, rule Rule) (Result, error) {
	key := l.Key(subject, rule)
	maxHits := rule.Limit + rule.Burst

	values, err := l.script.Run(ctx, l.client, []string{key},
		int(rule.Window.Seconds()), maxHits).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("rate limit script returned %d values", len(values))
	}

	return Result{
		Allowed:    values[0] == 1,
		Remaining:  values[1],
		RetryAfter: time.Duration(values[2]) * time.Second,
	}, nil
}

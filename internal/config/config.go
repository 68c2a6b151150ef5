package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/version"
)

// maxPageSize is one Scryfall result page.
const maxPageSize = 175

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request budget, covers up to two Scryfall calls

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Scryfall
	ScryfallBaseURL      string        // ex: "https://api.scryfall.com"
	ScryfallUserAgent    string        // sent on every request
	ScryfallRateInterval time.Duration // minimum spacing between requests (0 = unlimited)
	ScryfallTimeout      time.Duration // HTTP client timeout
	ScryfallRetries      int           // retries on transport errors and 429

	DefaultPageSize int    // virtual page size when the client does not ask for one
	DefaultProfile  string // history profile when the client does not name one

	// Redis (optional, empty addr => in-memory history)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number, required when RedisAddr is set
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
	HistoryTTL            time.Duration // expiry of a profile's lists in Redis (0 = never)

	// Sessions
	SessionIdleTTL       time.Duration // drop search sessions unused for this long
	SessionSweepInterval time.Duration // how often to look for idle sessions

	// Rate limit (per client IP)
	RateLimitBurst        int
	RateLimitRefillPerMin int

	CORSOrigins  []string // allowed browser origins, "*" for any
	AllowedHosts []string // optional, restrict ops endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PREFIRE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("PREFIRE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("PREFIRE_REQUEST_TIMEOUT", 20*time.Second),

		// Logging
		LogLevel:  getenv("PREFIRE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PREFIRE_PRETTY_LOG", true),

		// Scryfall
		ScryfallBaseURL:      getenv("PREFIRE_SCRYFALL_BASE_URL", "https://api.scryfall.com"),
		ScryfallUserAgent:    getenv("PREFIRE_SCRYFALL_USER_AGENT", version.UserAgent()),
		ScryfallRateInterval: mustDuration("PREFIRE_SCRYFALL_RATE_INTERVAL", 100*time.Millisecond),
		ScryfallTimeout:      mustDuration("PREFIRE_SCRYFALL_TIMEOUT", 15*time.Second),
		ScryfallRetries:      getenvInt("PREFIRE_SCRYFALL_RETRIES", 3),

		DefaultPageSize: getenvInt("PREFIRE_PAGE_SIZE", 50),
		DefaultProfile:  getenv("PREFIRE_DEFAULT_PROFILE", "default"),

		// Redis settings
		RedisAddr:             getenv("PREFIRE_REDIS_ADDR", ""),
		RedisUser:             getenv("PREFIRE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("PREFIRE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("PREFIRE_REDIS_PASSWORD", ""),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
		HistoryTTL:            mustDuration("PREFIRE_HISTORY_TTL", 90*24*time.Hour),

		SessionIdleTTL:       mustDuration("PREFIRE_SESSION_IDLE_TTL", 30*time.Minute),
		SessionSweepInterval: mustDuration("PREFIRE_SESSION_SWEEP_INTERVAL", 5*time.Minute),

		RateLimitBurst:        getenvInt("PREFIRE_RATE_LIMIT_BURST", 30),
		RateLimitRefillPerMin: getenvInt("PREFIRE_RATE_LIMIT_REFILL_PER_MIN", 120),

		// Access restrictions
		CORSOrigins:  splitAndTrim(getenv("PREFIRE_CORS_ORIGINS", "*")),
		AllowedHosts: splitAndTrim(getenv("PREFIRE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("PREFIRE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("PREFIRE_TRUST_PROXY", false),
	}

	// History shares the Redis instance with other tenants: the DB must be explicit.
	if cfg.RedisAddr != "" {
		cfg.RedisDB = requireEnvInt("PREFIRE_REDIS_DB")
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether history is kept in Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) validate() error {
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("PREFIRE_REDIS_PASSWORD is required when PREFIRE_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > maxPageSize {
		return fmt.Errorf("PREFIRE_PAGE_SIZE must be between 1 and %d, got %d", maxPageSize, c.DefaultPageSize)
	}
	u, err := url.Parse(c.ScryfallBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PREFIRE_SCRYFALL_BASE_URL must be an absolute URL, got %q", c.ScryfallBaseURL)
	}
	if c.ScryfallRetries < 0 {
		return fmt.Errorf("PREFIRE_SCRYFALL_RETRIES must be >= 0, got %d", c.ScryfallRetries)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

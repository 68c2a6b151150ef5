package config

import (
	"testing"
	"time"
)

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", key: "TEST_INT", value: "42", expected: 42},
		{name: "invalid integer", key: "TEST_INT_INVALID", value: "not_a_number", wantPanic: true},
		{name: "missing variable", key: "TEST_INT_MISSING", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt(tt.key)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "*", want: []string{"*"}},
		{in: ` https://a.example , "https://b.example",, 'c' `, want: []string{"https://a.example", "https://b.example", "c"}},
	}

	for _, tt := range tests {
		got := splitAndTrim(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PREFIRE_REDIS_ADDR", "")
	t.Setenv("PREFIRE_PAGE_SIZE", "")
	t.Setenv("PREFIRE_SCRYFALL_BASE_URL", "")
	t.Setenv("PREFIRE_CORS_ORIGINS", "")
	t.Setenv("PREFIRE_LOG_LEVEL", "error")

	cfg := Load()

	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without an address")
	}
	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.ScryfallBaseURL != "https://api.scryfall.com" {
		t.Errorf("ScryfallBaseURL = %q", cfg.ScryfallBaseURL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.ScryfallUserAgent == "" {
		t.Error("ScryfallUserAgent should default to the build user agent")
	}
}

func TestLoadRedisRequiresDB(t *testing.T) {
	t.Setenv("PREFIRE_LOG_LEVEL", "error")
	t.Setenv("PREFIRE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PREFIRE_REDIS_DB", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without PREFIRE_REDIS_DB")
		}
	}()
	Load()
}

func TestLoadRedis(t *testing.T) {
	t.Setenv("PREFIRE_LOG_LEVEL", "error")
	t.Setenv("PREFIRE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PREFIRE_REDIS_DB", "4")
	t.Setenv("PREFIRE_REDIS_PASSWORD_REQUIRED", "false")

	cfg := Load()
	if !cfg.RedisEnabled() || cfg.RedisDB != 4 {
		t.Errorf("redis config = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DefaultPageSize: 50,
			ScryfallBaseURL: "https://api.scryfall.com",
			ScryfallRetries: 3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "page size zero", mutate: func(c *Config) { c.DefaultPageSize = 0 }, wantErr: true},
		{name: "page size above scryfall page", mutate: func(c *Config) { c.DefaultPageSize = 176 }, wantErr: true},
		{name: "page size equal to scryfall page", mutate: func(c *Config) { c.DefaultPageSize = 175 }},
		{name: "relative base url", mutate: func(c *Config) { c.ScryfallBaseURL = "/cards" }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.ScryfallRetries = -1 }, wantErr: true},
		{
			name: "password required but empty",
			mutate: func(c *Config) {
				c.RedisAddr = "localhost:6379"
				c.RedisPasswordRequired = true
			},
			wantErr: true,
		},
		{
			name:   "password required without redis",
			mutate: func(c *Config) { c.RedisPasswordRequired = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

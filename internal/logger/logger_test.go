package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   zapcore.Level
		wantOK bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"WARN", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"", zapcore.InfoLevel, false},
		{"loud", zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := wrap(zap.New(core)).With(String("session", "s1"))

	log.Warn("search failed", Int("page", 3), Error(errors.New("boom")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session"] != "s1" || fields["page"] != int64(3) || fields["error"] != "boom" {
		t.Errorf("fields = %v", fields)
	}
}

func TestNewHonorsLevel(t *testing.T) {
	log := New("error", false)
	if log == nil {
		t.Fatal("New() = nil")
	}
	impl := log.(*loggerImpl)
	if impl.base.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at error level")
	}
	if !impl.base.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error disabled at error level")
	}
}

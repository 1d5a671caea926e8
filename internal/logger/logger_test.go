package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitSetsLevel(t *testing.T) {
	Init("debug", "json")

	if !L.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level to be enabled")
	}

	Init("warn", "text")

	if L.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info level to be suppressed at warn")
	}
	if !L.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error level to be enabled at warn")
	}
}

func TestInitReplacesDefault(t *testing.T) {
	Init("info", "json")

	if slog.Default() != L {
		t.Error("expected Init to install L as the slog default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

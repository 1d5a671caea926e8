package db

import (
	"testing"

	"github.com/dojotek/chatbot/internal/config"
)

// Validation failures must be reported before any database connection is
// attempted, so these run with a nil logger and nil migration FS.
func TestRunMigrateRejectsBadInput(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "chatbot",
		Password: "secret",
		Database: "chatbot",
		SSLMode:  "disable",
	}

	tests := []struct {
		name    string
		command string
		args    []string
	}{
		{"unknown command", "sideways", nil},
		{"force without version", "force", nil},
		{"force with non-numeric version", "force", []string{"latest"}},
		{"down with stray argument", "down", []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RunMigrate(nil, cfg, nil, tt.command, tt.args); err == nil {
				t.Fatalf("RunMigrate(%q, %v) succeeded, want validation error", tt.command, tt.args)
			}
		})
	}
}

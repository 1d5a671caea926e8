package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultPGDatabase, cfg.Postgres.Database)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultExchange, cfg.RabbitMQ.Exchange)
	assert.Equal(t, DefaultHistoryWindow, cfg.History.Window)
	assert.Equal(t, 24*time.Hour, cfg.Auth.ExpiresIn())
	assert.Equal(t, 24*time.Hour, cfg.Sessions.SessionTTL())
	assert.Equal(t, 10*time.Minute, cfg.Dedup.Window())
	assert.Equal(t, 30*time.Second, cfg.RabbitMQ.RetryBackoff())
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
[server]
addr = ":9090"

[auth]
jwt_secret = "s3cret"
jwt_expires_in = "2h"

[sessions]
ttl = "48h"
sweep_cron = "*/10 * * * *"

[dedup]
ttl = "5m"

[history]
window = 4

[platforms.slack]
signing_secret = "slack-signing"
bot_token = "xoxb-token"

[platforms.lark]
verification_token = "lark-verify"
app_id = "cli_app"
app_secret = "lark-secret"

[admin]
email = "admin@example.com"
password = "hunter2secret"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.ExpiresIn())
	assert.Equal(t, 48*time.Hour, cfg.Sessions.SessionTTL())
	assert.Equal(t, "*/10 * * * *", cfg.Sessions.SweepCron)
	assert.Equal(t, 5*time.Minute, cfg.Dedup.Window())
	assert.Equal(t, 4, cfg.History.Window)
	assert.Equal(t, "slack-signing", cfg.Platforms.Slack.SigningSecret)
	assert.Equal(t, "xoxb-token", cfg.Platforms.Slack.BotToken)
	assert.Equal(t, "lark-verify", cfg.Platforms.Lark.VerificationToken)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)

	// Unset sections keep their defaults.
	assert.Equal(t, DefaultRabbitMQURL, cfg.RabbitMQ.URL)
	assert.Equal(t, DefaultRedisPrefix, cfg.Redis.KeyPrefix)
}

func TestLoadBadTOMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = [not toml"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseDurationFallbacks(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("garbage", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}

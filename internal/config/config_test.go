package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Fetch.PostLimit)
	assert.Equal(t, 50, cfg.Fetch.CommentLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.Fetch.MinInterval)
	assert.Equal(t, 100, cfg.Fetch.PageSize)
	assert.Equal(t, 15*time.Second, cfg.Reddit.Timeout)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.Schedule.Interval)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_REDDIT_SECRET", "s3cret")

	cfg, err := Load(writeConfig(t, `
reddit:
  client_id: abc
  client_secret: ${TEST_REDDIT_SECRET}
fetch:
  post_limit: 10
  comment_limit: 5
  min_interval: 2s
schedule:
  interval: 30m
  handles: [spez, kn0thing]
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Reddit.ClientID)
	assert.Equal(t, "s3cret", cfg.Reddit.ClientSecret)
	assert.Equal(t, 10, cfg.Fetch.PostLimit)
	assert.Equal(t, 5, cfg.Fetch.CommentLimit)
	assert.Equal(t, 2*time.Second, cfg.Fetch.MinInterval)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.Interval)
	assert.Equal(t, []string{"spez", "kn0thing"}, cfg.Schedule.Handles)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "fetch: [unterminated\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "personas", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=personas sslmode=disable", d.DSN())
}

func TestDefault(t *testing.T) {
	t.Setenv("REDDIT_USER_AGENT", "ua/2.0")

	cfg := Default()

	assert.Equal(t, "ua/2.0", cfg.Reddit.UserAgent)
	assert.Equal(t, 25, cfg.Fetch.PostLimit)
}

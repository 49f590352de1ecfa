package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(EnvSMTPUser, "")
	t.Setenv(EnvSMTPPass, "")
	t.Setenv(EnvSMTPHost, "")
	t.Setenv(EnvSMTPPort, "")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	ttl, err := cfg.TTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "santa.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
roster = "family.csv"

[smtp]
host = "mail.example.com"
port = 2525
subject = "Your draw, {name}"

[server]
addr = ":9090"
session_ttl = "30m"
`), 0o644))

	envFile := filepath.Join(dir, "secrets.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SANTA_SMTP_USER=santa@example.com\nSANTA_SMTP_PASS=hunter2\n"), 0o644))

	// godotenv does not override variables that are already set.
	t.Setenv(EnvSMTPHost, "")
	t.Setenv(EnvSMTPPort, "")
	t.Setenv(EnvSMTPUser, "")
	t.Setenv(EnvSMTPPass, "")
	require.NoError(t, os.Unsetenv(EnvSMTPUser))
	require.NoError(t, os.Unsetenv(EnvSMTPPass))

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, "family.csv", cfg.Roster)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "Your draw, {name}", cfg.SMTP.Subject)
	assert.Equal(t, "santa@example.com", cfg.SMTP.Username)
	assert.Equal(t, "hunter2", cfg.SMTP.Password)
	assert.Equal(t, "santa@example.com", cfg.SMTP.From)

	ttl, err := cfg.TTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"), "")
	assert.Error(t, err)

	_, err = Load("", filepath.Join(dir, "missing.env"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[server]\nsession_ttl = \"soon\"\n"), 0o644))
	_, err = Load(bad, "")
	assert.Error(t, err)
}

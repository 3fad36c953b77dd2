package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kentchat/internal/app"
	"kentchat/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, `
home: `+home+`
relay: https://relay.example
rsa_bits: 3072
log_level: debug
timeout: 3s
`)

	cfg, err := app.LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "https://relay.example", cfg.RelayURL)
	assert.Equal(t, 3072, cfg.RSABits)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	// Unset keys keep their defaults.
	def := app.DefaultConfig()
	assert.Equal(t, def.ListenAddr, cfg.ListenAddr)
	assert.Equal(t, def.QueueLimit, cfg.QueueLimit)
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := app.LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, app.DefaultConfig(), cfg)

	_, err = app.LoadConfig(path, true)
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":    "relay: [unterminated",
		"small key":   "rsa_bits: 1024",
		"bad level":   "log_level: loud",
		"bad timeout": "timeout: soon",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := app.LoadConfig(writeConfig(t, body), true)
			require.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, app.SetupLogging(&buf, "info"))

	app.Log("CMDS").Infof("hello %s", "logs")
	app.Log("CMDS").Debugf("hidden")
	assert.Contains(t, buf.String(), "CMDS: hello logs")
	assert.NotContains(t, buf.String(), "hidden")

	app.SetLogLevel("CMDS", "debug")
	app.Log("CMDS").Debugf("now visible")
	assert.Contains(t, buf.String(), "now visible")

	assert.Contains(t, app.SubsystemIDs(), "RLAY")
	require.Error(t, app.SetupLogging(&buf, "loud"))
}

func TestNew(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.Home = filepath.Join(t.TempDir(), "state")
	cfg.RelayURL = "http://relay.test"

	a, err := app.New(cfg)
	require.NoError(t, err)
	require.DirExists(t, cfg.Home)

	_, err = a.Username()
	require.Error(t, err)

	require.NoError(t, a.Accounts.SaveAccountProfile(domain.AccountProfile{
		ServerURL: "http://relay.test",
		Username:  "alice",
	}))
	me, err := a.Username()
	require.NoError(t, err)
	assert.Equal(t, domain.Username("alice"), me)

	cfg.RSABits = 512
	_, err = app.New(cfg)
	require.Error(t, err)
}

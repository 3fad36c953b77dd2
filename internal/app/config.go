package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btclog"
	"gopkg.in/yaml.v3"

	"kentchat/internal/crypto"
)

const (
	defaultHomeDir    = ".kentchat"
	defaultConfigFile = "config.yaml"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string        `yaml:"home"`        // state directory, e.g. $HOME/.kentchat
	RelayURL   string        `yaml:"relay"`       // relay base URL, e.g. http://127.0.0.1:8080
	ListenAddr string        `yaml:"listen"`      // relay server listen address
	RSABits    int           `yaml:"rsa_bits"`    // modulus size for new identities
	LogLevel   string        `yaml:"log_level"`   // trace, debug, info, warn, error, critical, off
	Timeout    time.Duration `yaml:"timeout"`     // per-request timeout for relay calls
	QueueLimit int           `yaml:"queue_limit"` // relay server per-user queue cap

	HTTP *http.Client `yaml:"-"` // optional; defaults to a client with Timeout
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	home := defaultHomeDir
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, defaultHomeDir)
	}
	return Config{
		Home:       home,
		RelayURL:   "http://127.0.0.1:8080",
		ListenAddr: ":8080",
		RSABits:    crypto.DefaultRSABits,
		LogLevel:   "info",
		Timeout:    15 * time.Second,
		QueueLimit: 1000,
	}
}

// DefaultConfigPath is where LoadConfig looks when given no explicit path.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, defaultConfigFile)
}

// LoadConfig overlays the YAML file at path onto DefaultConfig. A missing
// file is not an error unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("config: home must be set")
	}
	if c.RSABits < crypto.MinRSABits {
		return fmt.Errorf("config: rsa_bits %d is below the minimum %d", c.RSABits, crypto.MinRSABits)
	}
	if _, ok := btclog.LevelFromString(c.LogLevel); !ok {
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	return nil
}

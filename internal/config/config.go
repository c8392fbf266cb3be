package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultAPIURL = "http://localhost:8000/api"

type Config struct {
	// APIURL is the backend base URL, including the /api prefix.
	APIURL string `json:"apiUrl,omitempty"`

	// Timeout is an optional whole-request timeout (Go duration, e.g. "30s").
	// Empty keeps transport defaults.
	Timeout string `json:"timeout,omitempty"`

	// LogFile receives structured logs from the interactive dashboard.
	LogFile string `json:"logFile,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `json:"theme,omitempty"`
	// Glyphs is unicode|ascii.
	Glyphs string `json:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.vence).
	if v := strings.TrimSpace(os.Getenv("VENCE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vence"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file. A missing file yields an empty config.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// APIURLOr returns the configured API URL, or def when unset.
func (c *Config) APIURLOr(def string) string {
	if c == nil || strings.TrimSpace(c.APIURL) == "" {
		return def
	}
	return strings.TrimSpace(c.APIURL)
}

func (c *Config) RequestTimeout() (time.Duration, error) {
	if c == nil || strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("config: invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: negative timeout %q", c.Timeout)
	}
	return d, nil
}

func (c *Config) TUITheme() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.TUI.Theme))
}

func (c *Config) TUIGlyphs() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
}

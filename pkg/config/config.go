package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	API     APIConfig      `json:"api"`
	UI      UIConfig       `json:"ui"`
	Log     LogConfig      `json:"log"`
	Clients []ClientConfig `json:"clients"`
}

type APIConfig struct {
	BaseURL        string `json:"base_url" env:"RAMICHAT_API_BASE_URL"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"RAMICHAT_API_TIMEOUT_SECONDS"`
}

type UIConfig struct {
	Language string `json:"language" env:"RAMICHAT_UI_LANGUAGE"`
}

type LogConfig struct {
	Level string `json:"level" env:"RAMICHAT_LOG_LEVEL"`
	File  string `json:"file" env:"RAMICHAT_LOG_FILE"`
}

// ClientConfig is one entry in the client selector. The roster is host
// environment input; the service keys its knowledge bases on ID.
type ClientConfig struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// DisplayName derives a selector label from the ID when no explicit name
// is configured: underscores become spaces, words are title-cased.
func (c ClientConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	words := strings.Split(strings.ReplaceAll(c.ID, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		UI: UIConfig{
			Language: "en",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.ramichat/ramichat.log",
		},
		Clients: []ClientConfig{
			{ID: "all", Name: "All Clients"},
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Support full config from env var (for containers / CI)
	if cfgJSON := os.Getenv("RAMICHAT_CONFIG_JSON"); cfgJSON != "" {
		if err := json.Unmarshal([]byte(cfgJSON), cfg); err != nil {
			return nil, fmt.Errorf("parsing RAMICHAT_CONFIG_JSON: %w", err)
		}
		if err := env.Parse(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LogFile returns the configured log file with ~ expanded.
func (c *Config) LogFile() string {
	return expandHome(c.Log.File)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}

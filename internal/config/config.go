// Package config loads the CLI defaults from an optional yaml file, with
// environment variables taking precedence over both file and built-ins.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries the tool-wide defaults a user would otherwise repeat on
// every invocation. Flags still override everything here.
type Config struct {
	// IdentityPath is the default private identity file for decode.
	IdentityPath string `yaml:"identityPath"`
	// RecipientsPath is the default recipients file for encode.
	RecipientsPath string `yaml:"recipientsPath"`
	// CoverPath is the default cover text file for encode.
	CoverPath string `yaml:"coverPath"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

func Default() Config {
	return Config{LogLevel: "warn"}
}

// LoadFromPath reads the config from configPath, or from the first existing
// default location when configPath is empty. A missing or unreadable file
// falls back to defaults; env overrides apply either way.
func LoadFromPath(configPath string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, home+"/.config/stegano/config.yaml")
		}
		candidates = append(candidates, "stegano.yaml")
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		Merge(&cfg, parsed)
		ApplyEnvOverrides(&cfg)
		return cfg
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src Config) {
	if src.IdentityPath != "" {
		dst.IdentityPath = src.IdentityPath
	}
	if src.RecipientsPath != "" {
		dst.RecipientsPath = src.RecipientsPath
	}
	if src.CoverPath != "" {
		dst.CoverPath = src.CoverPath
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("STEGANO_IDENTITY")); v != "" {
		cfg.IdentityPath = v
	}
	if v := strings.TrimSpace(os.Getenv("STEGANO_RECIPIENTS")); v != "" {
		cfg.RecipientsPath = v
	}
	if v := strings.TrimSpace(os.Getenv("STEGANO_COVER")); v != "" {
		cfg.CoverPath = v
	}
	if v := strings.TrimSpace(os.Getenv("STEGANO_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

// Package config resolves the process-wide configuration once at startup.
// Values come from an optional JSON config file (with ${VAR} expansion)
// overridden by DIAGBOT_* environment variables; components receive the
// resolved values explicitly, never ambient globals.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the root configuration.
type Config struct {
	General GeneralConfig `json:"general"`
	Discord DiscordConfig `json:"discord"`
	Proxy   ProxyConfig   `json:"proxy"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel" env:"LOG_LEVEL"`
}

type DiscordConfig struct {
	// Token is the bot credential. Required to run the gateway; a missing
	// token aborts startup.
	Token  string `json:"token" env:"TOKEN"`
	Prefix string `json:"prefix" env:"PREFIX"`
	// PasteURL is the public base URL of the rendering proxy. Empty
	// disables attachment-view replies.
	PasteURL string `json:"pasteUrl" env:"PASTE_URL"`
}

type ProxyConfig struct {
	Listen string `json:"listen" env:"PROXY_LISTEN"`
	// OriginBase is where the proxy fetches raw attachment bytes.
	OriginBase string `json:"originBase" env:"PROXY_ORIGIN_BASE"`
}

// DefaultConfigDir returns the default config directory (~/.diagbot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".diagbot"
	}
	return filepath.Join(home, ".diagbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load resolves configuration: defaults, then the config file if it
// exists, then environment overrides. The file is optional; a present but
// unreadable or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		data = []byte(ExpandEnvVars(string(data)))
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only operation
	default:
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "DIAGBOT_"}); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

// Save writes the config as JSON, creating the directory if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks structural validity. Token presence is not checked
// here: the proxy runs without one, the gateway enforces it at startup.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Discord.Prefix == "" {
		errs = append(errs, "discord.prefix must not be empty")
	}
	if cfg.Discord.PasteURL != "" {
		u, err := url.Parse(cfg.Discord.PasteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "discord.pasteUrl must be an absolute URL")
		}
	}

	if cfg.Proxy.Listen == "" {
		errs = append(errs, "proxy.listen must not be empty")
	}
	if cfg.Proxy.OriginBase == "" {
		errs = append(errs, "proxy.originBase must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Sanitize returns a copy safe for printing: credentials are redacted.
func Sanitize(cfg *Config) *Config {
	out := *cfg
	if out.Discord.Token != "" {
		out.Discord.Token = "***"
	}
	return &out
}

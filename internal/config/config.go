// Package config loads the application configuration from defaults, an
// optional YAML file, RECALLBOX_* environment variables, and command-line
// flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "RECALLBOX_"

// Config is the full application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `koanf:"listen" validate:"required,hostname_port"`

	// DBPath is the sqlite database file.
	DBPath string `koanf:"db_path" validate:"required"`

	// Timezone is the default IANA zone used for day-bucketed stats when a
	// request does not supply one.
	Timezone string `koanf:"timezone" validate:"required,timezone"`

	// Sources are deck sources (local directories or git URLs) reconciled
	// by the importer.
	Sources []string `koanf:"sources" validate:"dive,required"`

	// ReposDir is where git deck sources are checked out.
	ReposDir string `koanf:"repos_dir" validate:"required"`

	// LogLevel is the minimum slog level.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   "127.0.0.1:8080",
		DBPath:   "recallbox.db",
		Timezone: "UTC",
		ReposDir: "repos",
		LogLevel: "info",
	}
}

// Load builds the configuration. path may be empty to skip the file layer;
// flags may be nil to skip the flag layer.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is prepended to every environment variable this service reads,
// e.g. ESSENTIA_PORT, ESSENTIA_LMS.
const EnvPrefix = "ESSENTIA_"

func defaultConfig() *Config {
	return &Config{
		Port: 11002,
		Host: "0.0.0.0",
	}
}

// Load reads configuration from path, layered over built-in defaults and
// overridden by ESSENTIA_-prefixed environment variables, then validates
// the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}

	envProvider := env.Provider(EnvPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment overrides: %w", err)
	}

	normalizeIgnoreGenre(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeIgnoreGenre rewrites a bare "*" string into ["*"] so Config's
// []string field unmarshals regardless of which JSON shape the config file
// used for ignoregenre.
func normalizeIgnoreGenre(k *koanf.Koanf) {
	val := k.Get("ignoregenre")
	if s, ok := val.(string); ok && s != "" {
		_ = k.Set("ignoregenre", []string{s})
	}
}

// envTransformFunc maps ESSENTIA_<KEY> environment variables to koanf's
// dotted config paths, lower-cased.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ToLower(key)
}

// Package config loads settings in layers: defaults, then an optional
// yaml file, then PRUVI_-prefixed environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
)

const envPrefix = "PRUVI_"

// Config holds all runtime settings.
type Config struct {
	Listen string `koanf:"listen"` // HTTP listen address
	DB     string `koanf:"db"`     // sqlite database path
	Repos  string `koanf:"repos"`  // checkout dir for git question packs
	Count  int    `koanf:"count"`  // default session size
	Queue  int    `koanf:"queue"`  // prep queue capacity
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Listen: ":8080",
		DB:     "pruvi.db",
		Repos:  "repos",
		Count:  5,
		Queue:  64,
	}
}

// Load layers the optional yaml file at path, the environment, and the
// given flag set over the defaults. A missing file is an error only
// when its path was set explicitly.
func Load(path string, explicit bool, flags *flag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

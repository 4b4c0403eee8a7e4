// Package config loads rustnav's configuration via viper+mapstructure,
// adapted from the teacher's internal/config/config.go: same
// TOML-file-plus-environment-overrides pattern, same AutomaticEnv
// wiring, with the Voyage-AI/daemon-specific sections replaced by
// SPEC_FULL.md §10's cache/local/remote/search sections. No API-key
// configuration is needed — crates.io and docs.rs are consulted
// anonymously.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CacheConfig points at the on-disk DiskCache root (SPEC_FULL.md §4.2).
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// LocalConfig configures LocalSource's view of the workspace it's run
// from (SPEC_FULL.md §4.1).
type LocalConfig struct {
	ProjectRoot string `mapstructure:"project_root"`
	CanRebuild  bool   `mapstructure:"can_rebuild"`
}

// RemoteConfig overrides RemoteSource's registry/docs-host endpoints,
// mainly useful for pointing at a private registry mirror in tests.
type RemoteConfig struct {
	RegistryBase string `mapstructure:"registry_base"`
	DocsBase     string `mapstructure:"docs_base"`
}

// SearchConfig tunes BM25 scoring and result-set shaping (DESIGN.md's
// Open Question resolutions: k1/b default to spec.md's literal
// values, but remain overridable here for experimentation, matching
// the teacher's general pattern of exposing tunables rather than
// hardcoding them).
type SearchConfig struct {
	DropOffFraction float64 `mapstructure:"drop_off_fraction"`
	K1              float64 `mapstructure:"k1"`
	B               float64 `mapstructure:"b"`
	MaxResults      int     `mapstructure:"max_results"`
}

type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Local  LocalConfig  `mapstructure:"local"`
	Remote RemoteConfig `mapstructure:"remote"`
	Search SearchConfig `mapstructure:"search"`
}

// cacheBase returns the base cache directory for rustnav: XDG_CACHE_HOME,
// then ~/.cache, then /tmp/rustnav as fallback — grounded on the
// teacher's own cacheBase() fallback chain.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "rustnav")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "rustnav")
	}
	return filepath.Join(os.TempDir(), "rustnav")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "rustnav"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "rustnav"))
	}

	viper.SetDefault("cache.dir", cacheBase())
	viper.SetDefault("local.project_root", ".")
	viper.SetDefault("local.can_rebuild", true)
	viper.SetDefault("remote.registry_base", "https://crates.io/api/v1/crates")
	viper.SetDefault("remote.docs_base", "https://docs.rs/crate")
	viper.SetDefault("search.drop_off_fraction", 0.3)
	viper.SetDefault("search.k1", 1.2)
	viper.SetDefault("search.b", 0.75)
	viper.SetDefault("search.max_results", 50)

	viper.SetEnvPrefix("RUSTNAV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

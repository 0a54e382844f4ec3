package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PROCKNOW"

// Defaults
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultBackend       = BackendJSON
	DefaultWeakThreshold = 0.75
	DefaultWrongLogSize  = 5
	DefaultServerHost    = "127.0.0.1"
	DefaultServerPort    = 8737
)

var configKeys = []string{
	"log.level",
	"log.format",
	"log.file",
	"store.backend",
	"store.dir",
	"store.dsn",
	"session.weak_threshold",
	"session.wrong_log_size",
	"decks.dir",
	"server.host",
	"server.port",
}

// Load reads configuration from a .env file in the working directory, an
// optional YAML file and PROCKNOW_* environment variables, in increasing
// order of precedence. When configPath is empty, config.yaml is looked up
// in the working directory and in the default data directory.
// Returns a populated Config or an error if loading or validation fails.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	home := DefaultDataDir()
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	v.SetDefault("store.backend", DefaultBackend)
	v.SetDefault("store.dir", home)
	v.SetDefault("store.dsn", "")
	v.SetDefault("session.weak_threshold", DefaultWeakThreshold)
	v.SetDefault("session.wrong_log_size", DefaultWrongLogSize)
	v.SetDefault("decks.dir", "")
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		envVar := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	cfg.Decks.Dir = expandHome(cfg.Decks.Dir)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultDataDir is $HOME/.procknow, or .procknow when no home directory
// can be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".procknow"
	}
	return filepath.Join(home, ".procknow")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

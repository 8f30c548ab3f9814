// Package config loads server configuration from three layers with
// increasing precedence: built-in per-environment defaults, an optional YAML
// config file, and environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Environment               string        `koanf:"environment"`
	Hostname                  string        `koanf:"-"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	FrontendURL               string        `koanf:"frontend_url"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	CatalogBaseURL            string        `koanf:"catalog_base_url"`
	CatalogTimeout            time.Duration `koanf:"catalog_timeout"`
}

const (
	environmentENV   = "ENVIRONMENT"
	configPathENV    = "CONFIG_PATH"
	configFileEnvKey = "config_path"
)

// configPaths lists where the config file is searched, in order. The
// CONFIG_PATH environment variable overrides the search entirely.
var configPaths = []string{
	"config.yaml",
	"/etc/watchlog/config.yaml",
}

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseMaxRetries:        5,
		Hostname:                  hostname,
		ServerPort:                7480,
		CatalogTimeout:            10 * time.Second,
	}

	environment := os.Getenv(environmentENV)
	switch environment {
	case "development", "":
		environment = "development"
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}
	cfg.Environment = environment

	k := koanf.New(".")

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider("WATCHLOG_", ".", envTransform), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	// The file and env layers overwrite only the keys they set; everything
	// else keeps its per-environment default.
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(configPathENV); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransform maps WATCHLOG_SERVER_PORT to server_port and so on. Keys that
// would collide with the config file's own path setting are skipped.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "WATCHLOG_"))
	if key == configFileEnvKey {
		return ""
	}
	return key
}

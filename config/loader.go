package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ProjectConfigFile is the name of the project-level config file.
const ProjectConfigFile = "graphsync.yaml"

// Environment variable names, matching the deployment convention.
const (
	EnvEndpoint = "DB_BASE_URI"
	EnvUsername = "DB_USERNAME"
	EnvPassword = "DB_PASSWORD"
	EnvTimeout  = "TIMEOUT"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
//  1. Defaults
//  2. Config file (explicit path, or graphsync.yaml in the working
//     directory when present)
//  3. Environment variables (a .env file is honored when present)
//
// Callers that talk to the store validate the result with Config.Validate;
// validation-only commands run without an endpoint.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(ProjectConfigFile); err == nil {
			path = ProjectConfigFile
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config file", slog.String("path", path))
		config.Merge(fileConfig)
	}

	if err := godotenv.Load(); err == nil {
		l.logger.Debug("loaded .env file")
	}
	l.applyEnv(config)
	return config, nil
}

// applyEnv overlays environment variables onto the config.
func (l *Loader) applyEnv(config *Config) {
	if v := os.Getenv(EnvEndpoint); v != "" {
		config.Store.Endpoint = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		config.Store.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		config.Store.Password = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := parseTimeout(v); err == nil {
			config.Store.Timeout = d
		} else {
			l.logger.Warn("ignoring invalid TIMEOUT", slog.String("value", v))
		}
	}
}

// parseTimeout accepts a Go duration ("20s") or a number of seconds
// ("20.0"), the format used by earlier deployments.
func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

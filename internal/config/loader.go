package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load reads configuration from defaults, the first config file found and
// the environment, then validates it.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	return load(path)
}

// LoadFrom is like Load but reads the YAML file at path, which must exist.
func LoadFrom(path string) (*Config, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &InvalidConfigError{
				Path:    path,
				Message: fmt.Sprintf("YAML parse error: %v", err),
				Hint:    "Check the file for indentation or type errors",
			}
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    sourceName(path),
			Message: fmt.Sprintf("cannot decode configuration: %v", err),
			Hint:    "Durations use Go syntax (e.g. 30s, 5m); numbers must be integers",
		}
	}

	if err := cfg.Validate(); err != nil {
		var invalid *InvalidConfigError
		if errors.As(err, &invalid) {
			invalid.Path = sourceName(path)
		}
		return nil, err
	}

	return cfg, nil
}

func sourceName(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}

// findConfigFile returns the config file to load, or "" when none exists.
// An explicit CONFIG_PATH that does not exist is an error.
func findConfigFile() (string, error) {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if err := checkReadable(envPath); err != nil {
			return "", err
		}
		return envPath, nil
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return &ConfigNotFoundError{
				Path: path,
				Hint: fmt.Sprintf("Create the file or unset %s to use defaults", ConfigPathEnvVar),
			}
		case os.IsPermission(err):
			return &PermissionError{
				Path: path,
				Op:   "read",
				Fix:  getReadPermissionFix(path),
			}
		default:
			return fmt.Errorf("failed to access config: %w", err)
		}
	}
	return f.Close()
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default:
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"port": "server.port",
	"host": "server.host",

	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"catalog_path": "data.catalog_path",
	"build_dir":    "data.build_dir",
	"index_path":   "data.index_path",

	"recommend_limit":     "recommend.limit",
	"recommend_policy":    "recommend.policy",
	"recommend_tokenizer": "recommend.tokenizer",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"history_enabled":   "history.enabled",
	"history_path":      "history.path",
	"history_retention": "history.retention",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path.
// Unknown variables map to "" and are skipped.
//
// Examples:
//   - PORT -> server.port
//   - CATALOG_PATH -> data.catalog_path
//   - DISABLE_RATE_LIMIT -> security.rate_limit_disabled
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

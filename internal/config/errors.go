package config

import "fmt"

// PermissionError represents a permission-related config error
type PermissionError struct {
	Path string
	Op   string // "read"
	Fix  string // Suggested fix command
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (cannot %s config): %s\n💡 Fix: %s", e.Op, e.Path, e.Fix)
}

// ConfigNotFoundError represents a missing config file that was asked for explicitly.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\n\n💡 %s", e.Path, e.Hint)
}

// InvalidConfigError represents malformed or out-of-range config
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
	Fields  []FieldError
}

// FieldError describes one rejected setting.
type FieldError struct {
	Key     string // koanf path, e.g. server.port
	Message string
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s\n", e.Path)
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	for _, f := range e.Fields {
		msg += fmt.Sprintf("  %s: %s\n", f.Key, f.Message)
	}
	if e.Hint != "" {
		msg += "💡 " + e.Hint
	}
	return msg
}

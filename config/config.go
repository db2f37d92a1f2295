package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"palette/workspace"
)

// Config represents the palette configuration
type Config struct {
	SuggestionLimit    int      `json:"suggestion_limit"`     // Maximum suggestions shown in the command bar
	SuggestDebounceMs  int      `json:"suggest_debounce_ms"`  // Debounce interval for suggestion lookups
	GrepDebounceMs     int      `json:"grep_debounce_ms"`     // Debounce interval for live grep previews
	GrepPreviewLimit   int      `json:"grep_preview_limit"`   // Maximum live grep preview entries
	ShellTimeoutSecs   int      `json:"shell_timeout_secs"`   // Default timeout for shell commands
	ExtraNoiseDirs     []string `json:"extra_noise_dirs"`     // Additional directories excluded from listings
	MaxIndexedFileSize int64    `json:"max_indexed_file_size"` // Maximum file size to index in bytes
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		SuggestionLimit:    8,
		SuggestDebounceMs:  150,
		GrepDebounceMs:     300,
		GrepPreviewLimit:   10,
		ShellTimeoutSecs:   60,
		MaxIndexedFileSize: 500 * 1024, // 500 KB default
	}
}

// LoadConfig loads configuration from global and local sources
func LoadConfig(workspacePath string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Load global config
	globalCfg, err := loadGlobalConfig()
	if err == nil {
		mergeCfg(cfg, globalCfg)
	}

	// Load local config (takes precedence)
	localCfg, err := loadLocalConfig(workspacePath)
	if err == nil {
		mergeCfg(cfg, localCfg)
	}

	return cfg, nil
}

// configKeys lists every key reachable through Get and Set.
var configKeys = []string{
	"suggestion_limit",
	"suggest_debounce_ms",
	"grep_debounce_ms",
	"grep_preview_limit",
	"shell_timeout_secs",
	"max_indexed_file_size",
	"extra_noise_dirs",
}

// Keys returns the configuration keys reachable through Get and Set.
func Keys() []string {
	return append([]string(nil), configKeys...)
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(configKeys, ", "))
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "suggestion_limit":
		return c.SuggestionLimit, nil
	case "suggest_debounce_ms":
		return c.SuggestDebounceMs, nil
	case "grep_debounce_ms":
		return c.GrepDebounceMs, nil
	case "grep_preview_limit":
		return c.GrepPreviewLimit, nil
	case "shell_timeout_secs":
		return c.ShellTimeoutSecs, nil
	case "max_indexed_file_size":
		return c.MaxIndexedFileSize, nil
	case "extra_noise_dirs":
		return strings.Join(c.ExtraNoiseDirs, ","), nil
	default:
		return nil, unknownKeyError(key)
	}
}

// Set updates a configuration value by key
func (c *Config) Set(key string, value interface{}) error {
	// Convert value to string (CLI input is always string)
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string value for %s", key)
	}

	switch key {
	case "suggestion_limit", "suggest_debounce_ms", "grep_debounce_ms", "grep_preview_limit", "shell_timeout_secs":
		val, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("expected numeric value for %s, got: %s", key, str)
		}
		if val <= 0 {
			return fmt.Errorf("expected positive value for %s, got: %d", key, val)
		}
		switch key {
		case "suggestion_limit":
			c.SuggestionLimit = val
		case "suggest_debounce_ms":
			c.SuggestDebounceMs = val
		case "grep_debounce_ms":
			c.GrepDebounceMs = val
		case "grep_preview_limit":
			c.GrepPreviewLimit = val
		case "shell_timeout_secs":
			c.ShellTimeoutSecs = val
		}
		return nil
	case "max_indexed_file_size":
		val, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return fmt.Errorf("expected numeric value for max_indexed_file_size, got: %s", str)
		}
		c.MaxIndexedFileSize = val
		return nil
	case "extra_noise_dirs":
		// Comma-separated directory names; an empty value clears the list.
		c.ExtraNoiseDirs = nil
		for _, name := range strings.Split(str, ",") {
			name = strings.TrimSuffix(strings.TrimSpace(name), "/")
			if name != "" {
				c.ExtraNoiseDirs = append(c.ExtraNoiseDirs, name)
			}
		}
		return nil
	default:
		return unknownKeyError(key)
	}
}

// loadGlobalConfig loads configuration from ~/.palette/config.json
func loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, workspace.StateDirName, "config.json")
	return loadConfigFromFile(configPath)
}

// loadLocalConfig loads configuration from <workspace>/.palette/config.json
func loadLocalConfig(workspacePath string) (*Config, error) {
	configPath := filepath.Join(workspace.StateDir(workspacePath), "config.json")
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveLocalConfig saves configuration to <workspace>/.palette/config.json
func SaveLocalConfig(workspacePath string, cfg *Config) error {
	if err := workspace.EnsureStateDir(workspacePath); err != nil {
		return err
	}
	configPath := filepath.Join(workspace.StateDir(workspacePath), "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// mergeCfg merges source config into destination config
func mergeCfg(dst, src *Config) {
	if src.SuggestionLimit > 0 {
		dst.SuggestionLimit = src.SuggestionLimit
	}
	if src.SuggestDebounceMs > 0 {
		dst.SuggestDebounceMs = src.SuggestDebounceMs
	}
	if src.GrepDebounceMs > 0 {
		dst.GrepDebounceMs = src.GrepDebounceMs
	}
	if src.GrepPreviewLimit > 0 {
		dst.GrepPreviewLimit = src.GrepPreviewLimit
	}
	if src.ShellTimeoutSecs > 0 {
		dst.ShellTimeoutSecs = src.ShellTimeoutSecs
	}
	if src.MaxIndexedFileSize > 0 {
		dst.MaxIndexedFileSize = src.MaxIndexedFileSize
	}
	if len(src.ExtraNoiseDirs) > 0 {
		dst.ExtraNoiseDirs = append(dst.ExtraNoiseDirs, src.ExtraNoiseDirs...)
	}
}

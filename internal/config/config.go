/*
Package config handles loading and saving bapanel configuration.

Configuration is stored in ~/.bapanel.json. Every key has a default, so
the file is optional; values can also come from BAPANEL_* environment
variables (nested keys joined with "_", e.g. BAPANEL_WEIGHTS_CATEGORY)
and from the --db command-line flag.

Schema:
  {
    "database": "~/.bapanel/tools.json",
    "wrapperDir": "~/.bapanel/wrappers",
    "relatedLimit": 5,
    "pageSize": 20,
    "commandTimeoutSeconds": 30,
    "historyFile": "~/.bapanel/history",
    "weights": {"category": 1.0, "description": 2.0, "dependency": 0.5}
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bapanel/bapanel/internal/related"
)

// Config represents the root configuration structure.
type Config struct {
	// Database is the JSON tool database path.
	Database string `json:"database" mapstructure:"database"`

	// WrapperDir is where generated wrapper scripts are written.
	WrapperDir string `json:"wrapperDir" mapstructure:"wrapperDir"`

	// RelatedLimit caps the related tools shown per tool.
	RelatedLimit int `json:"relatedLimit" mapstructure:"relatedLimit"`

	// PageSize is the number of rows per page in listings.
	PageSize int `json:"pageSize" mapstructure:"pageSize"`

	// CommandTimeoutSeconds bounds help commands and pacman queries.
	CommandTimeoutSeconds int `json:"commandTimeoutSeconds" mapstructure:"commandTimeoutSeconds"`

	// HistoryFile keeps the interactive shell's line history.
	HistoryFile string `json:"historyFile" mapstructure:"historyFile"`

	Weights related.Weights `json:"weights" mapstructure:"weights"`
}

const (
	DefaultRelatedLimit          = 5
	DefaultPageSize              = 20
	DefaultCommandTimeoutSeconds = 30
)

// NewConfig returns the default configuration rooted at the user's home.
func NewConfig() *Config {
	dataDir := "~/.bapanel"
	return &Config{
		Database:              dataDir + "/tools.json",
		WrapperDir:            dataDir + "/wrappers",
		RelatedLimit:          DefaultRelatedLimit,
		PageSize:              DefaultPageSize,
		CommandTimeoutSeconds: DefaultCommandTimeoutSeconds,
		HistoryFile:           dataDir + "/history",
		Weights:               related.DefaultWeights(),
	}
}

// GetDefaultConfigPath returns the path to ~/.bapanel.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".bapanel.json"), nil
}

// CommandTimeout returns CommandTimeoutSeconds as a duration.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

// expandPaths resolves a leading ~ in every path setting.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Database, &c.WrapperDir, &c.HistoryFile} {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandHome replaces a leading "~" or "~/" with the home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BAPANEL"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("database", d.Database)
	v.SetDefault("wrapperDir", d.WrapperDir)
	v.SetDefault("relatedLimit", d.RelatedLimit)
	v.SetDefault("pageSize", d.PageSize)
	v.SetDefault("commandTimeoutSeconds", d.CommandTimeoutSeconds)
	v.SetDefault("historyFile", d.HistoryFile)
	v.SetDefault("weights.category", d.Weights.Category)
	v.SetDefault("weights.description", d.Weights.Description)
	v.SetDefault("weights.dependency", d.Weights.Dependency)
}

// LoadFrom reads config with enhanced error handling. An empty path means
// the default location, which may be absent; an explicit path must exist.
// Flags, when non-nil, override the file: --db sets the database path.
func LoadFrom(path string, flags *pflag.FlagSet) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	v := newViper()

	data, err := readConfigFile(path, explicit)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, &InvalidConfigError{
				Path:    path,
				Message: fmt.Sprintf("JSON parse error: %v", err),
				Hint:    "Restore from .bak file if available",
			}
		}
	}

	if flags != nil {
		if f := flags.Lookup("db"); f != nil {
			if err := v.BindPFlag("database", f); err != nil {
				return nil, fmt.Errorf("failed to bind --db flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("decode error: %v", err),
			Hint:    "Check value types against 'bapanel config show'",
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{Path: path, Message: err.Error(), Hint: "Fix the value or delete the key to use the default"}
	}

	return &cfg, nil
}

// readConfigFile returns nil data when an optional file is absent.
func readConfigFile(path string, required bool) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if !required {
				return nil, nil
			}
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'bapanel config init' to create configuration",
			}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     "Run: chmod 644 " + path,
				Details: getPermissionDetails(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// getPermissionDetails reports the file's current mode.
func getPermissionDetails(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
}

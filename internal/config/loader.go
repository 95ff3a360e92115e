// Package config loads the pinlog CLI configuration with viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PINLOG_STORE_PATH.
const EnvPrefix = "PINLOG"

// DefaultDir is the per-user directory for config and data.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pinlog"
	}
	return filepath.Join(home, ".pinlog")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	dir := DefaultDir()

	v.SetDefault("store.path", filepath.Join(dir, "pin_logger_logs.db"))
	v.SetDefault("store.log_level", "silent")

	v.SetDefault("app.name", "PinLog CLI")
	v.SetDefault("app.package", "com.pinlog.cli")
	v.SetDefault("app.version_name", "1.0")
	v.SetDefault("app.version_code", "1")
	v.SetDefault("app.files_dir", dir)

	v.SetDefault("console.dev_logging", false)
	v.SetDefault("console.file", "")
	v.SetDefault("console.max_size_mb", 10)
	v.SetDefault("console.max_backups", 3)
	v.SetDefault("console.max_age_days", 7)
	v.SetDefault("console.compress", false)

	v.SetDefault("crash.passphrase", "")
	v.SetDefault("retention_days", 7)
}

// Load reads configFile, or pinlog.yaml from the working directory and
// DefaultDir when configFile is empty. A missing default file is not an
// error; environment variables override both.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pinlog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check by type alone.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return errors.New("store.path must not be empty")
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative, got %d", c.RetentionDays)
	}
	switch strings.ToLower(c.Store.LogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("store.log_level %q is not one of silent, error, warn, info", c.Store.LogLevel)
	}
	return nil
}

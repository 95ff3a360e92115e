package config

// Config is the on-disk configuration of the pinlog CLI.
type Config struct {
	Store         StoreConfig    `mapstructure:"store"`
	App           AppConfig      `mapstructure:"app"`
	Console       ConsoleConfig  `mapstructure:"console"`
	Crash         CrashConfig    `mapstructure:"crash"`
	RetentionDays int            `mapstructure:"retention_days"`
	BuildInfo     map[string]any `mapstructure:"build_info"`
}

type StoreConfig struct {
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"` // silent, error, warn, info
}

// AppConfig describes the host application the logs belong to.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Package     string `mapstructure:"package"`
	VersionName string `mapstructure:"version_name"`
	VersionCode string `mapstructure:"version_code"`
	FilesDir    string `mapstructure:"files_dir"`
}

type ConsoleConfig struct {
	DevLogging bool   `mapstructure:"dev_logging"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type CrashConfig struct {
	Passphrase string `mapstructure:"passphrase"`
}

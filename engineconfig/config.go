// Package engineconfig loads optional engine-wide settings (the
// workbook's default version string, a name-policy pattern override, the
// persistence path, the notification dispatcher's queue depth and worker
// pool size, and the ambient log level) from a config file, falling back
// to hardcoded defaults when none is present.
package engineconfig

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/MasterFire41604/Spreadsheet-Program/namepolicy"
)

// Config is the complete set of engine-wide settings a deployment may
// override.
type Config struct {
	Workbook    WorkbookConfig    `mapstructure:"workbook"`
	NamePolicy  NamePolicyConfig  `mapstructure:"namePolicy"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// WorkbookConfig controls defaults handed to workbook.New.
type WorkbookConfig struct {
	DefaultVersion string `mapstructure:"defaultVersion"`
}

// NamePolicyConfig optionally overrides namepolicy.BasePattern. An empty
// Pattern leaves the package default in place.
type NamePolicyConfig struct {
	Pattern string `mapstructure:"pattern"`
}

// PersistenceConfig controls where a workbook is saved and loaded from
// when no path is given explicitly.
type PersistenceConfig struct {
	Path string `mapstructure:"path"`
}

// NotifyConfig controls the change-notification dispatcher.
type NotifyConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	QueueSize   int  `mapstructure:"queueSize"`
	WorkerCount int  `mapstructure:"workerCount"`
}

// LoggingConfig controls the ambient logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the engine's hardcoded configuration, used whenever no
// config file is found.
func Default() *Config {
	return &Config{
		Workbook: WorkbookConfig{
			DefaultVersion: "default",
		},
		NamePolicy: NamePolicyConfig{
			Pattern: "",
		},
		Persistence: PersistenceConfig{
			Path: "workbook.db",
		},
		Notify: NotifyConfig{
			Enabled:     false,
			QueueSize:   20,
			WorkerCount: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads "engine.{yaml,yml,json,toml}" from dir. A missing config
// file is not an error: Load returns Default() in that case. Any other
// read or unmarshal failure is returned as-is.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("workbook.defaultVersion", "default")
	v.SetDefault("namePolicy.pattern", "")
	v.SetDefault("persistence.path", "workbook.db")
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.queueSize", 20)
	v.SetDefault("notify.workerCount", 5)
	v.SetDefault("logging.level", "info")

	v.SetConfigName("engine")
	v.AddConfigPath(filepath.Clean(dir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyNamePolicy installs cfg's name-policy pattern override, if any, by
// recompiling namepolicy.BasePattern. It is a no-op when Pattern is empty.
func (cfg *Config) ApplyNamePolicy() error {
	if cfg.NamePolicy.Pattern == "" {
		return nil
	}
	return namepolicy.SetBasePattern(cfg.NamePolicy.Pattern)
}

package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for bl2u1.
// Values are populated from .bl2u1.yaml, BL2U1_* env vars, and CLI flags.
type Config struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	UploadsDir      string `mapstructure:"uploads_dir"`
	TemplatesDir    string `mapstructure:"templates_dir"`
	DBPath          string `mapstructure:"db_path"`
	MaxFileAgeHours int    `mapstructure:"max_file_age_hours"`
	AuditLog        string `mapstructure:"audit_log"`
	Verbose         bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("uploads_dir", "uploads")
	viper.SetDefault("templates_dir", ".")
	viper.SetDefault("db_path", "")
	viper.SetDefault("max_file_age_hours", 8)
	viper.SetDefault("audit_log", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// DatabasePath returns the session database location, defaulting to a file
// beside the uploads so a single directory holds all serve-mode state.
func (c Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.UploadsDir, "sessions.db")
}

// MaxFileAge converts the configured hour count to a duration.
func (c Config) MaxFileAge() time.Duration {
	return time.Duration(c.MaxFileAgeHours) * time.Hour
}

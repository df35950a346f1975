package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ListenAddr", cfg.ListenAddr, ":8080"},
		{"UploadsDir", cfg.UploadsDir, "uploads"},
		{"TemplatesDir", cfg.TemplatesDir, "."},
		{"DBPath", cfg.DBPath, ""},
		{"MaxFileAgeHours", cfg.MaxFileAgeHours, 8},
		{"AuditLog", cfg.AuditLog, ""},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "listen_addr",
			envKey: "BL2U1_LISTEN_ADDR",
			envVal: "127.0.0.1:9999",
			field:  func(c Config) any { return c.ListenAddr },
			want:   "127.0.0.1:9999",
		},
		{
			name:   "uploads_dir",
			envKey: "BL2U1_UPLOADS_DIR",
			envVal: "/var/lib/bl2u1/uploads",
			field:  func(c Config) any { return c.UploadsDir },
			want:   "/var/lib/bl2u1/uploads",
		},
		{
			name:   "templates_dir",
			envKey: "BL2U1_TEMPLATES_DIR",
			envVal: "/opt/templates",
			field:  func(c Config) any { return c.TemplatesDir },
			want:   "/opt/templates",
		},
		{
			name:   "max_file_age_hours",
			envKey: "BL2U1_MAX_FILE_AGE_HOURS",
			envVal: "48",
			field:  func(c Config) any { return c.MaxFileAgeHours },
			want:   48,
		},
		{
			name:   "audit_log",
			envKey: "BL2U1_AUDIT_LOG",
			envVal: "audit.jsonl",
			field:  func(c Config) any { return c.AuditLog },
			want:   "audit.jsonl",
		},
		{
			name:   "verbose",
			envKey: "BL2U1_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so BL2U1_* env vars map to config keys.
			viper.SetEnvPrefix("BL2U1")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := Load()
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestDatabasePath(t *testing.T) {
	resetViper()

	cfg := Load()
	if got, want := cfg.DatabasePath(), filepath.Join("uploads", "sessions.db"); got != want {
		t.Errorf("DatabasePath() = %q, want %q", got, want)
	}

	cfg.DBPath = "/tmp/state.db"
	if got := cfg.DatabasePath(); got != "/tmp/state.db" {
		t.Errorf("DatabasePath() = %q, want explicit path", got)
	}
}

func TestMaxFileAge(t *testing.T) {
	resetViper()

	cfg := Load()
	if got, want := cfg.MaxFileAge(), 8*time.Hour; got != want {
		t.Errorf("MaxFileAge() = %v, want %v", got, want)
	}
}

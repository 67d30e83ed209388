package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("Port = %s, want 3001", cfg.Port)
	}
	if cfg.DatabasePath != "./data/vibecode.db" {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want 90", cfg.RetentionDays)
	}
	if !cfg.CleanupEnabled {
		t.Error("CleanupEnabled should default to true")
	}
	if cfg.MaxAudioUploadMB != 25 {
		t.Errorf("MaxAudioUploadMB = %d, want 25", cfg.MaxAudioUploadMB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RETENTION_DAYS", "30")
	t.Setenv("CLEANUP_ENABLED", "false")
	t.Setenv("HEURISTICS_WATCH", "true")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want 30", cfg.RetentionDays)
	}
	if cfg.CleanupEnabled {
		t.Error("CleanupEnabled should be false")
	}
	if !cfg.HeuristicsWatch {
		t.Error("HeuristicsWatch should be true")
	}
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("RETENTION_DAYS", "ninety")
	t.Setenv("CLEANUP_ENABLED", "maybe")

	cfg := Load()

	if cfg.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want default 90 for malformed value", cfg.RetentionDays)
	}
	if !cfg.CleanupEnabled {
		t.Error("CleanupEnabled should fall back to default true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty database path", func(c *Config) { c.DatabasePath = "  " }, true},
		{"zero retention", func(c *Config) { c.RetentionDays = 0 }, true},
		{"zero upload limit", func(c *Config) { c.MaxAudioUploadMB = 0 }, true},
		{"bad cron expression", func(c *Config) { c.CleanupSchedule = "every day at 3" }, true},
		{"five-field cron ok", func(c *Config) { c.CleanupSchedule = "*/15 * * * *" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

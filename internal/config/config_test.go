package config

import (
	"os"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "APP_PORT", "LOG_LEVEL",
	"MATCH_TIMEOUT_SECONDS", "RELAXATION_INTERVAL_SECONDS", "MAX_GROUP_SIZE", "AGE_TOLERANCE",
	"STRICT_PREFERENCES", "ALTERNATE_RESTAURANTS", "SWEEP_SCHEDULE", "RESTAURANT_CATALOG",
	"RATE_LIMIT_PER_USER", "RATE_LIMIT_PER_IP",
	"PROFILE_STORE", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"BOT_TOKEN", "NOTIFY_CHAT_ID",
}

// clearEnv blanks every key LoadConfig reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.AppPort != "3001" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "3001")
	}
	if cfg.ProfileStore != ProfileStoreMemory {
		t.Errorf("ProfileStore = %q, want %q", cfg.ProfileStore, ProfileStoreMemory)
	}
	if cfg.MaxGroupSize != 4 {
		t.Errorf("MaxGroupSize = %d, want 4", cfg.MaxGroupSize)
	}
	if cfg.StrictPreferences {
		t.Error("StrictPreferences = true, want false")
	}
	if cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true without a bot token")
	}

	policy := cfg.RelaxPolicy()
	if policy.Interval != time.Minute || policy.MaxWait != 5*time.Minute {
		t.Errorf("RelaxPolicy() = %+v, want 1m interval and 5m ceiling", policy)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATCH_TIMEOUT_SECONDS", "120")
	t.Setenv("RELAXATION_INTERVAL_SECONDS", "20")
	t.Setenv("MAX_GROUP_SIZE", "3")
	t.Setenv("STRICT_PREFERENCES", "true")
	t.Setenv("PROFILE_STORE", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("NOTIFY_CHAT_ID", "-100123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.GetMatchTimeout() != 2*time.Minute {
		t.Errorf("GetMatchTimeout() = %v, want 2m", cfg.GetMatchTimeout())
	}
	if cfg.GetRelaxationInterval() != 20*time.Second {
		t.Errorf("GetRelaxationInterval() = %v, want 20s", cfg.GetRelaxationInterval())
	}
	if cfg.MaxGroupSize != 3 || !cfg.StrictPreferences {
		t.Errorf("matching settings = %d/%v, want 3/true", cfg.MaxGroupSize, cfg.StrictPreferences)
	}
	if cfg.NotifyChatID != -100123 || !cfg.NotificationsEnabled() {
		t.Errorf("NotifyChatID = %d, want -100123 with notifications enabled", cfg.NotifyChatID)
	}
	if got, want := cfg.GetDSN(), "host=localhost port=5432 user=lunchmate password=secret dbname=lunchmate_db sslmode=disable"; got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Non numeric chat id",
			envVars: map[string]string{"BOT_TOKEN": "token", "NOTIFY_CHAT_ID": "abc"},
		},
		{
			name:    "Bot token without chat id",
			envVars: map[string]string{"BOT_TOKEN": "token"},
		},
		{
			name:    "Postgres without password",
			envVars: map[string]string{"PROFILE_STORE": "postgres"},
		},
		{
			name:    "Unknown profile store",
			envVars: map[string]string{"PROFILE_STORE": "redis"},
		},
		{
			name:    "Interval not shorter than timeout",
			envVars: map[string]string{"MATCH_TIMEOUT_SECONDS": "60", "RELAXATION_INTERVAL_SECONDS": "60"},
		},
		{
			name:    "Group too large",
			envVars: map[string]string{"MAX_GROUP_SIZE": "5"},
		},
		{
			name:    "Group too small",
			envVars: map[string]string{"MAX_GROUP_SIZE": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name:      "Production with memory store",
			cfg:       &Config{AppEnv: "production", ProfileStore: ProfileStoreMemory},
			shouldErr: false,
		},
		{
			name:      "Production postgres with SSL",
			cfg:       &Config{AppEnv: "production", ProfileStore: ProfileStorePostgres, DBSSLMode: "require"},
			shouldErr: false,
		},
		{
			name:      "Development mode - no validation",
			cfg:       &Config{AppEnv: "development", ProfileStore: ProfileStorePostgres, DBSSLMode: "disable"},
			shouldErr: false,
		},
		{
			name:      "Production postgres without SSL",
			cfg:       &Config{AppEnv: "production", ProfileStore: ProfileStorePostgres, DBSSLMode: "disable"},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if (err != nil) != tt.shouldErr {
				t.Errorf("ValidateProductionSecurity() error = %v, shouldErr %v", err, tt.shouldErr)
			}
		})
	}
}

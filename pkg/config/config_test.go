package config

import (
	"strings"
	"testing"
)

func validProduction() *Config {
	return &Config{
		Environment:          EnvProduction,
		DatabaseDriver:       DriverPostgres,
		EventBusEnabled:      true,
		LogLevel:             "info",
		SessionAuthKey:       strings.Repeat("a", 32),
		SessionEncryptionKey: strings.Repeat("b", 32),
		NotifyMode:           NotifyModeBus,
		NotifySigningKey:     strings.Repeat("c", 32),
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"development skips checks", func(c *Config) {
			c.Environment = EnvDevelopment
			c.SessionAuthKey = ""
		}, ""},
		{"short auth key", func(c *Config) { c.SessionAuthKey = "short" }, "SESSION_AUTH_KEY"},
		{"16 byte encryption key", func(c *Config) { c.SessionEncryptionKey = strings.Repeat("b", 16) }, ""},
		{"29 byte encryption key", func(c *Config) { c.SessionEncryptionKey = strings.Repeat("b", 29) }, "SESSION_ENCRYPTION_KEY"},
		{"short signing key", func(c *Config) { c.NotifySigningKey = "x" }, "NOTIFY_SIGNING_KEY"},
		{"signing key unused when notifications off", func(c *Config) {
			c.NotifyMode = NotifyModeNone
			c.NotifySigningKey = ""
		}, ""},
		{"bus mode on sqlite", func(c *Config) { c.DatabaseDriver = DriverSQLite }, "NOTIFY_MODE=bus"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProduction()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestUsesEventBus(t *testing.T) {
	tests := []struct {
		enabled bool
		driver  string
		want    bool
	}{
		{true, DriverPostgres, true},
		{false, DriverPostgres, false},
		{true, DriverSQLite, false},
	}
	for _, tt := range tests {
		c := &Config{EventBusEnabled: tt.enabled, DatabaseDriver: tt.driver}
		if got := c.UsesEventBus(); got != tt.want {
			t.Errorf("UsesEventBus(enabled=%v, driver=%s) = %v, want %v", tt.enabled, tt.driver, got, tt.want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverSQLite)
	t.Setenv("DATABASE_URL", ":memory:")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if len(cfg.SessionEncryptionKey) != 32 {
		t.Errorf("default encryption key is %d bytes, want 32", len(cfg.SessionEncryptionKey))
	}
	if cfg.NotifyMode != NotifyModeBus {
		t.Errorf("NotifyMode = %q, want %q", cfg.NotifyMode, NotifyModeBus)
	}
}

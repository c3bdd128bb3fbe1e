package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Booking.MinAdvanceHours)
	assert.Equal(t, 30, cfg.Booking.MaxAdvanceDays)
	assert.Equal(t, 30, cfg.Booking.SlotIntervalMinutes)
	assert.Equal(t, 0, cfg.Booking.BufferMinutes)
	assert.Equal(t, 365, cfg.Booking.RecurrenceHorizonDays)
	assert.Equal(t, "sunday", cfg.Booking.RecurrenceSkipWeekday)
	assert.Equal(t, 100, cfg.Booking.BatchSize)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
app:
  server_port: "9000"
database:
  driver: memory
booking:
  slot_interval_minutes: 15
  lock_wait: 5s
notify:
  webhook_url: "${TEST_HOOK}"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_HOOK", "http://hooks.local/in")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 15, cfg.Booking.SlotIntervalMinutes)
	assert.Equal(t, 5*time.Second, cfg.Booking.LockWait)
	assert.Equal(t, "http://hooks.local/in", cfg.Notify.WebhookURL)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{
			Database: DatabaseConfig{Driver: "postgres", URL: "postgres://x"},
			Auth:     AuthConfig{JWTSecret: "secret"},
		}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "missing url", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: true},
		{name: "memory without url", mutate: func(c *Config) { c.Database.Driver = "memory"; c.Database.URL = "" }},
		{
			name: "default secret in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Auth.JWTSecret = "changeme"
			},
			wantErr: true,
		},
		{name: "negative interval", mutate: func(c *Config) { c.Booking.SlotIntervalMinutes = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSkipWeekday(t *testing.T) {
	wd := BookingConfig{RecurrenceSkipWeekday: "Sunday"}.SkipWeekday()
	require.NotNil(t, wd)
	assert.Equal(t, time.Sunday, *wd)

	assert.Nil(t, BookingConfig{RecurrenceSkipWeekday: "none"}.SkipWeekday())
}

func TestAllowedOrigins(t *testing.T) {
	assert.Empty(t, AppConfig{}.AllowedOrigins())
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		AppConfig{CORSOrigins: " https://a.example, ,https://b.example"}.AllowedOrigins(),
	)
}

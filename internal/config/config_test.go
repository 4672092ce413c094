package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileHasOnlyPort(t *testing.T) {
	cfg, err := Load(writeConfig(t, "port: \"9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulation.Tick)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Simulation.Housekeeping)
	assert.Equal(t, 20, cfg.Monitor.WindowCapacity)
	assert.Equal(t, 50, cfg.Monitor.HistoryCapacity)
	assert.Equal(t, 60.0, cfg.Thresholds.HeartRate.Min)
	assert.Equal(t, 40.0, cfg.Thresholds.HeartRate.Emergency)
	assert.Equal(t, 90.0, cfg.Thresholds.BloodOxygen.Critical)
	assert.Equal(t, 5, cfg.Pattern.FaintSamples)
	assert.Equal(t, 15*time.Second, cfg.Notify.Revert)
	assert.Equal(t, BackendSQLite, cfg.Persistence.Backend)
	assert.Equal(t, SenderLog, cfg.Notify.Sender)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
port: "8081"
simulation:
  tick: 2s
  seed: 42
thresholds:
  heart_rate: {min: 55, max: 110, critical: 45, emergency: 35}
contacts:
  - name: Dr. Ahmed
    phone: "+966-555-0123"
    display_ref: contact1
    role: doctor
  - name: Family member
    phone: "+966-555-0456"
    display_ref: contact2
persistence:
  backend: redis
redis:
  addr: "cache:6379"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Simulation.Tick)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 110.0, cfg.Thresholds.HeartRate.Max)
	assert.Equal(t, 95.0, cfg.Thresholds.BloodOxygen.Min, "untouched metric keeps defaults")
	require.Len(t, cfg.Contacts, 2)
	assert.Equal(t, "doctor", cfg.Contacts[0].Role)
	assert.Equal(t, "contact2", cfg.Contacts[1].DisplayRef)
	assert.Equal(t, BackendRedis, cfg.Persistence.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)

	ms := cfg.MonitorSettings()
	assert.Equal(t, cfg.Thresholds, ms.Thresholds)
	assert.Len(t, ms.Contacts, 2)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HM_PORT", "7070")
	t.Setenv("HM_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "port: \"9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoad_InvalidThresholdsFailFast(t *testing.T) {
	_, err := Load(writeConfig(t, `
thresholds:
  heart_rate: {min: 100, max: 60}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, "port: \"8080\"\n"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"emergency above critical", func(c *Config) { c.Thresholds.BloodOxygen.Emergency = 95 }},
		{"zero tick", func(c *Config) { c.Simulation.Tick = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.HTTP.ShutdownTimeout = 0 }},
		{"window smaller than pattern", func(c *Config) { c.Monitor.WindowCapacity = 3 }},
		{"unknown backend", func(c *Config) { c.Persistence.Backend = "mongo" }},
		{"kafka without brokers", func(c *Config) { c.Notify.Sender = SenderKafka; c.Kafka.Brokers = nil }},
		{"unknown sender", func(c *Config) { c.Notify.Sender = "pigeon" }},
		{"mqtt without broker", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker = "" }},
		{"contact without phone", func(c *Config) { c.Contacts = append(c.Contacts, modelsContact("x", "")) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base(t)
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), errInvalidConfig)
		})
	}
}

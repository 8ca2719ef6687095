package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/telco-sightings-go/internal/mobility"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def := Default()
	assert.Equal(t, def.KNearestNeighbor, cfg.KNearestNeighbor)
	assert.Equal(t, def.StayProbability, cfg.StayProbability)
	assert.Equal(t, def.DateRange, cfg.DateRange)
	assert.Equal(t, def.IDs, cfg.IDs)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
seed: 7
k_nearest_neighbor: 5
min_site_separation_meters: 250
cap_start_hr: 4
date_range:
  start_date: "2024-02-27"
  num_days: 5
stay_probability_distribution:
  mean: 0.6
  sd: 0.2
  low: 0.2
  upp: 0.95
  round_decimals: -1
server:
  rate_window: 30s
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  topic: sightings
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 5, cfg.KNearestNeighbor)
	assert.Equal(t, 250.0, cfg.MinSiteSeparationMeters)
	assert.Equal(t, 4, cfg.CapStartHour)
	assert.Equal(t, 5, cfg.DateRange.NumDays)
	assert.Equal(t, mobility.StayDistribution{Mean: 0.6, SD: 0.2, Low: 0.2, Upp: 0.95, RoundDecimals: -1}, cfg.StayProbability)
	assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)

	start, err := cfg.DateRange.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), start)

	// untouched sections keep their defaults
	assert.Equal(t, Default().Database, cfg.Database)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SIGHTINGS_SEED", "99")
	t.Setenv("SIGHTINGS_K_NEAREST_NEIGHBOR", "2")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("SIGHTINGS_NUM_DAYS", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 2, cfg.KNearestNeighbor)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.Equal(t, Default().DateRange.NumDays, cfg.DateRange.NumDays)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"k below one", func(c *Config) { c.KNearestNeighbor = 0 }, mobility.ErrInvalidK},
		{"cap start hour 24", func(c *Config) { c.CapStartHour = 24 }, mobility.ErrInvalidCapStartHour},
		{"negative cap start hour", func(c *Config) { c.CapStartHour = -1 }, mobility.ErrInvalidCapStartHour},
		{"zero days", func(c *Config) { c.DateRange.NumDays = 0 }, mobility.ErrInvalidDateRange},
		{"low not below upp", func(c *Config) { c.StayProbability.Low = 0.9 }, mobility.ErrInvalidStayDistribution},
		{"bad date", func(c *Config) { c.DateRange.StartDate = "01/02/2023" }, ErrInvalidConfig},
		{"negative separation", func(c *Config) { c.MinSiteSeparationMeters = -5 }, ErrInvalidConfig},
		{"kafka without topic", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Topic = "" }, ErrInvalidConfig},
		{"influx without url", func(c *Config) { c.InfluxDB.Enabled = true; c.InfluxDB.URL = "" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "seed: [not, a, number]"))
	assert.Error(t, err)
}

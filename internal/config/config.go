package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/telco-sightings-go/internal/mobility"
	"github.com/jengzang/telco-sightings-go/internal/models"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config 应用配置
type Config struct {
	Seed                    uint64                    `yaml:"seed"`
	KNearestNeighbor        int                       `yaml:"k_nearest_neighbor"`
	MinSiteSeparationMeters float64                   `yaml:"min_site_separation_meters"`
	CapStartHour            int                       `yaml:"cap_start_hr"`
	DateRange               DateRange                 `yaml:"date_range"`
	StayProbability         mobility.StayDistribution `yaml:"stay_probability_distribution"`
	Workers                 int                       `yaml:"workers"`

	IDs      IDConfig       `yaml:"ids"`
	Paths    PathConfig     `yaml:"paths"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DateRange is the simulated calendar window
type DateRange struct {
	StartDate string `yaml:"start_date"` // YYYY-MM-DD
	NumDays   int    `yaml:"num_days"`
}

// Start parses StartDate
func (d DateRange) Start() (time.Time, error) {
	t, err := time.Parse(models.DateLayout, d.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start_date %q: %v", ErrInvalidConfig, d.StartDate, err)
	}
	return t, nil
}

// IDConfig holds the prefixes of generated ids
type IDConfig struct {
	SitePrefix       string `yaml:"site_prefix"`
	SubscriberPrefix string `yaml:"subscriber_prefix"`
	RecordPrefix     string `yaml:"record_prefix"`
}

// PathConfig locates the pipeline's input and output files
type PathConfig struct {
	Candidates  string `yaml:"candidates"`
	Sites       string `yaml:"sites"`
	Subscribers string `yaml:"subscribers"`
	Output      string `yaml:"output"` // trajectory record CSV, skipped when empty
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port       string        `yaml:"port"`
	JWTSecret  string        `yaml:"jwt_secret"` // bearer auth is disabled when empty
	RateLimit  int           `yaml:"rate_limit"` // requests per window and client IP, 0 disables
	RateWindow time.Duration `yaml:"rate_window"`
}

// KafkaConfig holds sighting publisher settings
type KafkaConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Brokers   []string `yaml:"brokers"`
	Topic     string   `yaml:"topic"`
	BatchSize int      `yaml:"batch_size"`
}

// InfluxDBConfig holds time-series export settings
type InfluxDBConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	Org       string `yaml:"org"`
	Token     string `yaml:"token"`
	Bucket    string `yaml:"bucket"`
	BatchSize int    `yaml:"batch_size"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration of the reference dataset
func Default() *Config {
	return &Config{
		Seed:                    2023,
		KNearestNeighbor:        3,
		MinSiteSeparationMeters: 500,
		CapStartHour:            10,
		DateRange: DateRange{
			StartDate: "2023-01-01",
			NumDays:   31,
		},
		StayProbability: mobility.StayDistribution{
			Mean:          0.5,
			SD:            0.1,
			Low:           0.1,
			Upp:           0.9,
			RoundDecimals: 1,
		},
		IDs: IDConfig{
			SitePrefix:       models.DefaultSitePrefix,
			SubscriberPrefix: models.DefaultSubscriberPrefix,
			RecordPrefix:     models.DefaultRecordPrefix,
		},
		Paths: PathConfig{
			Candidates:  "./data/candidates.csv",
			Sites:       "./data/fake_cellsites.csv",
			Subscribers: "./data/fake_subscribers.csv",
			Output:      "./data/fake_transactions.csv",
		},
		Database: DatabaseConfig{
			Path: "./data/sightings.db",
		},
		Server: ServerConfig{
			Port:       ":8080",
			RateLimit:  120,
			RateWindow: time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:   []string{"localhost:9092"},
			Topic:     "subscriber-sightings",
			BatchSize: 1000,
		},
		InfluxDB: InfluxDBConfig{
			URL:       "http://localhost:8086",
			Bucket:    "sightings",
			BatchSize: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load 加载配置: defaults, then the YAML file at path (if any), then environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Seed = getEnvUint("SIGHTINGS_SEED", c.Seed)
	c.KNearestNeighbor = getEnvInt("SIGHTINGS_K_NEAREST_NEIGHBOR", c.KNearestNeighbor)
	c.MinSiteSeparationMeters = getEnvFloat("SIGHTINGS_MIN_SITE_SEPARATION_METERS", c.MinSiteSeparationMeters)
	c.CapStartHour = getEnvInt("SIGHTINGS_CAP_START_HR", c.CapStartHour)
	c.DateRange.StartDate = getEnv("SIGHTINGS_START_DATE", c.DateRange.StartDate)
	c.DateRange.NumDays = getEnvInt("SIGHTINGS_NUM_DAYS", c.DateRange.NumDays)
	c.Workers = getEnvInt("SIGHTINGS_WORKERS", c.Workers)

	c.Paths.Sites = getEnv("SIGHTINGS_SITES_PATH", c.Paths.Sites)
	c.Paths.Subscribers = getEnv("SIGHTINGS_SUBSCRIBERS_PATH", c.Paths.Subscribers)
	c.Paths.Output = getEnv("SIGHTINGS_OUTPUT_PATH", c.Paths.Output)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.JWTSecret = getEnv("JWT_SECRET", c.Server.JWTSecret)

	c.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", c.Kafka.Enabled)
	c.Kafka.Brokers = getEnvStringSlice("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.InfluxDB.Enabled = getEnvBool("INFLUXDB_ENABLED", c.InfluxDB.Enabled)
	c.InfluxDB.URL = getEnv("INFLUXDB_URL", c.InfluxDB.URL)
	c.InfluxDB.Org = getEnv("INFLUXDB_ORG", c.InfluxDB.Org)
	c.InfluxDB.Token = getEnv("INFLUX_TOKEN", c.InfluxDB.Token)
	c.InfluxDB.Bucket = getEnv("INFLUXDB_BUCKET", c.InfluxDB.Bucket)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate reports the first configuration error. These are fatal before any output is produced.
func (c *Config) Validate() error {
	if c.KNearestNeighbor < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, mobility.ErrInvalidK)
	}
	if c.CapStartHour < 0 || c.CapStartHour >= mobility.HoursPerDay {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfig, mobility.ErrInvalidCapStartHour, c.CapStartHour)
	}
	if c.MinSiteSeparationMeters < 0 {
		return fmt.Errorf("%w: min_site_separation_meters must be non-negative", ErrInvalidConfig)
	}
	if _, err := c.DateRange.Start(); err != nil {
		return err
	}
	if c.DateRange.NumDays < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, mobility.ErrInvalidDateRange)
	}
	if err := c.StayProbability.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("%w: kafka requires brokers and a topic", ErrInvalidConfig)
	}
	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		return fmt.Errorf("%w: influxdb requires a url and a bucket", ErrInvalidConfig)
	}
	return nil
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Split(value, ",")
	}
	return defaultValue
}

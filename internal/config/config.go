package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Feed modes for the appointment calendar export.
const (
	FeedModeActive = "active"
	FeedModeWindow = "window"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	FeedCacheTTL  time.Duration `mapstructure:"FEED_CACHE_TTL"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	AuthIssuer      string `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL     string `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience    string `mapstructure:"AUTH_AUD"`
	PermissionsFile string `mapstructure:"PERMISSIONS_FILE"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`

	OTelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `mapstructure:"OTEL_SERVICE_NAME"`

	ClinicalRecordsEditable      bool   `mapstructure:"CLINICAL_RECORDS_EDITABLE"`
	AppointmentStrictTransitions bool   `mapstructure:"APPOINTMENT_STRICT_TRANSITIONS"`
	AppointmentFeedMode          string `mapstructure:"APPOINTMENT_FEED_MODE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "FEED_CACHE_TTL",
	"RABBITMQ_URL",
	"AUTH_ISSUER", "AUTH_JWKS_URL", "AUTH_AUD", "PERMISSIONS_FILE", "ALLOWED_ORIGINS",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	"CLINICAL_RECORDS_EDITABLE", "APPOINTMENT_STRICT_TRANSITIONS", "APPOINTMENT_FEED_MODE",
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppointmentFeedMode = strings.ToLower(strings.TrimSpace(cfg.AppointmentFeedMode))

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FEED_CACHE_TTL", "30s")
	v.SetDefault("PERMISSIONS_FILE", "permissions.yml")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_NAME", "clinic-service")
	v.SetDefault("CLINICAL_RECORDS_EDITABLE", false)
	v.SetDefault("APPOINTMENT_STRICT_TRANSITIONS", true)
	v.SetDefault("APPOINTMENT_FEED_MODE", FeedModeWindow)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is complete enough to serve traffic.
func (c *Config) Validate() error {
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required")
	}
	if c.AppointmentFeedMode != FeedModeActive && c.AppointmentFeedMode != FeedModeWindow {
		return fmt.Errorf("APPOINTMENT_FEED_MODE must be %q or %q, got %q", FeedModeActive, FeedModeWindow, c.AppointmentFeedMode)
	}
	if !c.IsDev() && (c.AuthIssuer == "" || c.AuthJWKSURL == "") {
		return fmt.Errorf("AUTH_ISSUER and AUTH_JWKS_URL must be set when ENV=%q", c.Env)
	}
	return nil
}

// DSN renders the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Origins splits ALLOWED_ORIGINS into a trimmed list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

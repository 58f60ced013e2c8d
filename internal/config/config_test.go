package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_NAME", "clinic")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.Equal(t, FeedModeWindow, cfg.AppointmentFeedMode)
	assert.True(t, cfg.AppointmentStrictTransitions)
	assert.False(t, cfg.ClinicalRecordsEditable)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("APPOINTMENT_FEED_MODE", "ACTIVE")
	t.Setenv("CLINICAL_RECORDS_EDITABLE", "true")
	t.Setenv("FEED_CACHE_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FeedModeActive, cfg.AppointmentFeedMode)
	assert.True(t, cfg.ClinicalRecordsEditable)
	assert.Equal(t, 2*time.Minute, cfg.FeedCacheTTL)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Env:                 "development",
			DBHost:              "db",
			DBUser:              "clinic",
			DBName:              "clinic",
			AppointmentFeedMode: FeedModeWindow,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid development", mutate: func(c *Config) {}},
		{name: "missing db host", mutate: func(c *Config) { c.DBHost = "" }, wantErr: "DB_HOST"},
		{name: "unknown feed mode", mutate: func(c *Config) { c.AppointmentFeedMode = "all" }, wantErr: "APPOINTMENT_FEED_MODE"},
		{name: "production without issuer", mutate: func(c *Config) { c.Env = "production" }, wantErr: "AUTH_ISSUER"},
		{
			name: "production with auth",
			mutate: func(c *Config) {
				c.Env = "production"
				c.AuthIssuer = "https://id.example.com/realms/clinic"
				c.AuthJWKSURL = "https://id.example.com/realms/clinic/certs"
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDSNAndOrigins(t *testing.T) {
	cfg := Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "clinic", DBSSLMode: "disable",
		AllowedOrigins: "http://localhost:3000, https://clinic.example.com ,",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=clinic sslmode=disable", cfg.DSN())
	assert.Equal(t, []string{"http://localhost:3000", "https://clinic.example.com"}, cfg.Origins())
}

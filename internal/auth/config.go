package auth

import "github.com/WailSalutem-Health-Care/clinic-service/internal/config"

// Config holds token verification settings.
type Config struct {
	Issuer   string
	JWKSURL  string
	Audience string // optional
}

// ConfigFrom picks the auth settings out of the service configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Issuer:   cfg.AuthIssuer,
		JWKSURL:  cfg.AuthJWKSURL,
		Audience: cfg.AuthAudience,
	}
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to the catalog service.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Access tokens
	JWTSecret string        // HMAC signing secret (must be strong in production)
	JWTTTL    time.Duration // Access token lifetime

	// Password hashing
	BcryptCost int

	// Redis facet cache (optional; blank address disables caching)
	RedisAddr     string
	RedisPassword string
	FacetCacheTTL time.Duration

	// Suggestion endpoint
	SuggestEnabled bool

	// Admin bootstrap: promote this account to admin on startup if set
	AdminEmail string
}

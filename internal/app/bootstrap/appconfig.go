// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is everything
// specific to this application: the Mongo connection, token signing, the
// simulated payment gateway, and the donation sweep.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Token auth configuration
	JWTSecret string        // HMAC signing secret for access tokens (must be strong in production)
	JWTExpiry time.Duration // Access token lifetime

	// Simulated payment gateway
	PaymentSuccessRate float64 // Fraction of verifications that succeed, in [0,1]

	// Donation sweep worker
	DonationPendingTTL    time.Duration // Age after which a pending donation is failed
	DonationSweepInterval time.Duration // How often the sweep runs

	// Rate limiting
	APIRateLimit       int           // Requests allowed per window per client IP
	APIRateWindow      time.Duration // Sliding window for the API limiter
	LoginMaxAttempts   int           // Failed logins allowed per email before lockout
	LoginAttemptWindow time.Duration // Window for counting failed logins

	// Base URL of the deployed service, used for the health cert check
	BaseURL string

	// ClientURL is the browser origin allowed by CORS
	ClientURL string

	// DevMode includes internal error detail in API responses
	DevMode bool
}

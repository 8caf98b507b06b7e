// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SevaHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: SEVAHUB_MONGO_URI, SEVAHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "sevahub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token auth
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_expiry", Default: "720h", Desc: "Access token lifetime (e.g., 24h, 720h)"},

	// Simulated payment gateway
	{Name: "payment_success_rate", Default: "0.95", Desc: "Fraction of payment verifications that succeed, in [0,1]"},

	// Donation sweep worker
	{Name: "donation_pending_ttl", Default: "30m", Desc: "Age after which a pending donation is marked failed"},
	{Name: "donation_sweep_interval", Default: "5m", Desc: "How often the donation sweep runs"},

	// Rate limiting
	{Name: "api_rate_limit", Default: 100, Desc: "API requests allowed per window per client IP"},
	{Name: "api_rate_window", Default: "15m", Desc: "Sliding window for the API rate limiter"},
	{Name: "login_max_attempts", Default: 5, Desc: "Failed logins allowed per email before lockout"},
	{Name: "login_attempt_window", Default: "15m", Desc: "Window for counting failed logins"},

	// Deployment
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL of this service"},
	{Name: "client_url", Default: "http://localhost:3000", Desc: "Browser origin allowed by CORS"},
	{Name: "dev_mode", Default: false, Desc: "Include internal error detail in API responses"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SEVAHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SEVAHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", 720*time.Hour),

		PaymentSuccessRate: parseRate(appValues.String("payment_success_rate"), 0.95),

		DonationPendingTTL:    appValues.Duration("donation_pending_ttl", 30*time.Minute),
		DonationSweepInterval: appValues.Duration("donation_sweep_interval", 5*time.Minute),

		APIRateLimit:       appValues.Int("api_rate_limit"),
		APIRateWindow:      appValues.Duration("api_rate_window", 15*time.Minute),
		LoginMaxAttempts:   appValues.Int("login_max_attempts"),
		LoginAttemptWindow: appValues.Duration("login_attempt_window", 15*time.Minute),

		BaseURL:   appValues.String("base_url"),
		ClientURL: appValues.String("client_url"),
		DevMode:   appValues.Bool("dev_mode"),
	}

	return coreCfg, appCfg, nil
}

// parseRate parses a decimal fraction, falling back when the value is not a
// number. Range clamping happens in paysim.
func parseRate(s string, fallback float64) float64 {
	var rate float64
	if _, err := fmt.Sscanf(s, "%f", &rate); err != nil {
		return fallback
	}
	return rate
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// SevaHub validates the MongoDB URI format and the handshake knobs early,
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if appCfg.PaymentSuccessRate < 0 || appCfg.PaymentSuccessRate > 1 {
		return fmt.Errorf("payment_success_rate must be in [0,1], got %v", appCfg.PaymentSuccessRate)
	}
	if appCfg.DonationPendingTTL <= 0 {
		return fmt.Errorf("donation_pending_ttl must be positive")
	}
	if appCfg.DonationSweepInterval <= 0 {
		return fmt.Errorf("donation_sweep_interval must be positive")
	}
	return nil
}

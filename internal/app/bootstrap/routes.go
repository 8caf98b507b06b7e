// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/sevahub/sevahub/internal/app/features/accounts"
	adminfeature "github.com/sevahub/sevahub/internal/app/features/admin"
	donationsfeature "github.com/sevahub/sevahub/internal/app/features/donations"
	eventsfeature "github.com/sevahub/sevahub/internal/app/features/events"
	healthfeature "github.com/sevahub/sevahub/internal/app/features/health"
	ngosfeature "github.com/sevahub/sevahub/internal/app/features/ngos"
	paymentsfeature "github.com/sevahub/sevahub/internal/app/features/payments"
	usersfeature "github.com/sevahub/sevahub/internal/app/features/users"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/paysim"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SevaHub mounts one API subrouter per
// feature under /api, with token auth, CORS, and rate limiting applied at
// the router level.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	httpjson.SetDevMode(appCfg.DevMode)

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	apiLimiter := ratelimit.New(appCfg.APIRateLimit, appCfg.APIRateWindow)
	loginLimiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginMaxAttempts*2, appCfg.LoginAttemptWindow,
		appCfg.LoginMaxAttempts, appCfg.LoginAttemptWindow)
	decider := paysim.NewRandomDecider(appCfg.PaymentSuccessRate)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(apiLimiter.Middleware("Too many requests, please try again later"))

	// Token middleware loads the user into context when a valid token is
	// present; route groups decide whether sign-in is required.
	r.Use(tokens.LoadUser)

	r.NotFound(httpjson.NotFoundHandler)

	accountsHandler := accountsfeature.NewHandler(deps.Users, tokens, loginLimiter, logger)
	r.Mount("/api/auth", accountsfeature.Routes(accountsHandler))

	usersHandler := usersfeature.NewHandler(deps.Users, logger)
	r.Mount("/api/user", usersfeature.Routes(usersHandler, tokens))

	ngosHandler := ngosfeature.NewHandler(deps.NGOs, deps.Donations, logger)
	r.Mount("/api/ngo", ngosfeature.Routes(ngosHandler, tokens))

	eventsHandler := eventsfeature.NewHandler(deps.Events, deps.NGOs, deps.Users, logger)
	r.Mount("/api/event", eventsfeature.Routes(eventsHandler, tokens))

	donationsHandler := donationsfeature.NewHandler(deps.Donations, deps.Events, logger)
	r.Mount("/api/donate", donationsfeature.Routes(donationsHandler, tokens))

	paymentsHandler := paymentsfeature.NewHandler(deps.Donations, deps.NGOs, decider, logger)
	r.Mount("/api/payment", paymentsfeature.Routes(paymentsHandler))

	adminHandler := adminfeature.NewHandler(deps.Users, deps.NGOs, deps.Events, deps.Donations, logger)
	r.Mount("/api/admin", adminfeature.Routes(adminHandler, tokens))

	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.BaseURL, logger)
	r.Mount("/api/health", healthfeature.Routes(healthHandler))

	return r, nil
}

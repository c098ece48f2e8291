package router

import (
	"github.com/anonto42/postcraft/backend/internal/auth"
	"github.com/anonto42/postcraft/backend/internal/cache"
	"github.com/anonto42/postcraft/backend/internal/handlers"
	"github.com/anonto42/postcraft/backend/internal/middleware"
	"github.com/anonto42/postcraft/backend/internal/repositories"
	"github.com/anonto42/postcraft/backend/internal/services"
	"github.com/anonto42/postcraft/backend/internal/suggest"
	"github.com/anonto42/postcraft/backend/internal/validators"
	"github.com/anonto42/postcraft/backend/pkg/config"
	"github.com/anonto42/postcraft/backend/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the HTTP layer is built from.
// Redis, Firebase, Metrics and HealthChecks are optional.
type Dependencies struct {
	Config       *config.Config
	Log          *logrus.Logger
	Users        repositories.UserRepository
	Posts        repositories.PostRepository
	Redis        *redis.Client
	Completer    suggest.Completer
	Firebase     services.FirebaseVerifier
	Metrics      *middleware.Metrics
	HealthChecks map[string]handlers.HealthCheck
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg, log := deps.Config, deps.Log

	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler(log)
	config.SetupMiddleware(e, cfg, log)
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.HealthChecks).Health)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	cookies := auth.NewCookieManager(cfg.IsProduction())
	profileCache := cache.NewProfileCache(deps.Redis, cfg.ProfileCacheTTL, log)

	authService := services.NewAuthService(deps.Users, deps.Posts, tokens, cfg.ProfilePicAPI, log)
	profileService := services.NewProfileService(deps.Users, deps.Posts, profileCache, log)
	postService := services.NewPostService(deps.Posts, profileCache, log)
	suggestService := suggest.NewService(deps.Completer, log)

	api := e.Group("/api")

	// --- Unprotected routes ---
	authHandler := handlers.NewAuthHandler(authService, tokens, cookies, deps.Firebase, log)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))

	suggestionHandler := handlers.NewSuggestionHandler(suggestService, log)
	suggestionHandler.RegisterSuggestionRoutes(api.Group("/openai"),
		middleware.RateLimit(deps.Redis, cfg.AutocompleteRateLimit, cfg.AutocompleteRateWindow, middleware.KeyByIP("autocomplete"), log))

	// --- Protected routes (require a session token) ---
	session := middleware.JWTAuthMiddleware(tokens)

	userHandler := handlers.NewUserHandler(profileService, log)
	userHandler.RegisterProfileRoutes(api.Group("/profile", session))

	postHandler := handlers.NewPostHandler(postService, log)
	postHandler.RegisterPostRoutes(api.Group("/posts", session))

	log.WithField("firebase", deps.Firebase != nil).Info("routes configured")
}

// Package main is the entrypoint for the filmstack API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/cache"
	"github.com/filmstack/filmstack/internal/config"
	"github.com/filmstack/filmstack/internal/handler"
	"github.com/filmstack/filmstack/internal/mail"
	"github.com/filmstack/filmstack/internal/metrics"
	"github.com/filmstack/filmstack/internal/middleware"
	"github.com/filmstack/filmstack/internal/repository"
	"github.com/filmstack/filmstack/internal/server"
	"github.com/filmstack/filmstack/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := repository.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	var mailer mail.Sender
	if cfg.MailConfigured() {
		mailer, err = mail.NewMailer(cfg)
		if err != nil {
			logger.Error("failed to configure mail transport", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("mail transport configured", slog.String("host", cfg.SMTPHost))
	} else {
		mailer = &mail.LogSender{Logger: logger}
		logger.Warn("no SMTP host configured, verification tokens will be logged")
	}

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.VerifyTokenTTL)
	recorder := metrics.NewInMemory()

	userService := service.NewUserService(repo)
	authService := service.NewAuthService(userService, repo, repo, cacheClient, tokenManager, mailer, logger, recorder)
	movieService := service.NewMovieService(repo, recorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	movieHandler := handler.NewMovieHandler(movieService, userService, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(h, healthHandler, authHandler, userHandler, movieHandler, metricsHandler, authService, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	movieHandler *handler.MovieHandler,
	metricsHandler *handler.MetricsHandler,
	authService *service.AuthService,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(cfg.IsDevelopment()))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/", h.Info)

	guard := middleware.Auth(authService, logger)

	// Counter values leak usage patterns, so the exposition endpoint sits
	// behind the same bearer guard as the catalog.
	r.With(guard).Get("/metrics", metricsHandler.Metrics)

	loginLimit := middleware.RateLimitLogin(middleware.RateLimitConfig{
		Logger:  logger,
		Limiter: cacheClient,
		Enabled: cfg.LoginRateLimitEnabled,
		RPS:     cfg.LoginRateLimitRPS,
		Burst:   cfg.LoginRateLimitBurst,
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login/user", authHandler.Login)
		r.Post("/register/user", authHandler.Register)
		r.With(guard).Post("/logout", authHandler.Logout)
		r.Patch("/{id}/change-password", authHandler.ChangePassword)
		r.Post("/send-token", authHandler.SendToken)
		r.Post("/verify-token", authHandler.VerifyToken)
		r.Post("/confirm-email", authHandler.ConfirmEmail)
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	r.Route("/movie", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", movieHandler.List)
		r.Get("/restrict", movieHandler.Restricted)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}

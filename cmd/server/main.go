package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/eforms/internal/adapters/handler/http"
	"github.com/vncsmyrnk/eforms/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/eforms/internal/config"
	"github.com/vncsmyrnk/eforms/internal/core/services"
	"github.com/vncsmyrnk/eforms/internal/logger"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		Development: cfg.Server.Mode == "debug",
	})
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to reach database", zap.Error(err))
	}

	formRepo := postgres.NewFormRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	resultRepo := postgres.NewFormResultRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	formSvc := services.NewFormService(formRepo)
	responseSvc := services.NewResponseService(formSvc, responseRepo, resultRepo, log)
	analyticsSvc := services.NewAnalyticsService(formSvc, responseRepo, resultRepo)
	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, services.AuthOptions{
		JWTSecret:       []byte(cfg.JWT.Secret),
		AccessTokenTTL:  cfg.JWT.AccessTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTTL,
	})

	metrics := http.NewMetrics()
	handler := http.NewHandler(http.Handlers{
		Forms:     http.NewFormHandler(formSvc, analyticsSvc, log),
		Responses: http.NewResponseHandler(responseSvc, metrics, log),
		Auth: http.NewAuthHandler(authSvc, http.CookieOptions{
			Domain:     cfg.Cookie.Domain,
			SameSite:   cfg.Cookie.SameSiteMode(),
			Secure:     cfg.Cookie.Secure,
			AccessTTL:  cfg.JWT.AccessTTL,
			RefreshTTL: cfg.JWT.RefreshTTL,
		}, log),
		Users:       http.NewUserHandler(userSvc, log),
		RequireAuth: http.NewAuthMiddleware(authSvc),
	}, http.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimit:      cfg.RateLimit.MaxRequests,
		RateWindow:     cfg.RateLimit.Window,
		Metrics:        metrics,
		Logger:         log,
	})

	server := &stdhttp.Server{Addr: cfg.Server.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}

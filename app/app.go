// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-account-api/config"
	"go-account-api/db"
	"go-account-api/handler"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"go-account-api/router"
	"go-account-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// App holds the wired dependencies of the service.
type App struct {
	DB     *sql.DB
	Router http.Handler
	Codec  *service.TokenCodec
	Issuer *service.TokenIssuer
}

// New wires repositories, services, handlers and the router for cfg.
// cache may be nil, in which case caching is disabled.
func New(cfg config.Config, database *sql.DB, cache service.ICacheClient) (*App, error) {
	codec, err := service.NewTokenCodec(service.CodecConfig{
		Secret:           []byte(cfg.JWT.SecretKey),
		Algorithm:        cfg.JWT.Algorithm,
		Issuer:           cfg.JWT.Issuer,
		AccessTTL:        time.Duration(cfg.JWT.AccessTokenTTLMinutes) * time.Minute,
		RefreshTTL:       time.Duration(cfg.JWT.RefreshTokenTTLHours) * time.Hour,
		EnforceNotBefore: cfg.JWT.EnforceNotBefore,
	})
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer := service.NewTokenIssuer(codec, tokenRepo)

	userService := service.NewUserService(userRepo, hasher, cache, time.Duration(cfg.Cache.UsersTTLSeconds)*time.Second)
	authService := service.NewAuthService(userRepo, hasher, issuer)

	handlers := router.Handlers{
		User:        handler.NewUserHandler(userService),
		Auth:        handler.NewAuthHandler(authService),
		AccessGate:  handler.NewAuthGate(model.TokenAccess, cfg.JWT.AccessHeader, codec, tokenRepo),
		RefreshGate: handler.NewAuthGate(model.TokenRefresh, cfg.JWT.RefreshHeader, codec, tokenRepo),
	}
	if database != nil {
		handlers.DB = database
	}
	r := router.NewRouter(handlers)

	return &App{DB: database, Router: r, Codec: codec, Issuer: issuer}, nil
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(db.URL()); err != nil {
		logger.Log.Fatalf("Error migrating the database: %v", err)
	}

	var cache service.ICacheClient = service.NopCache{}
	if config.AppConfig.Redis.Enabled {
		rdb, err := db.ConnectRedis(context.Background())
		if err != nil {
			logger.Log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rdb.Close()
		cache = rdb
	}

	application, err := New(config.AppConfig, database, cache)
	if err != nil {
		logger.Log.Fatalf("Error building the application: %v", err)
	}

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

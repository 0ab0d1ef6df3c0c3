package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"userhub/internal/api"
	appcache "userhub/internal/app/cache"
	"userhub/internal/app/service"
	"userhub/internal/common/security"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/cache"
	"userhub/internal/platform/config"
	"userhub/internal/platform/database"
	"userhub/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize Logger
	if err := logger.Init(config.AppConfig.LogLevel, config.AppConfig.LogFormat); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := zap.L()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	cache.Connect()
	defer cache.Close()

	// 5. Repositories
	userRepo := repository.NewPgUserRepository(database.DB)

	// 6. Token issuer, caches, services
	issuer := security.NewTokenIssuer(config.AppConfig.JWTKey, config.AppConfig.AccessTokenTTL)
	sessionStore := appcache.NewSessionStore(cache.RDB)
	userCache := appcache.NewUserCache(cache.RDB, userRepo)

	authService := service.NewAuthService(userRepo, issuer, sessionStore, config.AppConfig.SessionSalt)
	userService := service.NewUserService(userRepo, userCache)

	// 7. Router & HTTP Server
	router := api.NewRouter(issuer, authService, userService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Could not start server", zap.Error(err))
		}
	}()

	<-stop

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/KOFI-GYIMAH/repo-scorer/docs"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/cache"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/config"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/github"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/handler"
	md "github.com/KOFI-GYIMAH/repo-scorer/internal/middleware"
	"github.com/KOFI-GYIMAH/repo-scorer/internal/service"
	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title GitHub Repository Scorer
// @version 1.0.0
// @description Searches GitHub repositories and ranks them by popularity score.
// @host localhost:8081
// @BasePath /
func main() {
	// * Load configuration
	cfg, err := config.LoadConfiguration()
	if err != nil {
		logger.Error("‼️ Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	// * Initialize GitHub client
	githubClient := github.NewClient(cfg.GitHubToken)

	// * Search cache lives for the whole process
	searchCache := cache.New[github.SearchQuery, []github.Repository](cfg.CacheTTL)
	logger.Info("Search cache TTL set to %s", searchCache.TTL())

	// * Create services
	fetcher := service.NewFetcher(githubClient, searchCache)
	repoService := service.NewRepositoryService(fetcher)

	// * Create API server
	apiHandler := handler.NewRepositoryHandler(repoService, githubClient)
	router := mux.NewRouter()
	router.Use(md.LoggingMiddleware, md.RecoveryMiddleware)

	apiHandler.RegisterRoutes(router)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("Starting API server on %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error: %v", err)
			os.Exit(1)
		}
	}()

	// * Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/sentrakyc/veriwatch/analyzer/internal/config"
	"github.com/sentrakyc/veriwatch/analyzer/internal/handlers"
	"github.com/sentrakyc/veriwatch/analyzer/internal/server"
	"github.com/sentrakyc/veriwatch/analyzer/internal/service"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/loader"
	"github.com/sentrakyc/veriwatch/common/logging"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	// Load the verification log
	result, err := loader.LoadFile(cfg.Data.Path)
	if err != nil {
		log.Fatalf("Failed to load verification log: %v", err)
	}
	logger.Info("verification log loaded",
		"path", cfg.Data.Path,
		"events", len(result.Events),
		"unparseable_timestamps", result.UnparseableTimestamps,
	)

	// Optional Redis report cache
	var cache *service.ReportCache
	if cfg.Cache.Enabled {
		redisOpts, err := redis.ParseURL(cfg.Cache.URL)
		if err != nil {
			log.Fatalf("Failed to parse cache URL: %v", err)
		}
		cache = service.NewReportCache(redis.NewClient(redisOpts), cfg.Cache.TTL, true)
		logger.Info("report cache enabled", "ttl", cfg.Cache.TTL)
	}

	defaults := analysis.Options{
		RapidFireWindow: cfg.Analysis.RapidFireWindow,
		SpikeSigma:      cfg.Analysis.SpikeSigma,
		RepeatTopN:      cfg.Analysis.RepeatTopN,
	}
	svc := service.New(result.Events, result.UnparseableTimestamps, defaults, cache, logger)
	handler := handlers.NewHandler(svc, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("analyzer service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server stopped gracefully")
}

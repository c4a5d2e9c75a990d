package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rai-openclaw/mission-control/internal/api"
	"github.com/rai-openclaw/mission-control/internal/coingecko"
	"github.com/rai-openclaw/mission-control/internal/config"
	"github.com/rai-openclaw/mission-control/internal/database"
	"github.com/rai-openclaw/mission-control/internal/finnhub"
	"github.com/rai-openclaw/mission-control/internal/holdings"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/repository"
	"github.com/rai-openclaw/mission-control/internal/service"
	"github.com/rai-openclaw/mission-control/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open price history database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Holdings source and price cache
	holdingsSource := holdings.NewFileSource(cfg.Data.HoldingsFile)

	store := pricestore.NewStore()
	if snap, err := pricestore.LoadFile(cfg.Data.PriceCacheFile); err != nil {
		log.Printf("Failed to load price cache, starting empty: %v", err)
	} else {
		store.Replace(snap)
		log.Printf("Loaded price cache: %d entries", snap.Len())
	}
	resolver := pricestore.NewResolver(store)

	// Repositories and services
	historyRepo := repository.NewPriceHistoryRepository(db)
	systemService := service.NewSystemService(db)
	aggregationService := service.NewAggregationService(holdingsSource, resolver)
	refreshService := service.NewRefreshService(
		holdingsSource,
		store,
		cfg.Data.PriceCacheFile,
		finnhub.NewClient(cfg.Providers.FinnhubAPIKey),
		yahoo.NewFinanceClient(),
		coingecko.NewClient(),
		historyRepo,
		cfg.Refresh.Timeout,
		cfg.Refresh.MaxParallel,
	)

	// Scheduled price refresh
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Refresh.Schedule, func() {
		result, err := refreshService.RefreshPrices(context.Background())
		if err != nil {
			log.Printf("Scheduled price refresh failed: %v", err)
			return
		}
		log.Printf("Scheduled price refresh: %d updated (%d stocks, %d crypto), %d failed",
			result.Updated, result.Stocks, result.Crypto, len(result.Failed))
	})
	if err != nil {
		log.Fatalf("Invalid refresh schedule %q: %v", cfg.Refresh.Schedule, err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(systemService, aggregationService, refreshService, store, historyRepo, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the scheduler, waiting for a running refresh to finish
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

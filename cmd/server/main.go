package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flashmart/flashmart-service/internal/application/use_cases"
	"github.com/flashmart/flashmart-service/internal/config"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/server"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
	"github.com/flashmart/flashmart-service/internal/infrastructure/persistence/postgres"
	"github.com/flashmart/flashmart-service/internal/infrastructure/persistence/redis"
	"github.com/flashmart/flashmart-service/internal/infrastructure/scheduler"
	"github.com/flashmart/flashmart-service/internal/pkg/clock"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		logger.NewLogger().Fatal("Failed to load configuration", "error", configErr)
	}

	log := logger.NewLoggerWithLevel(logger.ParseLevel(cfg.Log.Level))
	log.Info("Starting FlashMart Service")

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	if cfg.SeedData {
		if err := postgres.Seed(context.Background(), db, cfg.Auth.BcryptCost); err != nil {
			log.Fatal("Failed to seed database", "error", err)
		}
		log.Info("Seed data loaded")
	}

	redisConn, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	clk := clock.NewRealClock()

	statusUseCase := use_cases.NewSaleStatusUseCase(
		postgres.NewFlashSaleRepository(db),
		redis.NewCache(redisConn, log),
		clk,
		log,
		time.Duration(cfg.Status.CacheTTLSeconds)*time.Second,
	)
	statusScheduler := scheduler.NewStatusScheduler(
		statusUseCase,
		log,
		time.Duration(cfg.Status.RefreshIntervalSeconds)*time.Second,
	)

	httpServer := server.NewServer(cfg, db, redisConn, statusUseCase, clk, log)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go statusScheduler.Start(serverCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		statusScheduler.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}

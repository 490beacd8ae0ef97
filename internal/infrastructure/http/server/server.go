package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flashmart/flashmart-service/internal/application/use_cases"
	"github.com/flashmart/flashmart-service/internal/config"
	"github.com/flashmart/flashmart-service/internal/infrastructure/auth"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/handlers"
	"github.com/flashmart/flashmart-service/internal/infrastructure/persistence/postgres"
	"github.com/flashmart/flashmart-service/internal/infrastructure/persistence/redis"
	"github.com/flashmart/flashmart-service/internal/pkg/clock"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type Server struct {
	server *http.Server
	logger *logger.Logger

	authService *auth.Service

	healthHandler    *handlers.HealthHandler
	authHandler      *handlers.AuthHandler
	productHandler   *handlers.ProductHandler
	flashSaleHandler *handlers.FlashSaleHandler
	purchaseHandler  *handlers.PurchaseHandler
	userHandler      *handlers.UserHandler
}

func NewServer(cfg *config.Config, conn *postgres.Connection, redisConn *redis.Connection, statusUseCase *use_cases.SaleStatusUseCase, clk clock.Clock, log *logger.Logger) *Server {
	productRepo := postgres.NewProductRepository(conn)
	saleRepo := postgres.NewFlashSaleRepository(conn)
	purchaseRepo := postgres.NewPurchaseRepository(conn)
	userRepo := postgres.NewUserRepository(conn)
	admissionStore := postgres.NewAdmissionStore(conn)

	cache := redis.NewCache(redisConn, log)

	authService := auth.NewService(
		userRepo,
		cache,
		log,
		time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute,
		cfg.Auth.BcryptCost,
	)

	admitUseCase := use_cases.NewAdmitPurchaseUseCase(admissionStore, clk, log, cfg.Purchase.SingleRegularPurchase)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:           server,
		logger:           log,
		authService:      authService,
		healthHandler:    handlers.NewHealthHandler(conn.GetDB(), redisConn.GetClient(), log),
		authHandler:      handlers.NewAuthHandler(authService, log),
		productHandler:   handlers.NewProductHandler(productRepo, log),
		flashSaleHandler: handlers.NewFlashSaleHandler(saleRepo, statusUseCase, log),
		purchaseHandler:  handlers.NewPurchaseHandler(admitUseCase, purchaseRepo, log),
		userHandler:      handlers.NewUserHandler(userRepo, authService, log),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flashmart/flashmart-service/internal/infrastructure/http/middleware"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/auth/login", methodOnly(http.MethodPost, s.authHandler.HandleLogin))
	mux.HandleFunc("/auth/logout", methodOnly(http.MethodPost, s.authHandler.HandleLogout))
	mux.HandleFunc("/auth/me", methodOnly(http.MethodGet, middleware.RequireUser(s.authService, s.authHandler.HandleMe)))

	mux.HandleFunc("/products", s.handleProductCollection)
	mux.HandleFunc("/products/", s.handleProductRoutes)

	mux.HandleFunc("/flash-sales/status", methodOnly(http.MethodGet, s.flashSaleHandler.HandleStatus))
	mux.HandleFunc("/flash-sales", s.handleSaleCollection)
	mux.HandleFunc("/flash-sales/", s.handleSaleRoutes)

	mux.HandleFunc("/purchases", methodOnly(http.MethodPost,
		middleware.RequireUser(s.authService, s.purchaseHandler.HandleCreate)))
	mux.HandleFunc("/purchases/history", methodOnly(http.MethodGet,
		middleware.RequireUser(s.authService, s.purchaseHandler.HandleHistory)))
	mux.HandleFunc("/purchases/", s.handlePurchaseRoutes)

	mux.HandleFunc("/users", s.handleUserCollection)
	mux.HandleFunc("/users/", s.handleUserRoutes)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func pathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleProductCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.productHandler.HandleList(w, r)
	case http.MethodPost:
		middleware.RequireAdmin(s.authService, s.productHandler.HandleCreate)(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProductRoutes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/products/"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.productHandler.HandleGet(w, r, id)
	case http.MethodPut:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.productHandler.HandleUpdate(w, r, id)
		})(w, r)
	case http.MethodDelete:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.productHandler.HandleDelete(w, r, id)
		})(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSaleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		middleware.RequireAdmin(s.authService, s.flashSaleHandler.HandleList)(w, r)
	case http.MethodPost:
		middleware.RequireAdmin(s.authService, s.flashSaleHandler.HandleCreate)(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSaleRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/flash-sales/")
	parts := strings.Split(path, "/")

	saleID, ok := pathID(parts[0])
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
				s.flashSaleHandler.HandleGet(w, r, saleID)
			})(w, r)
		case http.MethodPut:
			middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
				s.flashSaleHandler.HandleUpdate(w, r, saleID)
			})(w, r)
		case http.MethodDelete:
			middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
				s.flashSaleHandler.HandleDelete(w, r, saleID)
			})(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "products" && r.Method == http.MethodPost:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.flashSaleHandler.HandleAttachProduct(w, r, saleID)
		})(w, r)
	case len(parts) == 3 && parts[1] == "products" && r.Method == http.MethodDelete:
		productID, ok := pathID(parts[2])
		if !ok {
			http.NotFound(w, r)
			return
		}
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.flashSaleHandler.HandleDetachProduct(w, r, saleID, productID)
		})(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handlePurchaseRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/purchases/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id, ok := pathID(parts[1])
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch parts[0] {
	case "check":
		middleware.RequireUser(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.purchaseHandler.HandleCheck(w, r, id)
		})(w, r)
	case "user":
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.purchaseHandler.HandleUserHistory(w, r, id)
		})(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleUserCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		middleware.RequireAdmin(s.authService, s.userHandler.HandleList)(w, r)
	case http.MethodPost:
		middleware.RequireAdmin(s.authService, s.userHandler.HandleCreate)(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUserRoutes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimPrefix(r.URL.Path, "/users/"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.userHandler.HandleGet(w, r, id)
		})(w, r)
	case http.MethodPut:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.userHandler.HandleUpdate(w, r, id)
		})(w, r)
	case http.MethodDelete:
		middleware.RequireAdmin(s.authService, func(w http.ResponseWriter, r *http.Request) {
			s.userHandler.HandleDelete(w, r, id)
		})(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 60*time.Second, "Request timeout")
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/infrastructure/auth"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/middleware"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type AuthHandler struct {
	auth *auth.Service
	log  *logger.Logger
}

func NewAuthHandler(authSvc *auth.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: authSvc,
		log:  log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  IdentityResponse `json:"user"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	if req.Username == "" || req.Password == "" {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"credentials": "username and password are required",
		})
		return
	}

	token, identity, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, loginResponse{
		Token: token,
		User:  toIdentityResponse(identity),
	})
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteDomainError(w, domainErrors.ErrUnauthorized)
		return
	}

	response.WriteSuccess(w, toIdentityResponse(identity))
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := ""
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		token = parts[1]
	}

	if token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.log.Warn("Failed to revoke session", "error", err.Error())
		}
	}

	response.WriteSuccess(w, map[string]string{"message": "Logged out"})
}

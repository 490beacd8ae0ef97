package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/infrastructure/auth"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type UserHandler struct {
	users ports.UserRepository
	auth  *auth.Service
	log   *logger.Logger
}

func NewUserHandler(users ports.UserRepository, authSvc *auth.Service, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		auth:  authSvc,
		log:   log,
	}
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	response.WriteSuccess(w, resp)
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request, id int64) {
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, toUserResponse(u))
}

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (req *userRequest) validate(requirePassword bool) map[string]string {
	errs := make(map[string]string)
	if req.Username == "" {
		errs["username"] = "username is required"
	}
	if req.Email == "" {
		errs["email"] = "email is required"
	}
	if requirePassword && req.Password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	if errs := req.validate(true); errs != nil {
		response.WriteValidationError(w, "Validation failed", errs)
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	created, err := h.users.Create(r.Context(), &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("User created", "user_id", created.ID, "username", created.Username, "is_admin", created.IsAdmin)

	response.WriteCreated(w, toUserResponse(created))
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	if errs := req.validate(false); errs != nil {
		response.WriteValidationError(w, "Validation failed", errs)
		return
	}

	existing, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	existing.Username = req.Username
	existing.Email = req.Email
	existing.IsAdmin = req.IsAdmin
	if req.Password != "" {
		hash, err := h.auth.HashPassword(req.Password)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}
		existing.PasswordHash = hash
	}

	updated, err := h.users.Update(r.Context(), existing)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("User updated", "user_id", updated.ID)

	response.WriteSuccess(w, toUserResponse(updated))
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.users.Delete(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("User deleted", "user_id", id)

	response.WriteSuccess(w, map[string]string{"message": "User deleted"})
}

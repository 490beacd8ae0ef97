package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

// Service issues and resolves login sessions. Passwords are stored as
// bcrypt hashes; session tokens are opaque and live in the session store
// until their TTL runs out.
type Service struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	logger     *logger.Logger
	sessionTTL time.Duration
	bcryptCost int
}

func NewService(users ports.UserRepository, sessions ports.SessionStore, log *logger.Logger, sessionTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		logger:     log,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Login verifies the credentials and returns a fresh session token with
// the authenticated identity. Unknown usernames and wrong passwords fail
// identically so the endpoint does not leak which accounts exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.Identity, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return "", nil, domainErrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domainErrors.ErrInvalidCredentials
	}

	identity := user.Identity{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}

	token, err := s.sessions.CreateSession(ctx, identity, s.sessionTTL)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User logged in", "user_id", u.ID, "username", u.Username)

	return token, &identity, nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.Identity, error) {
	if token == "" {
		return nil, domainErrors.ErrUnauthorized
	}
	return s.sessions.GetSession(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// HashPassword hashes a plaintext password for storage on user rows.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

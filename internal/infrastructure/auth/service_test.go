package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainErrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return nil, nil }
func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	return u, nil
}
func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) (*user.User, error) {
	return u, nil
}
func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeSessionStore struct {
	sessions map[string]user.Identity
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]user.Identity)}
}

func (s *fakeSessionStore) CreateSession(ctx context.Context, identity user.Identity, ttl time.Duration) (string, error) {
	s.nextID++
	token := string(rune('a' + s.nextID))
	s.sessions[token] = identity
	return token, nil
}

func (s *fakeSessionStore) GetSession(ctx context.Context, token string) (*user.Identity, error) {
	identity, ok := s.sessions[token]
	if !ok {
		return nil, domainErrors.ErrUnauthorized
	}
	return &identity, nil
}

func (s *fakeSessionStore) DeleteSession(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeSessionStore) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Satu123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*user.User{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash), IsAdmin: true},
	}}
	sessions := newFakeSessionStore()
	log := logger.NewLoggerWithLevel(logger.LevelFatal)

	return NewService(repo, sessions, log, time.Hour, bcrypt.MinCost), sessions
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	token, identity, err := svc.Login(context.Background(), "admin", "Satu123")
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), identity.UserID)
	assert.True(t, identity.IsAdmin)

	resolved, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, resolved.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestLoginUnknownUserFailsIdentically(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody", "Satu123")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestAuthenticateEmptyToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domainErrors.ErrUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestService(t)

	token, _, err := svc.Login(context.Background(), "admin", "Satu123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domainErrors.ErrUnauthorized)
	assert.Empty(t, sessions.sessions)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	hash, err := svc.HashPassword("secret")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("other")))
}

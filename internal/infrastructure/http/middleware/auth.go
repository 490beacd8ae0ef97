package middleware

import (
	"context"
	"net/http"
	"strings"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a bearer token to the identity it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Identity, error)
}

// IdentityFromContext returns the caller identity placed by RequireUser
// or RequireAdmin.
func IdentityFromContext(ctx context.Context) (*user.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*user.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireUser rejects requests without a valid session and stores the
// resolved identity on the request context.
func RequireUser(authn Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := authn.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin additionally rejects non-admin sessions.
func RequireAdmin(authn Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return RequireUser(authn, func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin {
			response.WriteDomainError(w, domainErrors.ErrForbidden)
			return
		}
		next(w, r)
	})
}

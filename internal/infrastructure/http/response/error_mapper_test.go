package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{domainErrors.ErrProductNotFound, http.StatusNotFound},
		{domainErrors.ErrFlashSaleNotFound, http.StatusNotFound},
		{domainErrors.ErrUserNotFound, http.StatusNotFound},
		{domainErrors.ErrAssociationNotFound, http.StatusNotFound},
		{domainErrors.ErrInsufficientStock, http.StatusBadRequest},
		{domainErrors.ErrFlashSaleNotApplicable, http.StatusBadRequest},
		{domainErrors.ErrFlashSaleNotActive, http.StatusBadRequest},
		{domainErrors.ErrQuotaExceeded, http.StatusBadRequest},
		{domainErrors.ErrAlreadyPurchased, http.StatusBadRequest},
		{domainErrors.ErrAlreadyRedeemed, http.StatusConflict},
		{domainErrors.ErrConflictingAssociation, http.StatusConflict},
		{domainErrors.ErrDuplicateUser, http.StatusConflict},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainErrors.ErrUnauthorized, http.StatusUnauthorized},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{domainErrors.ErrTransactionFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		status, resp := MapDomainError(tc.err)
		assert.Equal(t, tc.wantStatus, status, "error %v", tc.err)
		assert.NotEmpty(t, resp.Message)
	}
}

func TestMapDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("%w: commit failed", domainErrors.ErrTransactionFailed)

	status, _ := MapDomainError(wrapped)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestMapDomainErrorUnknownFallsBack(t *testing.T) {
	status, resp := MapDomainError(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", resp.Message)
}

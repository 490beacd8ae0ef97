package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrProductNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Product not found",
	},
	domainErrors.ErrInsufficientStock: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Insufficient stock",
	},
	domainErrors.ErrFlashSaleNotApplicable: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Product is not part of this flash sale",
	},
	domainErrors.ErrFlashSaleNotActive: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Flash sale is not active",
	},
	domainErrors.ErrAlreadyRedeemed: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Flash sale offer already redeemed",
	},
	domainErrors.ErrQuotaExceeded: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Quantity exceeds the per-user limit",
	},
	domainErrors.ErrAlreadyPurchased: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Product already purchased",
	},
	domainErrors.ErrFlashSaleNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Flash sale not found",
	},
	domainErrors.ErrConflictingAssociation: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Product is already in this flash sale",
	},
	domainErrors.ErrAssociationNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Product is not in this flash sale",
	},
	domainErrors.ErrUserNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "User not found",
	},
	domainErrors.ErrDuplicateUser: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Username or email already taken",
	},
	domainErrors.ErrInvalidCredentials: {
		HTTPStatus: http.StatusUnauthorized,
		Status:     StatusUnauthorized,
		Message:    "Invalid username or password",
	},
	domainErrors.ErrUnauthorized: {
		HTTPStatus: http.StatusUnauthorized,
		Status:     StatusUnauthorized,
		Message:    "Authentication required",
	},
	domainErrors.ErrForbidden: {
		HTTPStatus: http.StatusForbidden,
		Status:     StatusForbidden,
		Message:    "Admin access required",
	},
	domainErrors.ErrTransactionFailed: {
		HTTPStatus: http.StatusInternalServerError,
		Status:     StatusInternalError,
		Message:    "Transaction failed",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message)
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error")
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}

package errors

import (
	"errors"
)

// Admission rejections. Each one maps to exactly one condition checked
// inside the purchase transaction, in the order the engine checks them.
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("not enough stock available")
	ErrFlashSaleNotApplicable = errors.New("flash sale not found or product is not part of this flash sale")
	ErrFlashSaleNotActive     = errors.New("flash sale is not active at this time")
	ErrAlreadyRedeemed        = errors.New("product already purchased in this flash sale")
	ErrQuotaExceeded          = errors.New("quantity exceeds the per-user limit for this flash sale")
	ErrAlreadyPurchased       = errors.New("product already purchased")
)

// Registry and CRUD errors.
var (
	ErrFlashSaleNotFound      = errors.New("flash sale not found")
	ErrConflictingAssociation = errors.New("product is already part of this flash sale")
	ErrAssociationNotFound    = errors.New("product not found in this flash sale")
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateUser          = errors.New("username or email already exists")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin access required")
)

// ErrTransactionFailed covers storage-layer failures (connection loss, lock
// timeout). The transaction is rolled back before this is returned.
var ErrTransactionFailed = errors.New("transaction failed")

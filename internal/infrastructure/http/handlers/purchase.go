package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/application/use_cases"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/middleware"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type PurchaseHandler struct {
	admission *use_cases.AdmitPurchaseUseCase
	purchases ports.PurchaseRepository
	log       *logger.Logger
}

func NewPurchaseHandler(admission *use_cases.AdmitPurchaseUseCase, purchases ports.PurchaseRepository, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		admission: admission,
		purchases: purchases,
		log:       log,
	}
}

type purchaseRequest struct {
	ProductID   int64  `json:"product_id"`
	FlashSaleID *int64 `json:"flash_sale_id"`
	Quantity    int    `json:"quantity"`
}

// HandleCreate runs the admission engine for the authenticated caller.
func (h *PurchaseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteDomainError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.ProductID < 1 || req.Quantity < 1 {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product_id": "product_id is required and quantity must be positive",
		})
		return
	}

	monitoring.RecordAdmissionAttempt()

	result, err := h.admission.Execute(r.Context(), use_cases.AdmissionRequest{
		UserID:      identity.UserID,
		ProductID:   req.ProductID,
		FlashSaleID: req.FlashSaleID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.log.Warn("Purchase rejected",
			"user_id", identity.UserID,
			"product_id", req.ProductID,
			"error", err.Error(),
		)
		monitoring.RecordAdmissionRejection(rejectionReason(err))
		response.WriteDomainError(w, err)
		return
	}

	p := result.Purchase
	monitoring.RecordAdmissionSuccess(strconv.FormatInt(p.ProductID, 10), p.Quantity, result.RemainingStock)

	response.WriteCreated(w, toPurchaseResponse(p))
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domainErrors.ErrFlashSaleNotApplicable):
		return "sale_not_applicable"
	case errors.Is(err, domainErrors.ErrFlashSaleNotActive):
		return "sale_not_active"
	case errors.Is(err, domainErrors.ErrAlreadyRedeemed):
		return "already_redeemed"
	case errors.Is(err, domainErrors.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, domainErrors.ErrAlreadyPurchased):
		return "already_purchased"
	default:
		return "internal_error"
	}
}

// HandleHistory returns the caller's own purchases, newest first.
func (h *PurchaseHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteDomainError(w, domainErrors.ErrUnauthorized)
		return
	}

	h.writeHistory(w, r, identity.UserID)
}

// HandleUserHistory returns any user's purchases for admin review.
func (h *PurchaseHandler) HandleUserHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	h.writeHistory(w, r, userID)
}

func (h *PurchaseHandler) writeHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	records, err := h.purchases.HistoryByUser(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to load purchase history", "user_id", userID, "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	resp := make([]PurchaseRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toPurchaseRecordResponse(rec))
	}

	response.WriteSuccess(w, resp)
}

type purchaseCheckResponse struct {
	Purchased bool              `json:"purchased"`
	Purchase  *PurchaseResponse `json:"purchase,omitempty"`
}

// HandleCheck reports whether the caller already bought the product.
func (h *PurchaseHandler) HandleCheck(w http.ResponseWriter, r *http.Request, productID int64) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.WriteDomainError(w, domainErrors.ErrUnauthorized)
		return
	}

	p, err := h.purchases.FindByUserAndProduct(r.Context(), identity.UserID, productID)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	resp := purchaseCheckResponse{Purchased: p != nil}
	if p != nil {
		pr := toPurchaseResponse(p)
		resp.Purchase = &pr
	}

	response.WriteSuccess(w, resp)
}

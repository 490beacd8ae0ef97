package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/application/use_cases"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type FlashSaleHandler struct {
	sales  ports.FlashSaleRepository
	status *use_cases.SaleStatusUseCase
	log    *logger.Logger
}

func NewFlashSaleHandler(sales ports.FlashSaleRepository, status *use_cases.SaleStatusUseCase, log *logger.Logger) *FlashSaleHandler {
	return &FlashSaleHandler{
		sales:  sales,
		status: status,
		log:    log,
	}
}

// HandleStatus serves the public status endpoint through the cache.
func (h *FlashSaleHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.status.ResolveCached(r.Context())
	if err != nil {
		h.log.Error("Failed to resolve sale status", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, toSaleStatusResponse(result))
}

func (h *FlashSaleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	resp := make([]FlashSaleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, toSaleOverviewResponse(&sales[i]))
	}

	response.WriteSuccess(w, resp)
}

type saleDetailResponse struct {
	FlashSaleResponse
	Products []OfferedProductResponse `json:"products"`
}

func (h *FlashSaleHandler) HandleGet(w http.ResponseWriter, r *http.Request, id int64) {
	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	products, err := h.sales.GetSaleProducts(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	resp := saleDetailResponse{
		FlashSaleResponse: toFlashSaleResponse(sale),
		Products:          make([]OfferedProductResponse, 0, len(products)),
	}
	for _, op := range products {
		resp.Products = append(resp.Products, toOfferedProductResponse(op))
	}

	response.WriteSuccess(w, resp)
}

type saleRequest struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsActive  *bool     `json:"is_active"`
}

func (h *FlashSaleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	sale, err := promo.NewFlashSale(req.Name, req.StartTime, req.EndTime)
	if err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"flash_sale": err.Error(),
		})
		return
	}
	if req.IsActive != nil {
		sale.IsActive = *req.IsActive
	}

	created, err := h.sales.CreateSale(r.Context(), sale)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Flash sale created", "flash_sale_id", created.ID, "name", created.Name)

	response.WriteCreated(w, toFlashSaleResponse(created))
}

func (h *FlashSaleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	sale, err := promo.NewFlashSale(req.Name, req.StartTime, req.EndTime)
	if err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"flash_sale": err.Error(),
		})
		return
	}
	sale.ID = id
	if req.IsActive != nil {
		sale.IsActive = *req.IsActive
	}

	updated, err := h.sales.UpdateSale(r.Context(), sale)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Flash sale updated", "flash_sale_id", updated.ID)

	response.WriteSuccess(w, toFlashSaleResponse(updated))
}

func (h *FlashSaleHandler) HandleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.sales.DeleteSale(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Flash sale deleted", "flash_sale_id", id)

	response.WriteSuccess(w, map[string]string{"message": "Flash sale deleted"})
}

type attachProductRequest struct {
	ProductID          int64 `json:"product_id"`
	DiscountPercentage int   `json:"discount_percentage"`
	MaxQuantityPerUser int   `json:"max_quantity_per_user"`
}

func (h *FlashSaleHandler) HandleAttachProduct(w http.ResponseWriter, r *http.Request, saleID int64) {
	var req attachProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}
	if req.MaxQuantityPerUser == 0 {
		req.MaxQuantityPerUser = 1
	}

	offer, err := promo.NewOffer(saleID, req.ProductID, req.DiscountPercentage, req.MaxQuantityPerUser)
	if err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"offer": err.Error(),
		})
		return
	}

	created, err := h.sales.AttachProduct(r.Context(), offer)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Product attached to flash sale",
		"flash_sale_id", saleID,
		"product_id", req.ProductID,
		"discount_percentage", req.DiscountPercentage,
	)

	response.WriteCreated(w, map[string]int64{"id": created.ID})
}

func (h *FlashSaleHandler) HandleDetachProduct(w http.ResponseWriter, r *http.Request, saleID, productID int64) {
	if err := h.sales.DetachProduct(r.Context(), saleID, productID); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Product detached from flash sale", "flash_sale_id", saleID, "product_id", productID)

	response.WriteSuccess(w, map[string]string{"message": "Product removed from flash sale"})
}

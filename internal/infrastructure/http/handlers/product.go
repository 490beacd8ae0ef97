package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	"github.com/flashmart/flashmart-service/internal/infrastructure/http/response"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

type ProductHandler struct {
	products ports.ProductRepository
	log      *logger.Logger
}

func NewProductHandler(products ports.ProductRepository, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		log:      log,
	}
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.products.ListActive(r.Context())
	if err != nil {
		h.log.Error("Failed to list products", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	resp := make([]ProductResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toProductResponse(row))
	}

	response.WriteSuccess(w, resp)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request, id int64) {
	row, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	response.WriteSuccess(w, toProductResponse(*row))
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	IsActive    *bool           `json:"is_active"`
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	p, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product": err.Error(),
		})
		return
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	created, err := h.products.Create(r.Context(), p)
	if err != nil {
		h.log.Error("Failed to create product", "error", err.Error())
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Product created", "product_id", created.ID, "name", created.Name)

	response.WriteCreated(w, toProductResponse(ports.ProductWithOffer{Product: *created}))
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "Invalid request body", nil)
		return
	}

	p, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		response.WriteValidationError(w, "Validation failed", map[string]string{
			"product": err.Error(),
		})
		return
	}
	p.ID = id
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	updated, err := h.products.Update(r.Context(), p)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Product updated", "product_id", updated.ID)

	response.WriteSuccess(w, toProductResponse(ports.ProductWithOffer{Product: *updated}))
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.products.Delete(r.Context(), id); err != nil {
		response.WriteDomainError(w, err)
		return
	}

	h.log.Info("Product deleted", "product_id", id)

	response.WriteSuccess(w, map[string]string{"message": "Product deleted"})
}

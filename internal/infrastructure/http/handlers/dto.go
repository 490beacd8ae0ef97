package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/purchase"
	"github.com/flashmart/flashmart-service/internal/domain/user"
)

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	IsActive    bool            `json:"is_active"`
	IsFlash     bool            `json:"is_flash"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	FlashSale *ProductOfferResponse `json:"flash_sale,omitempty"`
}

// ProductOfferResponse describes the running sale terms shown next to a
// product. The discounted price here is display-only; checkout recomputes
// it inside the admission transaction.
type ProductOfferResponse struct {
	FlashSaleID        int64           `json:"flash_sale_id"`
	Name               string          `json:"name"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	DiscountPercentage int             `json:"discount_percentage"`
	MaxQuantityPerUser int             `json:"max_quantity_per_user"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
}

func toProductResponse(row ports.ProductWithOffer) ProductResponse {
	resp := ProductResponse{
		ID:          row.Product.ID,
		Name:        row.Product.Name,
		Description: row.Product.Description,
		Price:       row.Product.Price,
		Quantity:    row.Product.Quantity,
		IsActive:    row.Product.IsActive,
		IsFlash:     row.Product.IsFlash,
		CreatedAt:   row.Product.CreatedAt,
		UpdatedAt:   row.Product.UpdatedAt,
	}

	if row.Offer != nil && row.Sale != nil {
		resp.FlashSale = &ProductOfferResponse{
			FlashSaleID:        row.Sale.ID,
			Name:               row.Sale.Name,
			StartTime:          row.Sale.StartTime,
			EndTime:            row.Sale.EndTime,
			DiscountPercentage: row.Offer.DiscountPercentage,
			MaxQuantityPerUser: row.Offer.MaxQuantityPerUser,
			DiscountedPrice:    row.Offer.DiscountedPrice(row.Product.Price),
		}
	}

	return resp
}

type FlashSaleResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ProductCount *int      `json:"product_count,omitempty"`
}

func toFlashSaleResponse(s *promo.FlashSale) FlashSaleResponse {
	return FlashSaleResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSaleOverviewResponse(s *promo.SaleOverview) FlashSaleResponse {
	resp := toFlashSaleResponse(&s.FlashSale)
	count := s.ProductCount
	resp.ProductCount = &count
	return resp
}

type SaleStatusResponse struct {
	Status promo.SaleStatus   `json:"status"`
	Sale   *FlashSaleResponse `json:"flash_sale,omitempty"`
}

func toSaleStatusResponse(result *promo.StatusResult) SaleStatusResponse {
	resp := SaleStatusResponse{Status: result.Status}
	if result.Sale != nil {
		sale := toSaleOverviewResponse(result.Sale)
		resp.Sale = &sale
	}
	return resp
}

type OfferedProductResponse struct {
	ProductResponse
	DiscountPercentage int             `json:"discount_percentage"`
	MaxQuantityPerUser int             `json:"max_quantity_per_user"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
}

func toOfferedProductResponse(op ports.OfferedProduct) OfferedProductResponse {
	return OfferedProductResponse{
		ProductResponse:    toProductResponse(ports.ProductWithOffer{Product: op.Product}),
		DiscountPercentage: op.Offer.DiscountPercentage,
		MaxQuantityPerUser: op.Offer.MaxQuantityPerUser,
		DiscountedPrice:    op.Offer.DiscountedPrice(op.Product.Price),
	}
}

type PurchaseResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	ProductID     int64           `json:"product_id"`
	FlashSaleID   *int64          `json:"flash_sale_id,omitempty"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Status        string          `json:"status"`
}

func toPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		ProductID:     p.ProductID,
		FlashSaleID:   p.FlashSaleID,
		Quantity:      p.Quantity,
		PurchasePrice: p.PurchasePrice,
		PurchaseDate:  p.PurchaseDate,
		Status:        p.Status,
	}
}

type PurchaseRecordResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	FlashSaleID   *int64          `json:"flash_sale_id,omitempty"`
	FlashSaleName *string         `json:"flash_sale_name,omitempty"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Status        string          `json:"status"`
}

func toPurchaseRecordResponse(rec purchase.Record) PurchaseRecordResponse {
	return PurchaseRecordResponse{
		ID:            rec.ID,
		ProductID:     rec.ProductID,
		ProductName:   rec.ProductName,
		FlashSaleID:   rec.FlashSaleID,
		FlashSaleName: rec.FlashSaleName,
		Quantity:      rec.Quantity,
		PurchasePrice: rec.PurchasePrice,
		PurchaseDate:  rec.PurchaseDate,
		Status:        rec.Status,
	}
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type IdentityResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func toIdentityResponse(identity *user.Identity) IdentityResponse {
	return IdentityResponse{
		UserID:   identity.UserID,
		Username: identity.Username,
		IsAdmin:  identity.IsAdmin,
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemRequest una línea de venta.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// SaleItemResponse una línea de venta persistida.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse una venta con sus líneas.
type SaleResponse struct {
	ID         string             `json:"id"`
	SaleNumber string             `json:"sale_number"`
	UserID     string             `json:"user_id"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []SaleItemResponse `json:"items"`
}

// NewSaleResponse mapea la entidad a la respuesta HTTP.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return SaleResponse{
		ID:         s.ID,
		SaleNumber: s.SaleNumber,
		UserID:     s.UserID,
		Total:      s.Total,
		CreatedAt:  s.CreatedAt,
		Items:      items,
	}
}

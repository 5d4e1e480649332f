package dto

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// ReserveStockRequest body para POST /api/reservations.
type ReserveStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

// ReleaseStockRequest body para POST /api/reservations/:id/release.
type ReleaseStockRequest struct {
	Consume bool `json:"consume"`
}

// ReservationResponse una reserva de stock.
type ReservationResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	ReservedBy string    `json:"reserved_by"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewReservationResponse mapea la entidad a la respuesta HTTP.
func NewReservationResponse(r *entity.StockReservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		ReservedBy: r.ReservedBy,
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
	}
}

// ActiveReservationsResponse reservas vigentes de un producto.
type ActiveReservationsResponse struct {
	ProductID     string                `json:"product_id"`
	TotalReserved int                   `json:"total_reserved"`
	Reservations  []ReservationResponse `json:"reservations"`
}

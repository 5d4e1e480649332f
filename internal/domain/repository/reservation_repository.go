package repository

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// ReservationRepository puerto de persistencia para reservas de stock.
type ReservationRepository interface {
	Create(reservation *entity.StockReservation) error
	GetByID(id string) (*entity.StockReservation, error)
	GetForUpdate(id string) (*entity.StockReservation, error)
	UpdateStatus(id, status string) error
	// ListActiveByProduct filtra ACTIVE y no vencidas respecto a now
	// (el vencimiento se evalúa perezosamente, no hay barrido).
	ListActiveByProduct(productID string, now time.Time) ([]*entity.StockReservation, error)
}

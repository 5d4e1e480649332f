package entity

import "time"

// Estados de una reserva de stock.
const (
	ReservationStatusActive   = "ACTIVE"
	ReservationStatusConsumed = "CONSUMED"
	ReservationStatusReleased = "RELEASED"
)

// ReservationTTL vigencia por defecto de una reserva.
const ReservationTTL = 24 * time.Hour

// StockReservation es una retención blanda de cantidad con vencimiento: la
// cantidad sigue contada en Product.Stock hasta que la reserva se consume
// (vía un movimiento OUT del ledger) o se libera. Transiciones terminales:
// ACTIVE → CONSUMED | RELEASED, exactamente una vez.
type StockReservation struct {
	ID         string
	ProductID  string
	Quantity   int
	ReservedBy string // UserID
	Reason     string
	Status     string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// IsExpired indica si la reserva venció respecto a now. El vencimiento se
// evalúa de forma perezosa: no hay barrido de fondo, el estado en storage
// puede seguir ACTIVE.
func (r *StockReservation) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

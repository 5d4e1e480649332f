package reservation

import (
	"context"

	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// TxRunner variante transaccional con el repositorio de reservas incluido:
// el consumo de una reserva escribe el movimiento OUT, el stock y la
// transición de estado en una sola transacción.
type TxRunner interface {
	RunReservation(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		resRepo repository.ReservationRepository,
	) error) error
}

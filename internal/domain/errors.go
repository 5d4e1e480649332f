package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("estado inválido para la operación")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// ErrReservationExpired se retorna al actuar sobre una reserva ACTIVE ya vencida.
// Hace match con ErrInvalidState vía errors.Is para los callers que solo
// distinguen "no se puede operar sobre esta reserva".
var ErrReservationExpired = fmt.Errorf("%w: la reserva expiró", ErrInvalidState)

// InsufficientStockError lleva el stock actual y lo solicitado para que la UI
// pueda mostrar un mensaje accionable ("solo quedan 3"). errors.Is(err,
// ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	CurrentStock int
	Requested    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.CurrentStock, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

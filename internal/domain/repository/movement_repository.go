package repository

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del ledger.
// Campos vacíos/nil no filtran. El orden es siempre del más reciente al más
// antiguo, con desempate por orden de inserción.
type MovementFilter struct {
	ProductID string
	Type      string
	UserID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementStats agregados del ledger. TotalAdjustments suma magnitudes
// absolutas; NetChange se deriva como TotalIn - TotalOut.
type MovementStats struct {
	TotalIn          int
	TotalOut         int
	TotalAdjustments int
	MovementCount    int
	PerTypeCounts    map[string]int
	LastMovementAt   *time.Time
}

// NetChange cambio neto de stock por entradas y salidas.
func (s *MovementStats) NetChange() int {
	return s.TotalIn - s.TotalOut
}

// MovementRepository puerto de persistencia del ledger de movimientos.
// Solo inserta y lee: los movimientos son inmutables.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, int, error)
	ListByProduct(productID string, limit int) ([]*entity.Movement, error)
	// ListByProductSince devuelve los movimientos desde `since`, del más
	// reciente al más antiguo (el orden que espera la reconstrucción).
	ListByProductSince(productID string, since time.Time) ([]*entity.Movement, error)
	SumOutboundSince(productID string, since time.Time) (int, error)
	CountSince(productID string, since time.Time) (int, error)
	Stats(productID string) (*MovementStats, error)
}

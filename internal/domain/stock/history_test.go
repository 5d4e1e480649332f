package stock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/stock"
)

func mov(id, movType string, quantity, direction int, at time.Time) *entity.Movement {
	return &entity.Movement{
		ID:        id,
		ProductID: "prod-1",
		Type:      movType,
		Quantity:  quantity,
		Direction: direction,
		CreatedAt: at,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ReconstructHistory — rebobinado del ledger hacia atrás
// ──────────────────────────────────────────────────────────────────────────────

func TestReconstructHistory_PuntoMasRecienteEsElStockActual(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	// Cronología: IN 10 → OUT 3 → IN 5. Stock actual: 12.
	// La entrada llega en orden descendente, como la devuelve el repositorio.
	desc := []*entity.Movement{
		mov("m3", entity.MovementTypeIN, 5, entity.DirectionIn, base.Add(2*time.Hour)),
		mov("m2", entity.MovementTypeOUT, 3, entity.DirectionOut, base.Add(time.Hour)),
		mov("m1", entity.MovementTypeIN, 10, entity.DirectionIn, base),
	}

	points := stock.ReconstructHistory(12, desc)

	require.Len(t, points, 3)
	// Orden cronológico de salida:
	assert.Equal(t, "m1", points[0].Movement.ID)
	assert.Equal(t, "m2", points[1].Movement.ID)
	assert.Equal(t, "m3", points[2].Movement.ID)
	// Stocks tras cada movimiento: 10 → 7 → 12.
	assert.Equal(t, 10, points[0].StockAfterMovement)
	assert.Equal(t, 7, points[1].StockAfterMovement)
	assert.Equal(t, 12, points[2].StockAfterMovement,
		"el punto más reciente siempre coincide con el stock actual")
}

func TestReconstructHistory_AjusteNegativoConservaElSigno(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	// IN 10 → ADJUSTMENT -2 (magnitud 2, dirección -1). Stock actual: 8.
	desc := []*entity.Movement{
		mov("m2", entity.MovementTypeADJUSTMENT, 2, entity.DirectionOut, base.Add(time.Hour)),
		mov("m1", entity.MovementTypeIN, 10, entity.DirectionIn, base),
	}

	points := stock.ReconstructHistory(8, desc)

	require.Len(t, points, 2)
	assert.Equal(t, 10, points[0].StockAfterMovement)
	assert.Equal(t, 8, points[1].StockAfterMovement)
}

func TestReconstructHistory_TransferNoMueveElStock(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	desc := []*entity.Movement{
		mov("m2", entity.MovementTypeTRANSFER, 4, entity.DirectionNone, base.Add(time.Hour)),
		mov("m1", entity.MovementTypeIN, 6, entity.DirectionIn, base),
	}

	points := stock.ReconstructHistory(6, desc)

	require.Len(t, points, 2)
	assert.Equal(t, 6, points[0].StockAfterMovement, "TRANSFER no altera el rebobinado")
	assert.Equal(t, 6, points[1].StockAfterMovement)
}

func TestReconstructHistory_PisoEnCeroAlRebobinar(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	// Stock actual 2 con el movimiento más reciente IN 5: el rebobinado daría
	// -3 antes de esa entrada; se fija piso en cero como hace el ledger.
	desc := []*entity.Movement{
		mov("m2", entity.MovementTypeIN, 5, entity.DirectionIn, base.Add(time.Hour)),
		mov("m1", entity.MovementTypeOUT, 1, entity.DirectionOut, base),
	}

	points := stock.ReconstructHistory(2, desc)

	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].StockAfterMovement, "el rebobinado nunca baja de cero")
	assert.Equal(t, 2, points[1].StockAfterMovement)
}

func TestReconstructHistory_SinMovimientos(t *testing.T) {
	points := stock.ReconstructHistory(7, nil)
	assert.Empty(t, points)
}

package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-erp/internal/application/apptest"
	"github.com/jhoicas/taller-erp/internal/application/metrics"
	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/stock"
)

const (
	testProductID = "11111111-1111-1111-1111-111111111111"
	testUserID    = "22222222-2222-2222-2222-222222222222"
)

func newMetrics(t *testing.T) (*metrics.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	uc := metrics.NewUseCase(apptest.NewRunner(store), store.Products(), store.MovementsRepo(), nil)
	return uc, store
}

func seedProduct(store *apptest.Store, stockQty, minStock int, maxStock *int) {
	store.SeedProduct(&entity.Product{
		ID:        testProductID,
		SKU:       "FIL-001",
		Name:      "Filtro de aceite",
		Status:    entity.ProductStatusActive,
		Stock:     stockQty,
		MinStock:  minStock,
		MaxStock:  maxStock,
		CostPrice: decimal.NewFromInt(10),
	})
}

func seedOut(store *apptest.Store, qty int, daysAgo int) {
	store.SeedMovement(&entity.Movement{
		ID:        uuid.New().String(),
		ProductID: testProductID,
		Type:      entity.MovementTypeOUT,
		Quantity:  qty,
		Direction: entity.DirectionOut,
		UserID:    testUserID,
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// CalculateStockMetrics
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateStockMetrics_VentanaDe90Dias(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 45, 5, nil)
	seedOut(store, 60, 10) // dentro de la ventana
	seedOut(store, 30, 80) // dentro de la ventana
	seedOut(store, 99, 120) // fuera: no cuenta

	m, err := uc.CalculateStockMetrics(context.Background(), testProductID)

	require.NoError(t, err)
	// 90 unidades / 90 días = 1/día
	assert.True(t, m.AverageDailyUsage.Equal(decimal.NewFromInt(1)),
		"solo las salidas dentro de la ventana cuentan, obtuvo %s", m.AverageDailyUsage)
	require.NotNil(t, m.DaysUntilStockout)
	assert.Equal(t, 45, *m.DaysUntilStockout)
	assert.True(t, m.StockValue.Equal(decimal.NewFromInt(450)))
}

func TestCalculateStockMetrics_ProductoInexistente(t *testing.T) {
	uc, _ := newMetrics(t)
	_, err := uc.CalculateStockMetrics(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckStockAlerts
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckStockAlerts_BajoStockSinMovimientos(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 5, 10, nil)

	alerts, err := uc.CheckStockAlerts(context.Background(), testProductID)

	require.NoError(t, err)
	types := make([]string, 0, len(alerts))
	for _, a := range alerts {
		types = append(types, a.Type)
	}
	assert.ElementsMatch(t, []string{stock.AlertLowStock, stock.AlertNoMovement}, types)
}

func TestCheckStockAlerts_MovimientoRecienteSuprimeNoMovement(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 50, 5, nil)
	seedOut(store, 1, 3) // hubo actividad hace 3 días

	alerts, err := uc.CheckStockAlerts(context.Background(), testProductID)

	require.NoError(t, err)
	for _, a := range alerts {
		assert.NotEqual(t, stock.AlertNoMovement, a.Type)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GetProductsRequiringAttention
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProductsRequiringAttention_AgrupaPorCondicion(t *testing.T) {
	uc, store := newMetrics(t)
	max := 10
	store.SeedProduct(&entity.Product{ID: "p-out", SKU: "O-1", Name: "Agotado", Status: entity.ProductStatusActive, Stock: 0, MinStock: 2})
	store.SeedProduct(&entity.Product{ID: "p-low", SKU: "L-1", Name: "Bajo", Status: entity.ProductStatusActive, Stock: 2, MinStock: 5})
	store.SeedProduct(&entity.Product{ID: "p-over", SKU: "V-1", Name: "Sobrado", Status: entity.ProductStatusActive, Stock: 50, MinStock: 2, MaxStock: &max})
	store.SeedProduct(&entity.Product{ID: "p-inactive", SKU: "I-1", Name: "Inactivo", Status: entity.ProductStatusInactive, Stock: 0, MinStock: 2})

	report, err := uc.GetProductsRequiringAttention(context.Background())

	require.NoError(t, err)
	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, "p-out", report.OutOfStock[0].ID)
	require.Len(t, report.LowStock, 1)
	assert.Equal(t, "p-low", report.LowStock[0].ID)
	require.Len(t, report.Overstock, 1)
	assert.Equal(t, "p-over", report.Overstock[0].ID)

	// Los tres activos con stock > 0 y sin movimientos en 30 días generan NO_MOVEMENT.
	noMov := make([]string, 0, len(report.NoMovement))
	for _, a := range report.NoMovement {
		noMov = append(noMov, a.ProductID)
	}
	assert.ElementsMatch(t, []string{"p-low", "p-over"}, noMov,
		"los inactivos y los agotados no generan NO_MOVEMENT")
}

// ──────────────────────────────────────────────────────────────────────────────
// OptimizeStockLevels
// ──────────────────────────────────────────────────────────────────────────────

func TestOptimizeStockLevels_ConUso(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 100, 5, nil)
	seedOut(store, 180, 15) // 2/día en la ventana de 90

	rec, err := uc.OptimizeStockLevels(context.Background(), testProductID)

	require.NoError(t, err)
	assert.Equal(t, 14, rec.RecommendedMinStock)
	assert.Equal(t, 60, rec.RecommendedMaxStock)
}

func TestOptimizeStockLevels_SinUso_MinimoUno(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 100, 5, nil)

	rec, err := uc.OptimizeStockLevels(context.Background(), testProductID)

	require.NoError(t, err)
	assert.Equal(t, 1, rec.RecommendedMinStock)
	assert.Equal(t, 1, rec.RecommendedMaxStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStockHistory
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStockHistory_ReconstruyeDesdeElStockActual(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 12, 2, nil)
	now := time.Now()
	// Cronología real: IN 10 (hace 5 días) → OUT 3 (hace 2) → IN 5 (hace 1).
	store.SeedMovement(&entity.Movement{
		ID: "m1", ProductID: testProductID, Type: entity.MovementTypeIN,
		Quantity: 10, Direction: entity.DirectionIn, UserID: testUserID,
		CreatedAt: now.AddDate(0, 0, -5),
	})
	store.SeedMovement(&entity.Movement{
		ID: "m2", ProductID: testProductID, Type: entity.MovementTypeOUT,
		Quantity: 3, Direction: entity.DirectionOut, UserID: testUserID,
		CreatedAt: now.AddDate(0, 0, -2),
	})
	store.SeedMovement(&entity.Movement{
		ID: "m3", ProductID: testProductID, Type: entity.MovementTypeIN,
		Quantity: 5, Direction: entity.DirectionIn, UserID: testUserID,
		CreatedAt: now.AddDate(0, 0, -1),
	})

	points, err := uc.GetStockHistory(context.Background(), testProductID, 30)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "m1", points[0].Movement.ID, "los puntos salen en orden cronológico")
	assert.Equal(t, 10, points[0].StockAfterMovement)
	assert.Equal(t, 7, points[1].StockAfterMovement)
	assert.Equal(t, 12, points[2].StockAfterMovement,
		"el último punto coincide con el stock actual")
}

func TestGetStockHistory_VentanaRecortaMovimientosViejos(t *testing.T) {
	uc, store := newMetrics(t)
	seedProduct(store, 10, 2, nil)
	now := time.Now()
	store.SeedMovement(&entity.Movement{
		ID: "viejo", ProductID: testProductID, Type: entity.MovementTypeIN,
		Quantity: 10, Direction: entity.DirectionIn, UserID: testUserID,
		CreatedAt: now.AddDate(0, 0, -45),
	})
	store.SeedMovement(&entity.Movement{
		ID: "reciente", ProductID: testProductID, Type: entity.MovementTypeOUT,
		Quantity: 2, Direction: entity.DirectionOut, UserID: testUserID,
		CreatedAt: now.AddDate(0, 0, -3),
	})

	points, err := uc.GetStockHistory(context.Background(), testProductID, 30)

	require.NoError(t, err)
	require.Len(t, points, 1, "solo los movimientos dentro de la ventana")
	assert.Equal(t, "reciente", points[0].Movement.ID)
	assert.Equal(t, 10, points[0].StockAfterMovement)
}

func TestGetStockHistory_ProductoInexistente(t *testing.T) {
	uc, _ := newMetrics(t)
	_, err := uc.GetStockHistory(context.Background(), "no-existe", 30)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

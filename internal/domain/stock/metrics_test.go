package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// ComputeMetrics — derivación de la foto de métricas desde la ventana de 90 días
// ──────────────────────────────────────────────────────────────────────────────

func productWith(stockQty, minStock int, maxStock *int) *entity.Product {
	return &entity.Product{
		ID:        "prod-1",
		SKU:       "FIL-001",
		Name:      "Filtro de aceite",
		Status:    entity.ProductStatusActive,
		Stock:     stockQty,
		MinStock:  minStock,
		MaxStock:  maxStock,
		CostPrice: decimal.NewFromInt(10),
	}
}

func TestComputeMetrics_UsoPromedioYProyeccion(t *testing.T) {
	// 90 unidades salidas en 90 días → uso promedio 1/día; con stock 45 la
	// proyección de quiebre es 45 días.
	p := productWith(45, 10, nil)
	m := stock.ComputeMetrics(p, 90, stock.MetricsWindowDays)

	assert.True(t, m.AverageDailyUsage.Equal(decimal.NewFromInt(1)),
		"90 salidas / 90 días debe dar uso promedio 1, obtuvo %s", m.AverageDailyUsage)
	require.NotNil(t, m.DaysUntilStockout, "con uso positivo debe haber proyección")
	assert.Equal(t, 45, *m.DaysUntilStockout, "45 unidades / 1 por día = 45 días")
	assert.True(t, m.StockRotation.Equal(decimal.NewFromInt(2)), "90 salidas / 45 en stock = rotación 2")
	assert.True(t, m.StockValue.Equal(decimal.NewFromInt(450)), "45 unidades × costo 10 = 450")
}

func TestComputeMetrics_SinSalidas_SinProyeccion(t *testing.T) {
	p := productWith(20, 5, nil)
	m := stock.ComputeMetrics(p, 0, stock.MetricsWindowDays)

	assert.True(t, m.AverageDailyUsage.IsZero(), "sin salidas el uso promedio es cero")
	assert.Nil(t, m.DaysUntilStockout, "con uso cero no hay proyección de quiebre (no es infinito, es ausente)")
	assert.True(t, m.StockRotation.IsZero())
}

func TestComputeMetrics_StockCero_RotacionCero(t *testing.T) {
	p := productWith(0, 5, nil)
	m := stock.ComputeMetrics(p, 30, stock.MetricsWindowDays)

	assert.True(t, m.StockRotation.IsZero(), "con stock cero la rotación se define como cero, no división por cero")
	assert.True(t, m.StockValue.IsZero())
	assert.Equal(t, stock.LevelCritical, m.StockLevel)
}

func TestComputeMetrics_ProyeccionTruncaHaciaAbajo(t *testing.T) {
	// 45 salidas / 90 días = 0.5/día; stock 10 → 20 días exactos.
	// stock 11 → 22 días; stock 5 → 10. Caso fraccional: 9 salidas/90d = 0.1;
	// stock 25 → 250 días.
	p := productWith(25, 5, nil)
	m := stock.ComputeMetrics(p, 9, stock.MetricsWindowDays)
	require.NotNil(t, m.DaysUntilStockout)
	assert.Equal(t, 250, *m.DaysUntilStockout)
}

// ──────────────────────────────────────────────────────────────────────────────
// ClassifyLevel — prioridad estricta de clasificación
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyLevel_PrioridadEstricta(t *testing.T) {
	max := 100
	cases := []struct {
		name     string
		stock    int
		min      int
		max      *int
		expected string
	}{
		{"cero es CRITICAL aunque haya mínimo", 0, 10, &max, stock.LevelCritical},
		{"en el mínimo es LOW", 10, 10, &max, stock.LevelLow},
		{"bajo el mínimo es LOW", 3, 10, &max, stock.LevelLow},
		{"sobre el máximo es OVERSTOCK", 101, 10, &max, stock.LevelOverstock},
		{"sobre el 80% del máximo es HIGH", 81, 10, &max, stock.LevelHigh},
		{"exactamente 80% no es HIGH", 80, 10, &max, stock.LevelNormal},
		{"rango medio es NORMAL", 50, 10, &max, stock.LevelNormal},
		{"sin máximo configurado nunca hay OVERSTOCK ni HIGH", 1000, 10, nil, stock.LevelNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stock.ClassifyLevel(tc.stock, tc.min, tc.max))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// OptimizeLevels — umbrales sugeridos
// ──────────────────────────────────────────────────────────────────────────────

func TestOptimizeLevels_UsoPositivo(t *testing.T) {
	// uso 2/día → min = ceil(14) = 14, max = ceil(60) = 60
	rec := stock.OptimizeLevels(decimal.NewFromInt(2))
	assert.Equal(t, 14, rec.RecommendedMinStock)
	assert.Equal(t, 60, rec.RecommendedMaxStock)
	assert.NotEmpty(t, rec.Reasoning)
}

func TestOptimizeLevels_UsoFraccionalRedondeaHaciaArriba(t *testing.T) {
	// uso 0.5/día → min = ceil(3.5) = 4, max = ceil(15) = 15
	rec := stock.OptimizeLevels(decimal.NewFromFloat(0.5))
	assert.Equal(t, 4, rec.RecommendedMinStock)
	assert.Equal(t, 15, rec.RecommendedMaxStock)
}

func TestOptimizeLevels_UsoCero_MinimoUno(t *testing.T) {
	// Sin salidas el mínimo se fija en 1 y el máximo nunca queda por debajo.
	rec := stock.OptimizeLevels(decimal.Zero)
	assert.Equal(t, 1, rec.RecommendedMinStock, "con uso cero el mínimo recomendado es 1")
	assert.GreaterOrEqual(t, rec.RecommendedMaxStock, rec.RecommendedMinStock,
		"el máximo nunca puede quedar por debajo del mínimo")
}

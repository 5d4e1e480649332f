package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// Ventanas de análisis (días).
const (
	MetricsWindowDays    = 90
	NoMovementWindowDays = 30
	StockoutWarningDays  = 7
)

// Niveles de stock, del más urgente al más holgado.
const (
	LevelCritical  = "CRITICAL"
	LevelLow       = "LOW"
	LevelNormal    = "NORMAL"
	LevelHigh      = "HIGH"
	LevelOverstock = "OVERSTOCK"
)

// Metrics es la foto derivada de salud de stock de un producto. Se recalcula
// en cada consulta a partir del ledger; nunca se persiste.
type Metrics struct {
	ProductID         string
	CurrentStock      int
	AverageDailyUsage decimal.Decimal // salidas de la ventana / días de la ventana
	DaysUntilStockout *int            // nil = sin proyección (uso promedio cero)
	StockRotation     decimal.Decimal // salidas de la ventana / stock actual
	StockValue        decimal.Decimal // stock actual × costo unitario
	StockLevel        string
}

// ComputeMetrics deriva las métricas de un producto dado el total de unidades
// salidas (OUT) dentro de la ventana.
func ComputeMetrics(p *entity.Product, outboundQty int, windowDays int) Metrics {
	current := decimal.NewFromInt(int64(p.Stock))
	outbound := decimal.NewFromInt(int64(outboundQty))

	avgUsage := decimal.Zero
	if windowDays > 0 {
		avgUsage = outbound.Div(decimal.NewFromInt(int64(windowDays)))
	}

	var daysUntilStockout *int
	if avgUsage.GreaterThan(decimal.Zero) {
		d := int(current.Div(avgUsage).Floor().IntPart())
		daysUntilStockout = &d
	}

	rotation := decimal.Zero
	if p.Stock > 0 {
		rotation = outbound.Div(current)
	}

	return Metrics{
		ProductID:         p.ID,
		CurrentStock:      p.Stock,
		AverageDailyUsage: avgUsage,
		DaysUntilStockout: daysUntilStockout,
		StockRotation:     rotation,
		StockValue:        current.Mul(p.CostPrice),
		StockLevel:        ClassifyLevel(p.Stock, p.MinStock, p.MaxStock),
	}
}

// ClassifyLevel clasifica el stock con prioridad estricta:
// 0 → CRITICAL; ≤ min → LOW; > max → OVERSTOCK; > 80% de max → HIGH; resto NORMAL.
func ClassifyLevel(stock, minStock int, maxStock *int) string {
	switch {
	case stock == 0:
		return LevelCritical
	case stock <= minStock:
		return LevelLow
	case maxStock != nil && stock > *maxStock:
		return LevelOverstock
	case maxStock != nil && stock*5 > *maxStock*4: // stock > 0.8*max sin flotantes
		return LevelHigh
	default:
		return LevelNormal
	}
}

// Recommendation son los umbrales sugeridos por OptimizeLevels.
type Recommendation struct {
	RecommendedMinStock int
	RecommendedMaxStock int
	Reasoning           string
}

// OptimizeLevels sugiere min = ceil(uso×7) y max = ceil(uso×30). Con uso cero
// el mínimo se fija en 1 para no recomendar un umbral inútil, y el máximo
// nunca queda por debajo del mínimo.
func OptimizeLevels(avgUsage decimal.Decimal) Recommendation {
	minStock := int(avgUsage.Mul(decimal.NewFromInt(7)).Ceil().IntPart())
	maxStock := int(avgUsage.Mul(decimal.NewFromInt(30)).Ceil().IntPart())

	reasoning := "basado en el uso promedio diario de los últimos 90 días: mínimo para 7 días, máximo para 30"
	if minStock < 1 {
		minStock = 1
		reasoning = "sin salidas en la ventana de análisis; mínimo fijado en 1 como umbral de seguridad"
	}
	if maxStock < minStock {
		maxStock = minStock
	}
	return Recommendation{
		RecommendedMinStock: minStock,
		RecommendedMaxStock: maxStock,
		Reasoning:           reasoning,
	}
}

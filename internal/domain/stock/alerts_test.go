package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-erp/internal/domain/stock"
)

func alertTypes(alerts []stock.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func findAlert(t *testing.T, alerts []stock.Alert, alertType string) stock.Alert {
	t.Helper()
	for _, a := range alerts {
		if a.Type == alertType {
			return a
		}
	}
	t.Fatalf("no se encontró la alerta %s en %v", alertType, alertTypes(alerts))
	return stock.Alert{}
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildAlerts — reglas y exclusiones
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildAlerts_SinStock_SoloOutOfStock(t *testing.T) {
	// Con stock cero solo se reporta OUT_OF_STOCK: LOW_STOCK queda suprimida
	// aunque 0 <= mínimo.
	now := time.Now()
	p := productWith(0, 10, nil)
	m := stock.ComputeMetrics(p, 0, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 5, now)

	require.Len(t, alerts, 1, "stock cero con movimientos recientes dispara exactamente una alerta")
	assert.Equal(t, stock.AlertOutOfStock, alerts[0].Type)
	assert.Equal(t, stock.PriorityCritical, alerts[0].Priority)
	assert.Equal(t, 0, alerts[0].CurrentStock)
}

func TestBuildAlerts_StockBajoYSinMovimientos_DosAlertas(t *testing.T) {
	// stock 5, mínimo 10, cero movimientos en 30 días: LOW_STOCK y NO_MOVEMENT
	// conviven (las reglas son independientes).
	now := time.Now()
	p := productWith(5, 10, nil)
	m := stock.ComputeMetrics(p, 0, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 0, now)

	require.Len(t, alerts, 2, "esperaba LOW_STOCK + NO_MOVEMENT, obtuvo %v", alertTypes(alerts))
	low := findAlert(t, alerts, stock.AlertLowStock)
	assert.Equal(t, stock.PriorityHigh, low.Priority)
	require.NotNil(t, low.Threshold)
	assert.Equal(t, 10, *low.Threshold, "el umbral de LOW_STOCK es el mínimo configurado")

	noMov := findAlert(t, alerts, stock.AlertNoMovement)
	assert.Equal(t, stock.PriorityLow, noMov.Priority)
}

func TestBuildAlerts_Overstock(t *testing.T) {
	now := time.Now()
	max := 50
	p := productWith(80, 10, &max)
	m := stock.ComputeMetrics(p, 0, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 3, now)

	over := findAlert(t, alerts, stock.AlertOverstock)
	assert.Equal(t, stock.PriorityMedium, over.Priority)
	require.NotNil(t, over.Threshold)
	assert.Equal(t, 50, *over.Threshold)
}

func TestBuildAlerts_UsoAlto_QuiebreProyectadoEnMenosDeUnaSemana(t *testing.T) {
	// 180 salidas / 90 días = 2/día; stock 10 → quiebre en 5 días (< 7).
	now := time.Now()
	p := productWith(10, 2, nil)
	m := stock.ComputeMetrics(p, 180, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 20, now)

	high := findAlert(t, alerts, stock.AlertHighUsage)
	assert.Equal(t, stock.PriorityHigh, high.Priority)
	require.NotNil(t, high.Threshold)
	assert.Equal(t, stock.StockoutWarningDays, *high.Threshold)
}

func TestBuildAlerts_QuiebreExactamenteEnSieteDias_NoAlerta(t *testing.T) {
	// 90 salidas / 90 días = 1/día; stock 7 → 7 días exactos: el umbral es
	// estrictamente menor, no dispara.
	now := time.Now()
	p := productWith(7, 2, nil)
	m := stock.ComputeMetrics(p, 90, stock.MetricsWindowDays)
	require.NotNil(t, m.DaysUntilStockout)
	require.Equal(t, 7, *m.DaysUntilStockout)

	alerts := stock.BuildAlerts(p, m, 20, now)

	for _, a := range alerts {
		assert.NotEqual(t, stock.AlertHighUsage, a.Type, "a 7 días exactos no debe haber HIGH_USAGE")
	}
}

func TestBuildAlerts_ProductoSano_SinAlertas(t *testing.T) {
	now := time.Now()
	max := 100
	p := productWith(50, 10, &max)
	// Uso moderado: 9 salidas / 90 días = 0.1/día → quiebre en 500 días.
	m := stock.ComputeMetrics(p, 9, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 4, now)

	assert.Empty(t, alerts, "un producto sano no dispara alertas, obtuvo %v", alertTypes(alerts))
}

func TestBuildAlerts_SinMovimientosYSinStock_NoMovementSuprimida(t *testing.T) {
	// NO_MOVEMENT exige stock > 0: un producto agotado e inmóvil solo
	// reporta OUT_OF_STOCK.
	now := time.Now()
	p := productWith(0, 5, nil)
	m := stock.ComputeMetrics(p, 0, stock.MetricsWindowDays)

	alerts := stock.BuildAlerts(p, m, 0, now)

	require.Len(t, alerts, 1)
	assert.Equal(t, stock.AlertOutOfStock, alerts[0].Type)
}

func TestBuildAlerts_ZeroUsage_DecimalPositivo(t *testing.T) {
	// Guardia de la regla HIGH_USAGE: uso cero jamás dispara aunque el stock sea bajo.
	now := time.Now()
	p := productWith(1, 0, nil)
	m := stock.Metrics{
		ProductID:         p.ID,
		CurrentStock:      p.Stock,
		AverageDailyUsage: decimal.Zero,
	}
	alerts := stock.BuildAlerts(p, m, 2, now)
	for _, a := range alerts {
		assert.NotEqual(t, stock.AlertHighUsage, a.Type)
	}
}

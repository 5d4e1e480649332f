package stock

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// Tipos de alerta.
const (
	AlertOutOfStock = "OUT_OF_STOCK"
	AlertLowStock   = "LOW_STOCK"
	AlertOverstock  = "OVERSTOCK"
	AlertHighUsage  = "HIGH_USAGE"
	AlertNoMovement = "NO_MOVEMENT"
)

// Prioridades de alerta.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// Alert es una alerta derivada. Se recalcula en cada consulta; los callers
// vuelven a sondear, nunca se almacena.
type Alert struct {
	Type         string
	Priority     string
	ProductID    string
	ProductName  string
	CurrentStock int
	Threshold    *int
	CreatedAt    time.Time
}

// BuildAlerts evalúa las reglas de alerta sobre la foto de métricas. Las
// reglas son independientes (un producto puede disparar varias a la vez),
// salvo OUT_OF_STOCK y LOW_STOCK que son excluyentes: sin stock solo se
// reporta la crítica.
func BuildAlerts(p *entity.Product, m Metrics, movementsLast30 int, now time.Time) []Alert {
	var alerts []Alert

	if p.Stock == 0 {
		alerts = append(alerts, Alert{
			Type:         AlertOutOfStock,
			Priority:     PriorityCritical,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			CreatedAt:    now,
		})
	} else if p.Stock <= p.MinStock {
		threshold := p.MinStock
		alerts = append(alerts, Alert{
			Type:         AlertLowStock,
			Priority:     PriorityHigh,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    &threshold,
			CreatedAt:    now,
		})
	}

	if p.MaxStock != nil && p.Stock > *p.MaxStock {
		threshold := *p.MaxStock
		alerts = append(alerts, Alert{
			Type:         AlertOverstock,
			Priority:     PriorityMedium,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    &threshold,
			CreatedAt:    now,
		})
	}

	if m.AverageDailyUsage.IsPositive() && m.DaysUntilStockout != nil && *m.DaysUntilStockout < StockoutWarningDays {
		threshold := StockoutWarningDays
		alerts = append(alerts, Alert{
			Type:         AlertHighUsage,
			Priority:     PriorityHigh,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    &threshold,
			CreatedAt:    now,
		})
	}

	if movementsLast30 == 0 && p.Stock > 0 {
		alerts = append(alerts, Alert{
			Type:         AlertNoMovement,
			Priority:     PriorityLow,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			CreatedAt:    now,
		})
	}

	return alerts
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-erp/internal/domain/stock"
)

// ValidateBatchRequest body para POST /api/stock/validate-batch.
type ValidateBatchRequest struct {
	Items []ValidateBatchItem `json:"items" validate:"required,min=1,dive"`
}

// ValidateBatchItem una línea del lote a validar.
type ValidateBatchItem struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// StockMetricsResponse foto de métricas derivadas del ledger.
type StockMetricsResponse struct {
	ProductID         string          `json:"product_id"`
	CurrentStock      int             `json:"current_stock"`
	AverageDailyUsage decimal.Decimal `json:"average_daily_usage"`
	DaysUntilStockout *int            `json:"days_until_stockout,omitempty"` // ausente = sin proyección
	StockRotation     decimal.Decimal `json:"stock_rotation"`
	StockValue        decimal.Decimal `json:"stock_value"`
	StockLevel        string          `json:"stock_level"`
}

// NewStockMetricsResponse mapea las métricas a la respuesta HTTP.
func NewStockMetricsResponse(m *stock.Metrics) StockMetricsResponse {
	return StockMetricsResponse{
		ProductID:         m.ProductID,
		CurrentStock:      m.CurrentStock,
		AverageDailyUsage: m.AverageDailyUsage,
		DaysUntilStockout: m.DaysUntilStockout,
		StockRotation:     m.StockRotation,
		StockValue:        m.StockValue,
		StockLevel:        m.StockLevel,
	}
}

// AlertResponse una alerta derivada (recalculada, nunca almacenada).
type AlertResponse struct {
	Type         string    `json:"type"`
	Priority     string    `json:"priority"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	CurrentStock int       `json:"current_stock"`
	Threshold    *int      `json:"threshold,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAlertResponses mapea las alertas a la respuesta HTTP.
func NewAlertResponses(alerts []stock.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			Type:         a.Type,
			Priority:     a.Priority,
			ProductID:    a.ProductID,
			ProductName:  a.ProductName,
			CurrentStock: a.CurrentStock,
			Threshold:    a.Threshold,
			CreatedAt:    a.CreatedAt,
		})
	}
	return out
}

// StockHistoryPointResponse un punto de la línea de tiempo reconstruida.
type StockHistoryPointResponse struct {
	Date               time.Time        `json:"date"`
	StockAfterMovement int              `json:"stock_after_movement"`
	Movement           MovementResponse `json:"movement"`
}

// NewStockHistoryResponse mapea la reconstrucción a la respuesta HTTP.
func NewStockHistoryResponse(points []stock.HistoryPoint) []StockHistoryPointResponse {
	out := make([]StockHistoryPointResponse, 0, len(points))
	for _, p := range points {
		m := p.Movement
		out = append(out, StockHistoryPointResponse{
			Date:               p.Date,
			StockAfterMovement: p.StockAfterMovement,
			Movement:           NewMovementResponse(&m),
		})
	}
	return out
}

// OptimizeLevelsResponse umbrales sugeridos.
type OptimizeLevelsResponse struct {
	RecommendedMinStock int    `json:"recommended_min_stock"`
	RecommendedMaxStock int    `json:"recommended_max_stock"`
	Reasoning           string `json:"reasoning"`
}

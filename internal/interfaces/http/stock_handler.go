package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/application/dto"
	"github.com/jhoicas/taller-erp/internal/application/metrics"
	"github.com/jhoicas/taller-erp/internal/application/stockcheck"
	"github.com/jhoicas/taller-erp/pkg/validator"
)

// StockHandler maneja las consultas de disponibilidad, métricas, alertas e
// historial de stock (protegido). Todo es lectura: el ledger es el único
// camino de escritura.
type StockHandler struct {
	check   *stockcheck.UseCase
	metrics *metrics.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(check *stockcheck.UseCase, m *metrics.UseCase) *StockHandler {
	return &StockHandler{check: check, metrics: m}
}

// ValidateAvailability GET /api/stock/:id/availability?quantity=N.
func (h *StockHandler) ValidateAvailability(c *fiber.Ctx) error {
	quantity := c.QueryInt("quantity", 0)
	result, err := h.check.ValidateAvailability(c.Context(), c.Params("id"), quantity)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id":         result.ProductID,
		"is_available":       result.IsAvailable,
		"available_quantity": result.AvailableQuantity,
		"requested_quantity": result.RequestedQuantity,
		"total_stock":        result.TotalStock,
		"message":            result.Message,
	})
}

// GetStatus GET /api/stock/:id/status — clasifica la disponibilidad actual.
func (h *StockHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.check.GetAvailableStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "status": status})
}

// GetLowStock GET /api/stock/low — productos activos con stock ≤ mínimo.
func (h *StockHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.check.GetLowStockProducts(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(products),
		"products": dto.NewProductResponses(products),
	})
}

// ValidateBatch POST /api/stock/validate-batch — valida un lote de líneas de
// forma independiente (sin reserva cruzada entre líneas).
func (h *StockHandler) ValidateBatch(c *fiber.Ctx) error {
	var in dto.ValidateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Error())
	}
	items := make([]stockcheck.BatchItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, stockcheck.BatchItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	result, err := h.check.ValidateMultipleProducts(c.Context(), items)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"is_valid": result.IsValid,
		"items":    result.Items,
		"errors":   result.Errors,
	})
}

// GetMetrics GET /api/stock/:id/metrics — foto de métricas sobre la ventana de 90 días.
func (h *StockHandler) GetMetrics(c *fiber.Ctx) error {
	m, err := h.metrics.CalculateStockMetrics(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewStockMetricsResponse(m))
}

// GetAlerts GET /api/stock/:id/alerts — alertas recalculadas del producto.
func (h *StockHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.metrics.CheckStockAlerts(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(alerts),
		"alerts": dto.NewAlertResponses(alerts),
	})
}

// GetAttention GET /api/stock/attention — catálogo agrupado por condición.
func (h *StockHandler) GetAttention(c *fiber.Ctx) error {
	report, err := h.metrics.GetProductsRequiringAttention(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"out_of_stock": dto.NewProductResponses(report.OutOfStock),
		"low_stock":    dto.NewProductResponses(report.LowStock),
		"overstock":    dto.NewProductResponses(report.Overstock),
		"high_usage":   dto.NewAlertResponses(report.HighUsage),
		"no_movement":  dto.NewAlertResponses(report.NoMovement),
	})
}

// OptimizeLevels GET /api/stock/:id/optimize — umbrales min/max sugeridos.
func (h *StockHandler) OptimizeLevels(c *fiber.Ctx) error {
	rec, err := h.metrics.OptimizeStockLevels(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.OptimizeLevelsResponse{
		RecommendedMinStock: rec.RecommendedMinStock,
		RecommendedMaxStock: rec.RecommendedMaxStock,
		Reasoning:           rec.Reasoning,
	})
}

// GetHistory GET /api/stock/:id/history?days=N — línea de tiempo reconstruida
// desde el ledger, en orden cronológico.
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	points, err := h.metrics.GetStockHistory(c.Context(), c.Params("id"), days)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id": c.Params("id"),
		"days":       days,
		"history":    dto.NewStockHistoryResponse(points),
	})
}

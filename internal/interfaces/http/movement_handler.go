package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/application/dto"
	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
	"github.com/jhoicas/taller-erp/pkg/validator"
)

// MovementHandler maneja las peticiones HTTP del ledger de movimientos (protegido).
type MovementHandler struct {
	uc *ledger.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create POST /api/movements. El usuario actor sale del token, no del body.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Error())
	}
	movement, err := h.uc.CreateMovement(c.Context(), ledger.CreateMovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UserID:    userID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(movement))
}

// List GET /api/movements. Filtros: product_id, type, user_id, from, to (RFC3339).
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondValidation(c, "parámetros de paginación inválidos")
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		UserID:    c.Query("user_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return respondValidation(c, "from debe ser RFC3339")
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return respondValidation(c, "to debe ser RFC3339")
		}
		filter.To = &t
	}

	movements, total, err := h.uc.GetMovements(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Movements: out,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// GetByID GET /api/movements/:id.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	movement, err := h.uc.GetMovementByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewMovementResponse(movement))
}

// ListByProduct GET /api/products/:id/movements.
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	movements, err := h.uc.GetMovementsByProduct(c.Context(), c.Params("id"), limit)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{"movements": out})
}

// Stats GET /api/movements/stats. product_id vacío agrega todo el catálogo.
func (h *MovementHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.GetMovementStats(c.Context(), c.Query("product_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewMovementStatsResponse(stats))
}

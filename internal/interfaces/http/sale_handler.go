package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/application/dto"
	"github.com/jhoicas/taller-erp/internal/application/sale"
	"github.com/jhoicas/taller-erp/pkg/validator"
)

// SaleHandler maneja las ventas multilínea (protegido).
type SaleHandler struct {
	uc *sale.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sale.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create POST /api/sales. Todo o nada: una línea sin stock aborta la venta completa.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Error())
	}
	items := make([]sale.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sale.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	s, err := h.uc.CreateSale(c.Context(), sale.CreateSaleInput{UserID: userID, Items: items})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(s))
}

// GetByID GET /api/sales/:id.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(s))
}

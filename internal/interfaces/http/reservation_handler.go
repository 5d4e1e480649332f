package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-erp/internal/application/dto"
	"github.com/jhoicas/taller-erp/internal/application/reservation"
	"github.com/jhoicas/taller-erp/pkg/validator"
)

// ReservationHandler maneja las reservas de stock (protegido).
type ReservationHandler struct {
	uc *reservation.UseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve POST /api/reservations. El usuario que reserva sale del token.
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs[0].Error())
	}
	res, err := h.uc.ReserveStock(c.Context(), reservation.ReserveInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UserID:    userID,
		Reason:    in.Reason,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReservationResponse(res))
}

// Release POST /api/reservations/:id/release. Con consume=true descuenta el
// stock por el ledger y marca CONSUMED; si no, solo libera.
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseStockRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	res, err := h.uc.ReleaseStock(c.Context(), c.Params("id"), in.Consume)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.NewReservationResponse(res))
}

// ListActiveByProduct GET /api/products/:id/reservations — reservas vigentes.
func (h *ReservationHandler) ListActiveByProduct(c *fiber.Ctx) error {
	active, err := h.uc.GetActiveReservations(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ReservationResponse, 0, len(active.Reservations))
	for _, r := range active.Reservations {
		out = append(out, dto.NewReservationResponse(r))
	}
	return c.JSON(dto.ActiveReservationsResponse{
		ProductID:     active.ProductID,
		TotalReserved: active.TotalReserved,
		Reservations:  out,
	})
}

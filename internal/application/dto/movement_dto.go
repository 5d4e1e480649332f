package dto

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// CreateMovementRequest body para POST /api/movements.
// Quantity lleva signo solo para ADJUSTMENT; para IN/OUT/TRANSFER debe ser > 0.
type CreateMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Type      string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity  int    `json:"quantity" validate:"required"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

// MovementResponse un movimiento del ledger con su snapshot denormalizado.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	ProductSKU   string    `json:"product_sku,omitempty"`
	Type         string    `json:"type"`
	Quantity     int       `json:"quantity"`
	StockDelta   int       `json:"stock_delta"`
	Reason       string    `json:"reason,omitempty"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMovementResponse mapea la entidad a la respuesta HTTP.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		ProductSKU:  m.ProductSKU,
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockDelta:  m.StockDelta(),
		Reason:      m.Reason,
		UserID:      m.UserID,
		UserName:    m.UserName,
		CreatedAt:   m.CreatedAt,
	}
}

// MovementListResponse listado paginado, del más reciente al más antiguo.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// MovementStatsResponse agregados del ledger.
type MovementStatsResponse struct {
	TotalIn          int            `json:"total_in"`
	TotalOut         int            `json:"total_out"`
	TotalAdjustments int            `json:"total_adjustments"`
	NetChange        int            `json:"net_change"`
	MovementCount    int            `json:"movement_count"`
	PerTypeCounts    map[string]int `json:"per_type_counts"`
	LastMovementAt   *time.Time     `json:"last_movement_at,omitempty"`
}

// NewMovementStatsResponse mapea los agregados a la respuesta HTTP.
func NewMovementStatsResponse(s *repository.MovementStats) MovementStatsResponse {
	return MovementStatsResponse{
		TotalIn:          s.TotalIn,
		TotalOut:         s.TotalOut,
		TotalAdjustments: s.TotalAdjustments,
		NetChange:        s.NetChange(),
		MovementCount:    s.MovementCount,
		PerTypeCounts:    s.PerTypeCounts,
		LastMovementAt:   s.LastMovementAt,
	}
}

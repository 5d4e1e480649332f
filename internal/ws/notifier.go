package ws

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/stock"
	"github.com/jhoicas/taller-erp/pkg/logger"
)

var _ ledger.StockNotifier = (*StockNotifier)(nil)

// StockNotifier publica movimientos confirmados por el hub websocket.
type StockNotifier struct {
	hub *Hub
	log *logger.Logger
}

// NewStockNotifier construye el notificador sobre el hub.
func NewStockNotifier(hub *Hub, log *logger.Logger) *StockNotifier {
	return &StockNotifier{hub: hub, log: log}
}

type stockEvent struct {
	Event      string    `json:"event"`
	MovementID string    `json:"movement_id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	StockDelta int       `json:"stock_delta"`
	NewStock   int       `json:"new_stock"`
	CreatedAt  time.Time `json:"created_at"`
}

type alertEvent struct {
	Event        string    `json:"event"`
	AlertType    string    `json:"alert_type"`
	Priority     string    `json:"priority"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	Threshold    *int      `json:"threshold,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotifyMovement difunde un movimiento ya confirmado (post-commit) y, si el
// stock resultante cruza un umbral, la alerta correspondiente. Best-effort:
// un fallo de serialización o un canal lleno solo se registran.
func (n *StockNotifier) NotifyMovement(movement *entity.Movement, product *entity.Product, newStock int) {
	n.publish(stockEvent{
		Event:      "stock_movement",
		MovementID: movement.ID,
		ProductID:  movement.ProductID,
		Type:       movement.Type,
		Quantity:   movement.Quantity,
		StockDelta: movement.StockDelta(),
		NewStock:   newStock,
		CreatedAt:  movement.CreatedAt,
	})

	// Solo las alertas de umbral: las reglas que requieren historial de
	// movimientos (HIGH_USAGE, NO_MOVEMENT) se consultan por el motor de
	// métricas, no por el feed en tiempo real.
	switch {
	case newStock == 0:
		n.publish(alertEvent{
			Event:        "stock_alert",
			AlertType:    stock.AlertOutOfStock,
			Priority:     stock.PriorityCritical,
			ProductID:    product.ID,
			ProductName:  product.Name,
			CurrentStock: newStock,
			CreatedAt:    movement.CreatedAt,
		})
	case newStock <= product.MinStock:
		threshold := product.MinStock
		n.publish(alertEvent{
			Event:        "stock_alert",
			AlertType:    stock.AlertLowStock,
			Priority:     stock.PriorityHigh,
			ProductID:    product.ID,
			ProductName:  product.Name,
			CurrentStock: newStock,
			Threshold:    &threshold,
			CreatedAt:    movement.CreatedAt,
		})
	case product.MaxStock != nil && newStock > *product.MaxStock:
		threshold := *product.MaxStock
		n.publish(alertEvent{
			Event:        "stock_alert",
			AlertType:    stock.AlertOverstock,
			Priority:     stock.PriorityMedium,
			ProductID:    product.ID,
			ProductName:  product.Name,
			CurrentStock: newStock,
			Threshold:    &threshold,
			CreatedAt:    movement.CreatedAt,
		})
	}
}

func (n *StockNotifier) publish(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Msg("Error serializando evento de stock")
		return
	}
	select {
	case n.hub.Broadcast <- payload:
	default:
		n.log.Warn().Msg("Canal de difusión lleno, evento de stock descartado")
	}
}

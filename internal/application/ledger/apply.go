package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// ApplyInput es la entrada del núcleo transaccional. Quantity lleva signo
// solo para ADJUSTMENT; para el resto de tipos debe ser positivo.
type ApplyInput struct {
	ProductID string
	Type      string
	Quantity  int
	Reason    string
	UserID    string
}

// ApplyMovement es el único camino legítimo de mutación de stock: bloquea la
// fila del producto (SELECT FOR UPDATE), verifica suficiencia para deltas
// negativos, fija el stock con piso en cero y persiste el movimiento. Debe
// invocarse con repositorios atados a una transacción abierta; el caller hace
// Commit o Rollback. Lo comparten el ledger, el consumo de reservas y el
// orquestador de ventas.
func ApplyMovement(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in ApplyInput,
	now time.Time,
) (*entity.Movement, int, error) {
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, domain.ErrNotFound
	}

	delta, direction := deltaFor(in.Type, in.Quantity)

	// Guardia de suficiencia: una reducción mayor al stock actual aborta la
	// transacción completa sin persistir nada.
	if delta < 0 && product.Stock+delta < 0 {
		return nil, 0, &domain.InsufficientStockError{
			CurrentStock: product.Stock,
			Requested:    -delta,
		}
	}

	if delta != 0 {
		newStock := product.Stock + delta
		if newStock < 0 {
			// Piso defensivo: el stock nunca queda negativo aunque la guardia
			// de arriba fuera evadida por un camino futuro.
			newStock = 0
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return nil, 0, err
		}
		product.Stock = newStock
	}

	magnitude := in.Quantity
	if magnitude < 0 {
		magnitude = -magnitude
	}
	movement := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  magnitude,
		Direction: direction,
		Reason:    in.Reason,
		UserID:    in.UserID,
		CreatedAt: now,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, 0, err
	}
	movement.ProductName = product.Name
	movement.ProductSKU = product.SKU
	return movement, product.Stock, nil
}

// deltaFor deriva el delta con signo y la dirección almacenada a partir del
// tipo y la cantidad de entrada. El signo de un ADJUSTMENT se captura aquí,
// antes de normalizar la magnitud.
func deltaFor(movType string, quantity int) (delta, direction int) {
	switch movType {
	case entity.MovementTypeIN:
		return quantity, entity.DirectionIn
	case entity.MovementTypeOUT:
		return -quantity, entity.DirectionOut
	case entity.MovementTypeADJUSTMENT:
		if quantity < 0 {
			return quantity, entity.DirectionOut
		}
		return quantity, entity.DirectionIn
	default: // TRANSFER: solo se registra, sin efecto en stock
		return 0, entity.DirectionNone
	}
}

package ledger

import (
	"context"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el insert del
// movimiento y la actualización del contador de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockNotifier publica movimientos confirmados (post-commit) a los
// suscriptores en tiempo real. Recibe la foto del producto para que el
// notificador pueda derivar alertas de umbral sin volver a la BD. La
// publicación es best-effort: nunca afecta el resultado de la operación.
type StockNotifier interface {
	NotifyMovement(movement *entity.Movement, product *entity.Product, newStock int)
}

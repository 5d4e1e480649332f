package sale

import (
	"context"

	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// TxRunner variante transaccional con el repositorio de ventas incluido: la
// venta, sus líneas y los movimientos OUT por línea se confirman juntos o no
// se confirman.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

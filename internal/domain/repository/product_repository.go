package repository

import "github.com/jhoicas/taller-erp/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
// GetForUpdate y UpdateStock existen para el camino de escritura del ledger:
// bloquear la fila del producto y fijar el contador denormalizado dentro de
// la misma transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, stock int) error
	List(limit, offset int) ([]*entity.Product, error)
	ListActive() ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	ListOutOfStock() ([]*entity.Product, error)
	ListOverstock() ([]*entity.Product, error)
}

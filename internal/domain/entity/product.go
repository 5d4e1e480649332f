package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida de un producto.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// Product representa un producto o SKU del taller/tienda.
// Stock es el contador denormalizado: en todo momento debe ser igual a la suma
// neta de los movimientos del ledger, con piso en cero. El Ledger es el único
// mutador legítimo de este campo.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Status      string          // active, inactive, discontinued
	Stock       int             // nunca negativo
	MinStock    int             // umbral de stock bajo
	MaxStock    *int            // umbral de sobrestock (opcional)
	CostPrice   decimal.Decimal // costo unitario para valorización
	Price       decimal.Decimal // precio de venta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto admite operaciones de stock.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

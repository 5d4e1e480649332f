package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta con sus líneas. El orquestador de ventas escribe
// la venta, sus líneas y un movimiento OUT por línea en una sola transacción.
type Sale struct {
	ID         string
	SaleNumber string
	UserID     string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Items      []SaleItem
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

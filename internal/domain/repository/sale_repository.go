package repository

import "github.com/jhoicas/taller-erp/internal/domain/entity"

// SaleRepository puerto de persistencia para ventas (cabecera + líneas).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
}

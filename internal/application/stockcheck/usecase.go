package stockcheck

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// Estados de disponibilidad de stock.
const (
	StatusAvailable  = "AVAILABLE"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// UseCase es el validador de stock: guardas de solo lectura, consultivas.
// El ledger aplica su propia guardia dura dentro de la transacción; este
// pre-chequeo es defensa en profundidad, no la única barrera.
type UseCase struct {
	productRepo repository.ProductRepository
}

// NewUseCase construye el validador.
func NewUseCase(productRepo repository.ProductRepository) *UseCase {
	return &UseCase{productRepo: productRepo}
}

// AvailabilityResult resultado de una validación de disponibilidad.
// Message puede traer una advertencia no bloqueante (quedar bajo el mínimo).
type AvailabilityResult struct {
	ProductID         string
	IsAvailable       bool
	AvailableQuantity int
	RequestedQuantity int
	TotalStock        int
	Message           string
}

// ValidateAvailability responde "¿hay X unidades disponibles?". No escribe.
func (uc *UseCase) ValidateAvailability(ctx context.Context, productID string, quantity int) (*AvailabilityResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	result := &AvailabilityResult{
		ProductID:         productID,
		AvailableQuantity: product.Stock,
		RequestedQuantity: quantity,
		TotalStock:        product.Stock,
	}

	if !product.IsActive() {
		result.Message = fmt.Sprintf("el producto %q no está activo (estado: %s)", product.Name, product.Status)
		return result, nil
	}
	if product.Stock < quantity {
		result.Message = fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", product.Stock, quantity)
		return result, nil
	}

	result.IsAvailable = true
	if product.Stock-quantity < product.MinStock {
		// Advertencia consultiva: la operación procede pero deja el stock
		// bajo el mínimo configurado.
		result.Message = fmt.Sprintf("la operación dejará el stock (%d) por debajo del mínimo (%d)",
			product.Stock-quantity, product.MinStock)
	}
	return result, nil
}

// GetAvailableStock clasifica la disponibilidad actual de un producto.
func (uc *UseCase) GetAvailableStock(ctx context.Context, productID string) (string, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}
	switch {
	case product.Stock == 0:
		return StatusOutOfStock, nil
	case product.Stock <= product.MinStock:
		return StatusLowStock, nil
	default:
		return StatusAvailable, nil
	}
}

// GetLowStockProducts productos activos con stock ≤ mínimo (stock 0 incluido),
// ascendente por stock.
func (uc *UseCase) GetLowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}

// BatchItem una línea a validar en lote.
type BatchItem struct {
	ProductID string
	Quantity  int
}

// BatchResult resultado agregado de una validación en lote. Cada ítem se
// valida de forma independiente: no hay reserva cruzada de stock entre líneas.
type BatchResult struct {
	IsValid bool
	Items   []AvailabilityResult
	Errors  []string
}

// ValidateMultipleProducts valida un lote (p. ej. antes de una venta
// multilínea) agregando los fallos por ítem.
func (uc *UseCase) ValidateMultipleProducts(ctx context.Context, items []BatchItem) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	result := &BatchResult{IsValid: true}
	for _, item := range items {
		r, err := uc.ValidateAvailability(ctx, item.ProductID, item.Quantity)
		if err != nil {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("producto %s: %v", item.ProductID, err))
			continue
		}
		result.Items = append(result.Items, *r)
		if !r.IsAvailable {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("producto %s: %s", item.ProductID, r.Message))
		}
	}
	return result, nil
}

package sale

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// UseCase es el orquestador de ventas: compone los descuentos de stock
// multilínea con las escrituras del ledger en una unidad atómica. Consume el
// contrato de creación de movimientos; no conoce la mecánica interna del
// ledger más allá de ese contrato.
type UseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	saleRepo repository.SaleRepository
	notifier ledger.StockNotifier
}

// NewUseCase construye el orquestador. notifier puede ser nil.
func NewUseCase(txRunner TxRunner, userRepo repository.UserRepository, saleRepo repository.SaleRepository, notifier ledger.StockNotifier) *UseCase {
	return &UseCase{txRunner: txRunner, userRepo: userRepo, saleRepo: saleRepo, notifier: notifier}
}

// ItemInput una línea de venta solicitada.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// CreateSaleInput entrada para registrar una venta.
type CreateSaleInput struct {
	UserID string
	Items  []ItemInput
}

// CreateSale registra la venta, sus líneas y un movimiento OUT por línea
// (motivo "Venta <número>") en una sola transacción. Si cualquier línea no
// tiene stock suficiente, la venta completa se aborta.
func (uc *UseCase) CreateSale(ctx context.Context, input CreateSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 || item.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	user, err := uc.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	saleID := uuid.New().String()
	saleNumber := fmt.Sprintf("V-%s-%s", now.Format("20060102"), strings.ToUpper(saleID[:8]))

	s := &entity.Sale{
		ID:         saleID,
		SaleNumber: saleNumber,
		UserID:     input.UserID,
		Total:      decimal.Zero,
		CreatedAt:  now,
	}

	type committedOut struct {
		movement *entity.Movement
		product  *entity.Product
		newStock int
	}
	var outs []committedOut

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		outs = outs[:0]
		for _, item := range input.Items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			m, stock, err := ledger.ApplyMovement(movRepo, productRepo, ledger.ApplyInput{
				ProductID: item.ProductID,
				Type:      entity.MovementTypeOUT,
				Quantity:  item.Quantity,
				Reason:    fmt.Sprintf("Venta %s", saleNumber),
				UserID:    input.UserID,
			}, now)
			if err != nil {
				return err
			}
			outs = append(outs, committedOut{movement: m, product: product, newStock: stock})
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			s.Items = append(s.Items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
			s.Total = s.Total.Add(subtotal)
		}
		return saleRepo.Create(s)
	})
	if err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		for _, out := range outs {
			uc.notifier.NotifyMovement(out.movement, out.product, out.newStock)
		}
	}
	return s, nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

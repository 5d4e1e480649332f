package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// UseCase es el Ledger de movimientos: registra cada cambio de stock como un
// movimiento inmutable y mantiene el contador denormalizado consistente con
// el ledger dentro de una misma transacción.
type UseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifier    StockNotifier
}

// NewUseCase construye el ledger. notifier puede ser nil (sin tiempo real).
func NewUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifier StockNotifier,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// CreateMovementInput entrada para registrar un movimiento.
// Quantity lleva signo solo para ADJUSTMENT (positivo = corrección al alza,
// negativo = a la baja); para IN, OUT y TRANSFER debe ser > 0.
type CreateMovementInput struct {
	ProductID string
	Type      string
	Quantity  int
	Reason    string
	UserID    string
}

// CreateMovement valida la entrada, resuelve producto y usuario, y aplica el
// movimiento dentro de una transacción (insert + update de stock, todo o
// nada). Devuelve el movimiento creado.
func (uc *UseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*entity.Movement, error) {
	if !entity.ValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeADJUSTMENT && input.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	var created *entity.Movement
	var newStock int
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, stock, err := ApplyMovement(movRepo, productRepo, ApplyInput{
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			UserID:    input.UserID,
		}, now)
		if err != nil {
			return err
		}
		created = m
		newStock = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.UserName = user.Name
	if uc.notifier != nil {
		uc.notifier.NotifyMovement(created, product, newStock)
	}
	return created, nil
}

// GetMovements lista movimientos con filtros y paginación, del más reciente
// al más antiguo. Devuelve también el total para la paginación.
func (uc *UseCase) GetMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, 0, domain.ErrInvalidInput
	}
	return uc.movRepo.List(filter)
}

// GetMovementsByProduct últimos movimientos de un producto.
func (uc *UseCase) GetMovementsByProduct(ctx context.Context, productID string, limit int) ([]*entity.Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListByProduct(productID, limit)
}

// GetMovementByID obtiene un movimiento por ID.
func (uc *UseCase) GetMovementByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// GetMovementStats agregados del ledger. productID vacío = todo el catálogo.
func (uc *UseCase) GetMovementStats(ctx context.Context, productID string) (*repository.MovementStats, error) {
	if productID != "" {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}
	return uc.movRepo.Stats(productID)
}

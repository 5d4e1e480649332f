package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// UseCase gestiona reservas de stock: retenciones blandas con vencimiento a
// 24 horas que no tocan el ledger hasta consumirse. El consumo pasa por el
// mismo camino atómico de movimientos que cualquier salida, de modo que el
// ledger sigue siendo la única fuente de verdad del stock.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	resRepo     repository.ReservationRepository
	userRepo    repository.UserRepository
	notifier    ledger.StockNotifier
}

// NewUseCase construye el gestor de reservas. notifier puede ser nil.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	resRepo repository.ReservationRepository,
	userRepo repository.UserRepository,
	notifier ledger.StockNotifier,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		resRepo:     resRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// ReserveInput entrada para crear una reserva.
type ReserveInput struct {
	ProductID string
	Quantity  int
	UserID    string
	Reason    string
}

// ReserveStock valida disponibilidad y crea la reserva dentro de una
// transacción que bloquea la fila del producto y re-verifica el stock. El
// re-chequeo estrecha (no elimina) la ventana de carrera entre el pre-chequeo
// y la escritura; la cantidad reservada sigue contada físicamente en el stock.
func (uc *UseCase) ReserveStock(ctx context.Context, input ReserveInput) (*entity.StockReservation, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsActive() {
		return nil, domain.ErrInvalidState
	}
	if product.Stock < input.Quantity {
		return nil, &domain.InsufficientStockError{CurrentStock: product.Stock, Requested: input.Quantity}
	}

	now := time.Now()
	res := &entity.StockReservation{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		ReservedBy: input.UserID,
		Reason:     input.Reason,
		Status:     entity.ReservationStatusActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(entity.ReservationTTL),
	}

	err = uc.txRunner.RunReservation(ctx, func(
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
		resRepo repository.ReservationRepository,
	) error {
		locked, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Stock < input.Quantity {
			return &domain.InsufficientStockError{CurrentStock: locked.Stock, Requested: input.Quantity}
		}
		return resRepo.Create(res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReleaseStock cierra una reserva ACTIVE. Con consume=true descuenta el stock
// creando un movimiento OUT en el ledger (motivo: el id de la reserva) y marca
// CONSUMED; con consume=false marca RELEASED sin tocar el stock. Una reserva
// vencida se transiciona a RELEASED de forma perezosa y la operación falla
// con ErrReservationExpired.
func (uc *UseCase) ReleaseStock(ctx context.Context, reservationID string, consume bool) (*entity.StockReservation, error) {
	var result *entity.StockReservation
	var consumed *entity.Movement
	var productSnap *entity.Product
	var newStock int
	expired := false

	err := uc.txRunner.RunReservation(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		resRepo repository.ReservationRepository,
	) error {
		res, err := resRepo.GetForUpdate(reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if res.Status != entity.ReservationStatusActive {
			return domain.ErrInvalidState
		}
		now := time.Now()
		if res.IsExpired(now) {
			// Vencimiento perezoso: se materializa el RELEASED aquí y la
			// transacción se confirma; el error se reporta fuera.
			expired = true
			res.Status = entity.ReservationStatusReleased
			result = res
			return resRepo.UpdateStatus(res.ID, entity.ReservationStatusReleased)
		}

		if consume {
			m, stock, err := ledger.ApplyMovement(movRepo, productRepo, ledger.ApplyInput{
				ProductID: res.ProductID,
				Type:      entity.MovementTypeOUT,
				Quantity:  res.Quantity,
				Reason:    fmt.Sprintf("Reserva %s consumida", res.ID),
				UserID:    res.ReservedBy,
			}, now)
			if err != nil {
				return err
			}
			consumed = m
			newStock = stock
			productSnap, err = productRepo.GetByID(res.ProductID)
			if err != nil {
				return err
			}
			res.Status = entity.ReservationStatusConsumed
		} else {
			res.Status = entity.ReservationStatusReleased
		}
		result = res
		return resRepo.UpdateStatus(res.ID, res.Status)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return result, domain.ErrReservationExpired
	}
	if consumed != nil && uc.notifier != nil {
		uc.notifier.NotifyMovement(consumed, productSnap, newStock)
	}
	return result, nil
}

// ActiveReservations reservas vigentes de un producto y su total retenido.
type ActiveReservations struct {
	ProductID     string
	TotalReserved int
	Reservations  []*entity.StockReservation
}

// GetActiveReservations lista las reservas ACTIVE no vencidas de un producto.
// El total retenido es informativo: ni el validador ni el ledger lo
// descuentan del stock disponible.
func (uc *UseCase) GetActiveReservations(ctx context.Context, productID string) (*ActiveReservations, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.resRepo.ListActiveByProduct(productID, time.Now())
	if err != nil {
		return nil, err
	}
	total := 0
	for _, r := range list {
		total += r.Quantity
	}
	return &ActiveReservations{
		ProductID:     productID,
		TotalReserved: total,
		Reservations:  list,
	}, nil
}

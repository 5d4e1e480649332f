package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, product_id, quantity, reserved_by, reason, status, created_at, expires_at`

// ReservationRepo implementación sobre PostgreSQL (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste una reserva nueva (estado ACTIVE).
func (r *ReservationRepo) Create(res *entity.StockReservation) error {
	query := `
		INSERT INTO stock_reservations (id, product_id, quantity, reserved_by, reason, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reason := (*string)(nil)
	if res.Reason != "" {
		reason = &res.Reason
	}
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.ProductID, res.Quantity, res.ReservedBy, reason,
		res.Status, res.CreatedAt, res.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(id string) (*entity.StockReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la reserva y bloquea la fila, para que dos release
// concurrentes sobre la misma reserva se serialicen y solo uno transicione.
func (r *ReservationRepo) GetForUpdate(id string) (*entity.StockReservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM stock_reservations WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// UpdateStatus transiciona el estado de una reserva (ACTIVE → CONSUMED | RELEASED).
func (r *ReservationRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_reservations SET status = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByProduct reservas ACTIVE no vencidas de un producto, de la más
// antigua a la más reciente. El filtro de vencimiento va en la consulta:
// las filas vencidas pueden seguir ACTIVE en storage (evaluación perezosa).
func (r *ReservationRepo) ListActiveByProduct(productID string, now time.Time) ([]*entity.StockReservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM stock_reservations
		WHERE product_id = $1 AND status = $2 AND expires_at > $3
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID, entity.ReservationStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockReservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *ReservationRepo) getOne(query string, args ...any) (*entity.StockReservation, error) {
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*entity.StockReservation, error) {
	var res entity.StockReservation
	var reason *string
	if err := row.Scan(
		&res.ID, &res.ProductID, &res.Quantity, &res.ReservedBy, &reason,
		&res.Status, &res.CreatedAt, &res.ExpiresAt,
	); err != nil {
		return nil, err
	}
	if reason != nil {
		res.Reason = *reason
	}
	return &res, nil
}

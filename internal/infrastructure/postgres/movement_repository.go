package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// movementSelect incluye el snapshot denormalizado (producto y usuario) por
// join al momento de leer; nunca se copia a la tabla del ledger.
const movementSelect = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.direction, m.reason, m.user_id, m.created_at,
	       COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(u.name, '')
	FROM stock_movements m
	LEFT JOIN products p ON p.id = m.product_id
	LEFT JOIN users u ON u.id = m.user_id`

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: este adaptador no tiene UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. seq (BIGSERIAL) da el desempate de orden de
// inserción para timestamps iguales.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, direction, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	reason := (*string)(nil)
	if movement.Reason != "" {
		reason = &movement.Reason
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Direction, reason, movement.UserID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID con su snapshot.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := movementSelect + ` WHERE m.id = $1`
	var m entity.Movement
	var reason *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Direction, &reason,
		&m.UserID, &m.CreatedAt, &m.ProductName, &m.ProductSKU, &m.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if reason != nil {
		m.Reason = *reason
	}
	return &m, nil
}

// List lista movimientos con filtros y paginación, del más reciente al más
// antiguo (desempate por seq). Devuelve el total sin paginar.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	where := ""
	var args []any
	pos := 1
	appendCond := func(cond string, value any) {
		if where == "" {
			where = " WHERE " + fmt.Sprintf(cond, pos)
		} else {
			where += " AND " + fmt.Sprintf(cond, pos)
		}
		args = append(args, value)
		pos++
	}
	if filter.ProductID != "" {
		appendCond("m.product_id = $%d", filter.ProductID)
	}
	if filter.Type != "" {
		appendCond("m.type = $%d", filter.Type)
	}
	if filter.UserID != "" {
		appendCond("m.user_id = $%d", filter.UserID)
	}
	if filter.From != nil {
		appendCond("m.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		appendCond("m.created_at <= $%d", *filter.To)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements m` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := movementSelect + where +
		fmt.Sprintf(" ORDER BY m.created_at DESC, m.seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	list, err := r.getMany(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByProduct últimos movimientos de un producto.
func (r *MovementRepo) ListByProduct(productID string, limit int) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE m.product_id = $1 ORDER BY m.created_at DESC, m.seq DESC LIMIT $2`
	return r.getMany(query, productID, limit)
}

// ListByProductSince movimientos desde `since`, del más reciente al más
// antiguo: el orden que consume la reconstrucción de historial.
func (r *MovementRepo) ListByProductSince(productID string, since time.Time) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE m.product_id = $1 AND m.created_at >= $2 ORDER BY m.created_at DESC, m.seq DESC`
	return r.getMany(query, productID, since)
}

// SumOutboundSince total de unidades OUT desde `since`.
func (r *MovementRepo) SumOutboundSince(productID string, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE product_id = $1 AND type = 'OUT' AND created_at >= $2`
	var sum int
	if err := r.q.QueryRow(context.Background(), query, productID, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum outbound: %w", err)
	}
	return sum, nil
}

// CountSince número de movimientos de un producto desde `since`.
func (r *MovementRepo) CountSince(productID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1 AND created_at >= $2`
	var count int
	if err := r.q.QueryRow(context.Background(), query, productID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movements since: %w", err)
	}
	return count, nil
}

// Stats agregados del ledger. productID vacío agrega todo el catálogo.
// TotalAdjustments suma magnitudes absolutas (las magnitudes ya se guardan
// sin signo).
func (r *MovementRepo) Stats(productID string) (*repository.MovementStats, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE type = 'IN'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE type = 'OUT'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE type = 'ADJUSTMENT'), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE type = 'IN'),
			COUNT(*) FILTER (WHERE type = 'OUT'),
			COUNT(*) FILTER (WHERE type = 'ADJUSTMENT'),
			COUNT(*) FILTER (WHERE type = 'TRANSFER'),
			MAX(created_at)
		FROM stock_movements`
	var args []any
	if productID != "" {
		query += ` WHERE product_id = $1`
		args = append(args, productID)
	}

	stats := &repository.MovementStats{PerTypeCounts: make(map[string]int, 4)}
	var inCount, outCount, adjCount, trfCount int
	var last *time.Time
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&stats.TotalIn, &stats.TotalOut, &stats.TotalAdjustments, &stats.MovementCount,
		&inCount, &outCount, &adjCount, &trfCount, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("movement stats: %w", err)
	}
	stats.PerTypeCounts[entity.MovementTypeIN] = inCount
	stats.PerTypeCounts[entity.MovementTypeOUT] = outCount
	stats.PerTypeCounts[entity.MovementTypeADJUSTMENT] = adjCount
	stats.PerTypeCounts[entity.MovementTypeTRANSFER] = trfCount
	stats.LastMovementAt = last
	return stats, nil
}

func (r *MovementRepo) getMany(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var reason *string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Direction, &reason,
			&m.UserID, &m.CreatedAt, &m.ProductName, &m.ProductSKU, &m.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reason != nil {
			m.Reason = *reason
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

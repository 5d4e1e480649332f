// Package apptest provee repositorios en memoria y un runner transaccional
// falso para los tests de los casos de uso. El runner serializa las
// transacciones con un mutex (emulando el bloqueo de fila) y restaura el
// estado previo cuando el callback falla (emulando el rollback). Los
// repositorios obtenidos del Store toman el mismo mutex en cada método; los
// que el runner pasa al callback no lo toman porque la transacción ya lo
// sostiene.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/application/reservation"
	"github.com/jhoicas/taller-erp/internal/application/sale"
	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
)

// Store es el estado compartido por todos los repositorios falsos.
type Store struct {
	mu           sync.Mutex
	products     map[string]*entity.Product
	movements    []*entity.Movement
	reservations map[string]*entity.StockReservation
	sales        map[string]*entity.Sale
	users        map[string]*entity.User
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]*entity.Product),
		reservations: make(map[string]*entity.StockReservation),
		sales:        make(map[string]*entity.Sale),
		users:        make(map[string]*entity.User),
	}
}

// SeedProduct inserta un producto directamente en el estado.
func (s *Store) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

// SeedUser inserta un usuario directamente en el estado.
func (s *Store) SeedUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// SeedReservation inserta una reserva directamente en el estado.
func (s *Store) SeedReservation(r *entity.StockReservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.reservations[r.ID] = &cp
}

// SeedMovement inserta un movimiento directamente en el estado.
func (s *Store) SeedMovement(m *entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.movements = append(s.movements, &cp)
}

// ProductStock devuelve el stock almacenado de un producto.
func (s *Store) ProductStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return -1
}

// Movements devuelve copias de todos los movimientos persistidos.
func (s *Store) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// Reservation devuelve la reserva almacenada (o nil).
func (s *Store) Reservation(id string) *entity.StockReservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reservations[id]; ok {
		cp := *r
		return &cp
	}
	return nil
}

// Sales devuelve el número de ventas persistidas.
func (s *Store) Sales() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// ── repositorios ──────────────────────────────────────────────────────────────

// repoBase comparte el estado y la política de bloqueo. Los repos con tx=true
// viven dentro de una transacción del runner, que ya sostiene el mutex.
type repoBase struct {
	s  *Store
	tx bool
}

// lock toma el mutex del estado salvo dentro de una transacción. Devuelve la
// función de liberación: `defer r.lock()()`.
func (b repoBase) lock() func() {
	if b.tx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

// Products devuelve el repositorio de productos sobre el estado.
func (s *Store) Products() repository.ProductRepository { return &productRepo{repoBase{s: s}} }

// MovementsRepo devuelve el repositorio de movimientos sobre el estado.
func (s *Store) MovementsRepo() repository.MovementRepository { return &movementRepo{repoBase{s: s}} }

// Reservations devuelve el repositorio de reservas sobre el estado.
func (s *Store) Reservations() repository.ReservationRepository {
	return &reservationRepo{repoBase{s: s}}
}

// SalesRepo devuelve el repositorio de ventas sobre el estado.
func (s *Store) SalesRepo() repository.SaleRepository { return &saleRepo{repoBase{s: s}} }

// Users devuelve el repositorio de usuarios sobre el estado.
func (s *Store) Users() repository.UserRepository { return &userRepo{repoBase{s: s}} }

type productRepo struct{ repoBase }

func (r *productRepo) Create(p *entity.Product) error {
	defer r.lock()()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.lock()()
	return r.getByID(id)
}

func (r *productRepo) getByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetBySKU(sku string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	defer r.lock()()
	return r.getByID(id)
}

func (r *productRepo) UpdateStock(id string, stock int) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Stock = stock
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	defer r.lock()()
	all := r.sorted(func(*entity.Product) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *productRepo) ListActive() ([]*entity.Product, error) {
	defer r.lock()()
	return r.sorted(func(p *entity.Product) bool { return p.Status == entity.ProductStatusActive }), nil
}

func (r *productRepo) ListLowStock() ([]*entity.Product, error) {
	defer r.lock()()
	out := r.sorted(func(p *entity.Product) bool {
		return p.Status == entity.ProductStatusActive && p.Stock <= p.MinStock
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *productRepo) ListOutOfStock() ([]*entity.Product, error) {
	defer r.lock()()
	return r.sorted(func(p *entity.Product) bool {
		return p.Status == entity.ProductStatusActive && p.Stock == 0
	}), nil
}

func (r *productRepo) ListOverstock() ([]*entity.Product, error) {
	defer r.lock()()
	return r.sorted(func(p *entity.Product) bool {
		return p.Status == entity.ProductStatusActive && p.MaxStock != nil && p.Stock > *p.MaxStock
	}), nil
}

func (r *productRepo) sorted(keep func(*entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.s.products {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type movementRepo struct{ repoBase }

func (r *movementRepo) Create(m *entity.Movement) error {
	defer r.lock()()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	defer r.lock()()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	defer r.lock()()
	matched := r.desc(func(m *entity.Movement) bool {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			return false
		}
		if filter.Type != "" && m.Type != filter.Type {
			return false
		}
		if filter.UserID != "" && m.UserID != filter.UserID {
			return false
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			return false
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			return false
		}
		return true
	})
	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *movementRepo) ListByProduct(productID string, limit int) ([]*entity.Movement, error) {
	defer r.lock()()
	matched := r.desc(func(m *entity.Movement) bool { return m.ProductID == productID })
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *movementRepo) ListByProductSince(productID string, since time.Time) ([]*entity.Movement, error) {
	defer r.lock()()
	return r.desc(func(m *entity.Movement) bool {
		return m.ProductID == productID && !m.CreatedAt.Before(since)
	}), nil
}

func (r *movementRepo) SumOutboundSince(productID string, since time.Time) (int, error) {
	defer r.lock()()
	sum := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.Type == entity.MovementTypeOUT && !m.CreatedAt.Before(since) {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *movementRepo) CountSince(productID string, since time.Time) (int, error) {
	defer r.lock()()
	count := 0
	for _, m := range r.s.movements {
		if m.ProductID == productID && !m.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *movementRepo) Stats(productID string) (*repository.MovementStats, error) {
	defer r.lock()()
	stats := &repository.MovementStats{PerTypeCounts: make(map[string]int, 4)}
	for _, m := range r.s.movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		stats.MovementCount++
		stats.PerTypeCounts[m.Type]++
		switch m.Type {
		case entity.MovementTypeIN:
			stats.TotalIn += m.Quantity
		case entity.MovementTypeOUT:
			stats.TotalOut += m.Quantity
		case entity.MovementTypeADJUSTMENT:
			stats.TotalAdjustments += m.Quantity
		}
		if stats.LastMovementAt == nil || m.CreatedAt.After(*stats.LastMovementAt) {
			t := m.CreatedAt
			stats.LastMovementAt = &t
		}
	}
	return stats, nil
}

// desc devuelve copias filtradas del más reciente al más antiguo (orden de
// inserción invertido, el equivalente del desempate por seq).
func (r *movementRepo) desc(keep func(*entity.Movement) bool) []*entity.Movement {
	var out []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if keep(r.s.movements[i]) {
			cp := *r.s.movements[i]
			out = append(out, &cp)
		}
	}
	return out
}

type reservationRepo struct{ repoBase }

func (r *reservationRepo) Create(res *entity.StockReservation) error {
	defer r.lock()()
	cp := *res
	r.s.reservations[res.ID] = &cp
	return nil
}

func (r *reservationRepo) GetByID(id string) (*entity.StockReservation, error) {
	defer r.lock()()
	return r.getByID(id)
}

func (r *reservationRepo) getByID(id string) (*entity.StockReservation, error) {
	res, ok := r.s.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *reservationRepo) GetForUpdate(id string) (*entity.StockReservation, error) {
	defer r.lock()()
	return r.getByID(id)
}

func (r *reservationRepo) UpdateStatus(id, status string) error {
	defer r.lock()()
	res, ok := r.s.reservations[id]
	if !ok {
		return nil
	}
	res.Status = status
	return nil
}

func (r *reservationRepo) ListActiveByProduct(productID string, now time.Time) ([]*entity.StockReservation, error) {
	defer r.lock()()
	var out []*entity.StockReservation
	for _, res := range r.s.reservations {
		if res.ProductID == productID && res.Status == entity.ReservationStatusActive && res.ExpiresAt.After(now) {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type saleRepo struct{ repoBase }

func (r *saleRepo) Create(sale *entity.Sale) error {
	defer r.lock()()
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	defer r.lock()()
	sl, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sl
	cp.Items = append([]entity.SaleItem(nil), sl.Items...)
	return &cp, nil
}

type userRepo struct{ repoBase }

func (r *userRepo) Create(u *entity.User) error {
	defer r.lock()()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ── runner transaccional ──────────────────────────────────────────────────────

var _ ledger.TxRunner = (*Runner)(nil)
var _ reservation.TxRunner = (*Runner)(nil)
var _ sale.TxRunner = (*Runner)(nil)

// Runner ejecuta los callbacks transaccionales sobre el Store. El mutex
// serializa las "transacciones" (emulando SELECT FOR UPDATE) y un snapshot
// previo restaura el estado cuando el callback falla (emulando el rollback).
// Los repos que recibe el callback no vuelven a tomar el mutex.
type Runner struct {
	s *Store
}

// NewRunner construye el runner sobre el estado.
func NewRunner(s *Store) *Runner {
	return &Runner{s: s}
}

func (r *Runner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.snapshot()
	if err := fn(r.txMovements(), r.txProducts()); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *Runner) RunReservation(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	resRepo repository.ReservationRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.snapshot()
	if err := fn(r.txMovements(), r.txProducts(), r.txReservations()); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *Runner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.snapshot()
	if err := fn(r.txMovements(), r.txProducts(), r.txSales()); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *Runner) txProducts() *productRepo { return &productRepo{repoBase{s: r.s, tx: true}} }

func (r *Runner) txMovements() *movementRepo { return &movementRepo{repoBase{s: r.s, tx: true}} }

func (r *Runner) txReservations() *reservationRepo {
	return &reservationRepo{repoBase{s: r.s, tx: true}}
}

func (r *Runner) txSales() *saleRepo { return &saleRepo{repoBase{s: r.s, tx: true}} }

type snapshot struct {
	products     map[string]*entity.Product
	movementsLen int
	reservations map[string]*entity.StockReservation
	sales        map[string]*entity.Sale
}

func (r *Runner) snapshot() snapshot {
	products := make(map[string]*entity.Product, len(r.s.products))
	for id, p := range r.s.products {
		cp := *p
		products[id] = &cp
	}
	reservations := make(map[string]*entity.StockReservation, len(r.s.reservations))
	for id, res := range r.s.reservations {
		cp := *res
		reservations[id] = &cp
	}
	sales := make(map[string]*entity.Sale, len(r.s.sales))
	for id, sl := range r.s.sales {
		cp := *sl
		cp.Items = append([]entity.SaleItem(nil), sl.Items...)
		sales[id] = &cp
	}
	return snapshot{
		products:     products,
		movementsLen: len(r.s.movements),
		reservations: reservations,
		sales:        sales,
	}
}

func (r *Runner) restore(snap snapshot) {
	r.s.products = snap.products
	r.s.movements = r.s.movements[:snap.movementsLen]
	r.s.reservations = snap.reservations
	r.s.sales = snap.sales
}

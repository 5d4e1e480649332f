package metrics

import (
	"context"
	"time"

	"github.com/jhoicas/taller-erp/internal/application/ledger"
	"github.com/jhoicas/taller-erp/internal/domain"
	"github.com/jhoicas/taller-erp/internal/domain/entity"
	"github.com/jhoicas/taller-erp/internal/domain/repository"
	"github.com/jhoicas/taller-erp/internal/domain/stock"
	"github.com/jhoicas/taller-erp/pkg/logger"
)

// UseCase deriva métricas de salud y alertas desde el historial del ledger.
// Todo es pull: nada se almacena, los callers vuelven a consultar.
type UseCase struct {
	txRunner    ledger.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	log         *logger.Logger
}

// NewUseCase construye el motor de métricas y alertas.
func NewUseCase(
	txRunner ledger.TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         log,
	}
}

// CalculateStockMetrics calcula la foto de métricas de un producto sobre la
// ventana de 90 días del ledger.
func (uc *UseCase) CalculateStockMetrics(ctx context.Context, productID string) (*stock.Metrics, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	since := time.Now().AddDate(0, 0, -stock.MetricsWindowDays)
	outbound, err := uc.movRepo.SumOutboundSince(productID, since)
	if err != nil {
		return nil, err
	}
	m := stock.ComputeMetrics(product, outbound, stock.MetricsWindowDays)
	return &m, nil
}

// CheckStockAlerts evalúa las reglas de alerta de un producto. Las alertas se
// recalculan en cada llamada; nunca se persisten.
func (uc *UseCase) CheckStockAlerts(ctx context.Context, productID string) ([]stock.Alert, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	outbound, err := uc.movRepo.SumOutboundSince(productID, now.AddDate(0, 0, -stock.MetricsWindowDays))
	if err != nil {
		return nil, err
	}
	last30, err := uc.movRepo.CountSince(productID, now.AddDate(0, 0, -stock.NoMovementWindowDays))
	if err != nil {
		return nil, err
	}
	m := stock.ComputeMetrics(product, outbound, stock.MetricsWindowDays)
	return stock.BuildAlerts(product, m, last30, now), nil
}

// AttentionReport productos agrupados por condición de atención.
type AttentionReport struct {
	OutOfStock []*entity.Product
	LowStock   []*entity.Product
	Overstock  []*entity.Product
	HighUsage  []stock.Alert
	NoMovement []stock.Alert
}

// GetProductsRequiringAttention agrupa el catálogo por condición: las tres
// primeras listas salen de comparaciones directas en BD; HighUsage y
// NoMovement se derivan aplicando el chequeo de alertas producto a producto
// sobre el catálogo activo. Un fallo de cómputo en un producto se registra y
// se omite: la degradación de alertas no es fatal.
func (uc *UseCase) GetProductsRequiringAttention(ctx context.Context) (*AttentionReport, error) {
	report := &AttentionReport{}

	var err error
	if report.OutOfStock, err = uc.productRepo.ListOutOfStock(); err != nil {
		return nil, err
	}
	lowStock, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	// El reporte agrupa en condiciones disjuntas: los agotados ya están en
	// OutOfStock y no se repiten en LowStock.
	for _, p := range lowStock {
		if p.Stock > 0 {
			report.LowStock = append(report.LowStock, p)
		}
	}
	if report.Overstock, err = uc.productRepo.ListOverstock(); err != nil {
		return nil, err
	}

	active, err := uc.productRepo.ListActive()
	if err != nil {
		return nil, err
	}
	for _, p := range active {
		alerts, err := uc.CheckStockAlerts(ctx, p.ID)
		if err != nil {
			if uc.log != nil {
				uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("cómputo de alertas omitido")
			}
			continue
		}
		for _, a := range alerts {
			switch a.Type {
			case stock.AlertHighUsage:
				report.HighUsage = append(report.HighUsage, a)
			case stock.AlertNoMovement:
				report.NoMovement = append(report.NoMovement, a)
			}
		}
	}
	return report, nil
}

// OptimizeStockLevels sugiere umbrales min/max a partir del uso promedio.
func (uc *UseCase) OptimizeStockLevels(ctx context.Context, productID string) (*stock.Recommendation, error) {
	m, err := uc.CalculateStockMetrics(ctx, productID)
	if err != nil {
		return nil, err
	}
	rec := stock.OptimizeLevels(m.AverageDailyUsage)
	return &rec, nil
}

// GetStockHistory reconstruye la línea de tiempo de stock de los últimos
// `days` días caminando el ledger hacia atrás desde el stock actual. Corre
// dentro de una transacción que primero toma el bloqueo de fila del producto,
// de modo que el ledger no puede moverse bajo la lectura.
func (uc *UseCase) GetStockHistory(ctx context.Context, productID string, days int) ([]stock.HistoryPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var points []stock.HistoryPoint
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		movements, err := movRepo.ListByProductSince(productID, since)
		if err != nil {
			return err
		}
		points = stock.ReconstructHistory(product.Stock, movements)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

package stock

import (
	"time"

	"github.com/jhoicas/taller-erp/internal/domain/entity"
)

// HistoryPoint es un punto de la línea de tiempo reconstruida: el stock
// inmediatamente después de aplicar el movimiento.
type HistoryPoint struct {
	Date               time.Time
	StockAfterMovement int
	Movement           entity.Movement
}

// ReconstructHistory reconstruye la línea de tiempo de stock hacia atrás:
// parte del stock actual y resta el efecto con signo de cada movimiento
// (recibidos del más reciente al más antiguo) para derivar el stock que quedó
// tras cada movimiento anterior. Devuelve los puntos en orden cronológico.
//
// Solo es correcta bajo una lectura estable del ledger: el caller debe
// invocarla dentro de la misma transacción que leyó el stock y la lista.
func ReconstructHistory(currentStock int, movementsDesc []*entity.Movement) []HistoryPoint {
	points := make([]HistoryPoint, len(movementsDesc))
	running := currentStock
	for i, m := range movementsDesc {
		points[len(points)-1-i] = HistoryPoint{
			Date:               m.CreatedAt,
			StockAfterMovement: running,
			Movement:           *m,
		}
		running -= m.StockDelta()
		if running < 0 {
			// El ledger aplica piso en cero; el rebobinado no puede ir por debajo.
			running = 0
		}
	}
	return points
}

package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste (corrección con signo)
	MovementTypeTRANSFER   = "TRANSFER"   // intención de traslado, sin efecto en stock
)

// Direcciones del efecto sobre el stock. La magnitud almacenada siempre es
// positiva; la dirección conserva el signo original del ajuste.
const (
	DirectionIn   = 1
	DirectionOut  = -1
	DirectionNone = 0
)

// Movement es una entrada inmutable del ledger de stock: se crea exactamente
// una vez, nunca se actualiza ni se borra. Quantity guarda la magnitud sin
// signo; Direction el sentido aplicado al stock (0 para TRANSFER).
type Movement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  int // magnitud, siempre >= 0
	Direction int // +1, -1 o 0
	Reason    string
	UserID    string
	CreatedAt time.Time

	// Snapshot denormalizado resuelto por join al leer; nunca se persiste.
	ProductName string
	ProductSKU  string
	UserName    string
}

// StockDelta devuelve el efecto con signo de este movimiento sobre el stock.
func (m *Movement) StockDelta() int {
	return m.Quantity * m.Direction
}

// ValidMovementType valida que el tipo sea uno de los cuatro conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTRANSFER:
		return true
	}
	return false
}

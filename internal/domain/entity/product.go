package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo se modifica a través del libro de movimientos (StockLedger);
// el formulario de edición no lo toca. Eliminación lógica vía Active.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  string // vacío = sin categoría
	Stock       int64
	MinStock    int64           // umbral de reabastecimiento (informativo)
	Price       decimal.Decimal // precio de venta
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock indica si el producto está en o por debajo de su stock mínimo.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

package entity

import "time"

// MovementType es el tipo de un movimiento de inventario.
type MovementType string

// Tipos de movimiento.
const (
	MovementEntrada MovementType = "entrada" // aumenta stock
	MovementSalida  MovementType = "salida"  // disminuye stock
)

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	return t == MovementEntrada || t == MovementSalida
}

// Movement es el registro de auditoría de un cambio de stock, inmutable una vez
// creado. No existe operación de actualización ni borrado: el historial es un
// libro de solo inserción. Date lo asigna la base de datos al insertar.
type Movement struct {
	ID         string
	ProductID  string
	UserID     string
	SupplierID string // opcional, solo tiene sentido en entradas
	Type       MovementType
	Quantity   int64 // siempre > 0; el signo lo da Type
	Date       time.Time
}

package entity

import "time"

// Supplier representa un proveedor; los movimientos de entrada pueden referenciarlo.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
}

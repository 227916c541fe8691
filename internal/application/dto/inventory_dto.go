package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// supplier_id solo tiene sentido para entradas.
type RegisterMovementRequest struct {
	ProductID  string `json:"product_id"`
	Type       string `json:"type"` // entrada | salida
	Quantity   int64  `json:"quantity"`
	SupplierID string `json:"supplier_id,omitempty"`
}

// RegisterMovementResponse salida del registro de un movimiento.
type RegisterMovementResponse struct {
	MovementID string `json:"movement_id"`
	NewStock   int64  `json:"new_stock"`
}

// MovementResponse un movimiento del historial, con nombres resueltos.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	SupplierID   string    `json:"supplier_id,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	Type         string    `json:"type"`
	Quantity     int64     `json:"quantity"`
	Date         time.Time `json:"date"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Stock es el stock inicial: si es > 0 se registra como movimiento de entrada
// en el libro, no como escritura directa de la columna.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id,omitempty"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. Sin Stock:
// el stock solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	MinStock    *int64           `json:"min_stock"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id,omitempty"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	LowStock    bool            `json:"low_stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

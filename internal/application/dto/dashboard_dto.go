package dto

// LowStockProductDTO producto por debajo de su stock mínimo (widget del dashboard).
type LowStockProductDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"min_stock"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// TotalUsers solo se incluye para administradores.
type DashboardSummaryDTO struct {
	TotalProducts int                  `json:"total_products"`
	LowStock      []LowStockProductDTO `json:"low_stock"`
	LastMovements []MovementResponse   `json:"last_movements"`
	TotalUsers    *int                 `json:"total_users,omitempty"`
}

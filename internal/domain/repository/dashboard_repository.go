package repository

import "context"

// LowStockResult producto en o por debajo de su stock mínimo, para el dashboard.
type LowStockResult struct {
	ProductID string
	Name      string
	Stock     int64
	MinStock  int64
}

// DashboardRepository consultas de solo lectura para los dashboards.
type DashboardRepository interface {
	CountActiveProducts(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
	ListLowStock(ctx context.Context) ([]LowStockResult, error)
	// LastMovements devuelve los últimos movimientos con nombres resueltos,
	// del más reciente al más antiguo.
	LastMovements(ctx context.Context, limit int) ([]MovementRecord, error)
}

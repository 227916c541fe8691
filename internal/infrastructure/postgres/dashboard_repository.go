package postgres

import (
	"context"
	"fmt"

	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only para los dashboards sobre PostgreSQL.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador de consultas de dashboard.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// CountActiveProducts cuenta los productos activos.
func (r *DashboardRepo) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

// CountActiveUsers cuenta los usuarios activos.
func (r *DashboardRepo) CountActiveUsers(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return n, nil
}

// ListLowStock lista productos activos en o por debajo de su stock mínimo.
func (r *DashboardRepo) ListLowStock(ctx context.Context) ([]repository.LowStockResult, error) {
	query := `
		SELECT id, name, stock, min_stock
		FROM products WHERE active AND stock <= min_stock
		ORDER BY stock, name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockResult
	for rows.Next() {
		var p repository.LowStockResult
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Stock, &p.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// LastMovements devuelve los últimos movimientos con nombres resueltos.
func (r *DashboardRepo) LastMovements(ctx context.Context, limit int) ([]repository.MovementRecord, error) {
	repo := NewMovementRepository(r.q)
	return repo.ListHistory(ctx, repository.MovementFilter{Limit: limit})
}

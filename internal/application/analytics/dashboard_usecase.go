// Package analytics contiene los casos de uso de solo lectura que alimentan
// los dashboards de admin y operador.
package analytics

import (
	"context"
	"fmt"

	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

const dashboardLastMovements = 5 // número de movimientos en el widget del dashboard

// DashboardUseCase genera el resumen operativo del inventario.
//
// Fuente de datos: DashboardRepository (consultas read-only).
// No toca las tablas directamente; delega todo en el repositorio.
type DashboardUseCase struct {
	dashRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo}
}

// GetSummary construye el DashboardSummaryDTO para el rol indicado.
// TotalUsers solo se calcula e incluye para administradores.
//
// Tres (o cuatro) llamadas en paralelo:
//  1. CountActiveProducts → TotalProducts
//  2. ListLowStock        → LowStock
//  3. LastMovements(5)    → LastMovements
//  4. CountActiveUsers    → TotalUsers (solo admin)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, role entity.Role) (*dto.DashboardSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type lowStockResult struct {
		items []repository.LowStockResult
		err   error
	}
	type movementsResult struct {
		records []repository.MovementRecord
		err     error
	}

	productsCh := make(chan countResult, 1)
	lowStockCh := make(chan lowStockResult, 1)
	movementsCh := make(chan movementsResult, 1)
	usersCh := make(chan countResult, 1)

	go func() {
		n, err := uc.dashRepo.CountActiveProducts(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		items, err := uc.dashRepo.ListLowStock(ctx)
		lowStockCh <- lowStockResult{items, err}
	}()
	go func() {
		records, err := uc.dashRepo.LastMovements(ctx, dashboardLastMovements)
		movementsCh <- movementsResult{records, err}
	}()
	if role.CanManage() {
		go func() {
			n, err := uc.dashRepo.CountActiveUsers(ctx)
			usersCh <- countResult{n, err}
		}()
	}

	products := <-productsCh
	lowStock := <-lowStockCh
	movements := <-movementsCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	}
	if lowStock.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lowStock.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("dashboard: últimos movimientos: %w", movements.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TotalProducts: products.n,
		LowStock:      make([]dto.LowStockProductDTO, len(lowStock.items)),
		LastMovements: make([]dto.MovementResponse, len(movements.records)),
	}
	for i, p := range lowStock.items {
		summary.LowStock[i] = dto.LowStockProductDTO{
			ProductID: p.ProductID,
			Name:      p.Name,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
		}
	}
	for i, r := range movements.records {
		summary.LastMovements[i] = dto.MovementResponse{
			ID:           r.ID,
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			UserID:       r.UserID,
			UserName:     r.UserName,
			SupplierID:   r.SupplierID,
			SupplierName: r.SupplierName,
			Type:         string(r.Type),
			Quantity:     r.Quantity,
			Date:         r.Date,
		}
	}

	if role.CanManage() {
		users := <-usersCh
		if users.err != nil {
			return nil, fmt.Errorf("dashboard: total de usuarios: %w", users.err)
		}
		summary.TotalUsers = &users.n
	}

	return summary, nil
}

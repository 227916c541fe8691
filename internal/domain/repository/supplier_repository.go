package repository

import (
	"context"

	"github.com/jcamargo/invenly-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Supplier, error)
}

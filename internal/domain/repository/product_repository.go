package repository

import (
	"context"

	"github.com/jcamargo/invenly-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate y UpdateStock solo deben usarse dentro de una transacción
// (vía inventory.TxRunner): son las dos mitades del libro de movimientos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Product, error)
	// Update no modifica Stock: el stock se maneja exclusivamente vía movimientos.
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStock(ctx context.Context, id string, stock int64) error
}

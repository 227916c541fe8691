package repository

import (
	"context"
	"time"

	"github.com/jcamargo/invenly-api/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	ProductID string
	Type      entity.MovementType // vacío = todos
	From      *time.Time
	To        *time.Time
	Limit     int // <= 0: sin límite
	Offset    int
}

// MovementRecord es un movimiento con los nombres del producto, el usuario y el
// proveedor ya resueltos (JOIN), tal como lo muestra el historial.
type MovementRecord struct {
	entity.Movement
	ProductName  string
	UserName     string
	SupplierName string // vacío si el movimiento no tiene proveedor
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserción y lectura: un movimiento nunca se actualiza ni se borra.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListHistory(ctx context.Context, f MovementFilter) ([]MovementRecord, error)
}

package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jcamargo/invenly-api/internal/domain"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

// StockLedger aplica movimientos de inventario (entrada/salida) de forma
// transaccional: bloqueo de fila sobre el producto (SELECT FOR UPDATE), alta del
// movimiento y actualización del stock en una misma transacción, con Commit o
// Rollback. Es el único escritor del stock: dos Apply concurrentes sobre el
// mismo producto se serializan en el lock de fila.
type StockLedger struct {
	txRunner     TxRunner
	supplierRepo repository.SupplierRepository
}

// NewStockLedger construye el libro de movimientos.
func NewStockLedger(txRunner TxRunner, supplierRepo repository.SupplierRepository) *StockLedger {
	return &StockLedger{txRunner: txRunner, supplierRepo: supplierRepo}
}

// ApplyInput entrada para aplicar un movimiento.
type ApplyInput struct {
	ProductID  string
	UserID     string
	Type       entity.MovementType
	Quantity   int64
	SupplierID string // opcional, solo entradas
}

// ApplyResult resultado de un movimiento aplicado.
type ApplyResult struct {
	Movement *entity.Movement
	NewStock int64
}

// Apply valida y aplica un movimiento. Invariantes:
//   - el stock nunca queda negativo: una salida mayor al stock actual se
//     rechaza con ErrInsufficientStock sin efecto observable;
//   - cada cambio de stock tiene exactamente un movimiento en el libro: las dos
//     escrituras ocurren en la misma transacción, ambas o ninguna.
//
// Apply no es idempotente a propósito: dos llamadas idénticas representan dos
// movimientos reales y producen dos filas y dos deltas.
func (l *StockLedger) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	supplierID, err := l.resolveInput(ctx, in)
	if err != nil {
		return nil, err
	}

	var result *ApplyResult
	err = l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		res, err := l.applyLocked(ctx, movRepo, productRepo, in, supplierID)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyWithin aplica un movimiento con repositorios ya atados a una transacción
// abierta, para componerlo con otras escrituras atómicas (p. ej. el alta de un
// producto con stock inicial). El Commit o Rollback queda a cargo del llamador.
func (l *StockLedger) ApplyWithin(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in ApplyInput,
) (*ApplyResult, error) {
	supplierID, err := l.resolveInput(ctx, in)
	if err != nil {
		return nil, err
	}
	return l.applyLocked(ctx, movRepo, productRepo, in, supplierID)
}

// resolveInput valida el movimiento y resuelve el proveedor. Un proveedor
// inexistente o desactivado rechaza la entrada.
func (l *StockLedger) resolveInput(ctx context.Context, in ApplyInput) (string, error) {
	if !in.Type.Valid() {
		return "", domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return "", domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.UserID == "" {
		return "", domain.ErrInvalidInput
	}
	// El proveedor solo acompaña entradas.
	if in.Type != entity.MovementEntrada || in.SupplierID == "" {
		return "", nil
	}
	supplier, err := l.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return "", err
	}
	if supplier == nil || !supplier.Active {
		return "", domain.ErrNotFound
	}
	return supplier.ID, nil
}

func (l *StockLedger) applyLocked(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in ApplyInput,
	supplierID string,
) (*ApplyResult, error) {
	// Bloquea la fila del producto hasta el Commit: lecturas concurrentes
	// de stock para Apply esperan aquí y ven el stock ya confirmado.
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	newStock := product.Stock
	switch in.Type {
	case entity.MovementEntrada:
		newStock += in.Quantity
	case entity.MovementSalida:
		if in.Quantity > product.Stock {
			return nil, domain.ErrInsufficientStock
		}
		newStock -= in.Quantity
	}

	mov := &entity.Movement{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		UserID:     in.UserID,
		SupplierID: supplierID,
		Type:       in.Type,
		Quantity:   in.Quantity,
	}
	// La fecha la asigna la BD al insertar (now() del servidor).
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(ctx, in.ProductID, newStock); err != nil {
		return nil, err
	}

	return &ApplyResult{Movement: mov, NewStock: newStock}, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. La fecha la asigna la BD (now() del servidor)
// y se devuelve en movement.Date.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, user_id, supplier_id, type, quantity, date)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING date`
	supplierID := (*string)(nil)
	if movement.SupplierID != "" {
		supplierID = &movement.SupplierID
	}
	err := r.q.QueryRow(ctx, query,
		movement.ID, movement.ProductID, movement.UserID, supplierID,
		movement.Type, movement.Quantity,
	).Scan(&movement.Date)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT id, product_id, user_id, supplier_id, type, quantity, date
		FROM movements WHERE id = $1`
	var m entity.Movement
	var supplierID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ProductID, &m.UserID, &supplierID, &m.Type, &m.Quantity, &m.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if supplierID != nil {
		m.SupplierID = *supplierID
	}
	return &m, nil
}

// ListHistory lista movimientos con nombres resueltos, del más reciente al más
// antiguo, aplicando los filtros presentes en f.
func (r *MovementRepo) ListHistory(ctx context.Context, f repository.MovementFilter) ([]repository.MovementRecord, error) {
	query := `
		SELECT m.id, m.product_id, m.user_id, m.supplier_id, m.type, m.quantity, m.date,
		       p.name, u.name, COALESCE(s.name, '')
		FROM movements m
		JOIN products p ON p.id = m.product_id
		JOIN users u ON u.id = m.user_id
		LEFT JOIN suppliers s ON s.id = m.supplier_id
		WHERE true`
	var args []any
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND m.date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND m.date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY m.date DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementRecord
	for rows.Next() {
		var rec repository.MovementRecord
		var supplierID *string
		if err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.UserID, &supplierID, &rec.Type, &rec.Quantity, &rec.Date,
			&rec.ProductName, &rec.UserName, &rec.SupplierName,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if supplierID != nil {
			rec.SupplierID = *supplierID
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

// ReportGenerator genera la representación PDF del historial de movimientos.
type ReportGenerator interface {
	GenerateMovementsPDF(ctx context.Context, records []repository.MovementRecord) ([]byte, error)
}

// HistoryUseCase consulta y exporta el historial de movimientos.
type HistoryUseCase struct {
	movRepo repository.MovementRepository
	reports ReportGenerator
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(movRepo repository.MovementRepository, reports ReportGenerator) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo, reports: reports}
}

// List devuelve el historial con nombres resueltos, del más reciente al más antiguo.
func (uc *HistoryUseCase) List(ctx context.Context, f repository.MovementFilter) ([]dto.MovementResponse, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	records, err := uc.movRepo.ListHistory(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("historial de movimientos: %w", err)
	}
	out := make([]dto.MovementResponse, len(records))
	for i, r := range records {
		out[i] = toMovementResponse(r)
	}
	return out, nil
}

// ExportCSV serializa el historial filtrado como CSV. A diferencia de List no
// aplica tope: sin límite explícito exporta el historial completo.
func (uc *HistoryUseCase) ExportCSV(ctx context.Context, f repository.MovementFilter) ([]byte, error) {
	records, err := uc.movRepo.ListHistory(ctx, exportFilter(f))
	if err != nil {
		return nil, fmt.Errorf("exportar movimientos: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "fecha", "producto", "usuario", "tipo", "cantidad", "proveedor"}); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Date.Format(time.RFC3339),
			r.ProductName,
			r.UserName,
			string(r.Type),
			strconv.FormatInt(r.Quantity, 10),
			r.SupplierName,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPDF genera el historial filtrado como PDF. Igual que ExportCSV, sin
// límite explícito exporta el historial completo.
func (uc *HistoryUseCase) ExportPDF(ctx context.Context, f repository.MovementFilter) ([]byte, error) {
	records, err := uc.movRepo.ListHistory(ctx, exportFilter(f))
	if err != nil {
		return nil, fmt.Errorf("exportar movimientos: %w", err)
	}
	return uc.reports.GenerateMovementsPDF(ctx, records)
}

// exportFilter normaliza el filtro de exportación: Limit en 0 significa sin
// tope y valores negativos se descartan.
func exportFilter(f repository.MovementFilter) repository.MovementFilter {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func toMovementResponse(r repository.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
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

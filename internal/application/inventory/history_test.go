package inventory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamargo/invenly-api/internal/application/inventory"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

type stubMovementRepo struct {
	records   []repository.MovementRecord
	gotFilter repository.MovementFilter
}

func (s *stubMovementRepo) Create(_ context.Context, _ *entity.Movement) error { return nil }

func (s *stubMovementRepo) GetByID(_ context.Context, _ string) (*entity.Movement, error) {
	return nil, nil
}

func (s *stubMovementRepo) ListHistory(_ context.Context, f repository.MovementFilter) ([]repository.MovementRecord, error) {
	s.gotFilter = f
	records := s.records
	if f.Limit > 0 && len(records) > f.Limit {
		records = records[:f.Limit]
	}
	return records, nil
}

type stubReportGenerator struct{ data []byte }

func (s *stubReportGenerator) GenerateMovementsPDF(_ context.Context, _ []repository.MovementRecord) ([]byte, error) {
	return s.data, nil
}

func sampleRecords() []repository.MovementRecord {
	date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	return []repository.MovementRecord{
		{
			Movement: entity.Movement{
				ID:        "mov-2",
				ProductID: testProductID,
				UserID:    testUserID,
				Type:      entity.MovementSalida,
				Quantity:  3,
				Date:      date.Add(time.Hour),
			},
			ProductName: "Resma papel carta",
			UserName:    "Carlos Mora",
		},
		{
			Movement: entity.Movement{
				ID:         "mov-1",
				ProductID:  testProductID,
				UserID:     testUserID,
				SupplierID: testSupplierID,
				Type:       entity.MovementEntrada,
				Quantity:   10,
				Date:       date,
			},
			ProductName:  "Resma papel carta",
			UserName:     "Carlos Mora",
			SupplierName: "Distribuidora Norte",
		},
	}
}

func TestHistoryList_MapeaRegistros(t *testing.T) {
	repo := &stubMovementRepo{records: sampleRecords()}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{})

	out, err := uc.List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "mov-2", out[0].ID)
	assert.Equal(t, "salida", out[0].Type)
	assert.Empty(t, out[0].SupplierName)
	assert.Equal(t, "Distribuidora Norte", out[1].SupplierName)
	assert.Equal(t, 100, repo.gotFilter.Limit, "sin límite explícito el caso de uso aplica el máximo")
}

func TestHistoryList_RespetaLimite(t *testing.T) {
	repo := &stubMovementRepo{}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{})

	_, err := uc.List(context.Background(), repository.MovementFilter{Limit: 25, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 25, repo.gotFilter.Limit)
	assert.Equal(t, 50, repo.gotFilter.Offset)

	_, err = uc.List(context.Background(), repository.MovementFilter{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.gotFilter.Limit, "límites por encima del máximo se recortan")
	assert.Equal(t, 0, repo.gotFilter.Offset)
}

func TestExportCSV_ContenidoYCabecera(t *testing.T) {
	repo := &stubMovementRepo{records: sampleRecords()}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{})

	data, err := uc.ExportCSV(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "cabecera + dos filas")
	assert.Equal(t, "id,fecha,producto,usuario,tipo,cantidad,proveedor", lines[0])
	assert.Contains(t, lines[1], "mov-2")
	assert.Contains(t, lines[1], "salida")
	assert.Contains(t, lines[2], "Distribuidora Norte")
}

func TestExportCSV_SinLimiteExportaTodo(t *testing.T) {
	repo := &stubMovementRepo{records: sampleRecords()}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{})

	data, err := uc.ExportCSV(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.gotFilter.Limit, "la exportación no impone tope al repositorio")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "todas las filas del historial, no solo la cabecera")
}

func TestExportCSV_RespetaLimiteExplicito(t *testing.T) {
	repo := &stubMovementRepo{records: sampleRecords()}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{})

	data, err := uc.ExportCSV(context.Background(), repository.MovementFilter{Limit: 1, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gotFilter.Limit)
	assert.Equal(t, 0, repo.gotFilter.Offset, "offset negativo se descarta")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "cabecera + la única fila pedida")
}

func TestExportPDF_DelegaEnGenerador(t *testing.T) {
	repo := &stubMovementRepo{records: sampleRecords()}
	uc := inventory.NewHistoryUseCase(repo, &stubReportGenerator{data: []byte("%PDF-1.7")})

	data, err := uc.ExportPDF(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), data)
	assert.Equal(t, 0, repo.gotFilter.Limit, "la exportación no impone tope al repositorio")
}

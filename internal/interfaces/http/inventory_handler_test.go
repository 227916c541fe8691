package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/jcamargo/invenly-api/internal/application/inventory"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
	apphttp "github.com/jcamargo/invenly-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para montar un StockLedger real detrás del handler.
// El runner serializa con un mutex y deshace los cambios si el callback falla.
// ──────────────────────────────────────────────────────────────────────────────

type handlerStore struct {
	mu        sync.Mutex
	product   *entity.Product
	movements []entity.Movement
}

type handlerTxRunner struct{ store *handlerStore }

func (r *handlerTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var snapshot *entity.Product
	if r.store.product != nil {
		cp := *r.store.product
		snapshot = &cp
	}
	movCount := len(r.store.movements)
	if err := fn(&handlerMovRepo{r.store}, &handlerProductRepo{r.store}); err != nil {
		r.store.product = snapshot
		r.store.movements = r.store.movements[:movCount]
		return err
	}
	return nil
}

type handlerMovRepo struct{ store *handlerStore }

func (m *handlerMovRepo) Create(_ context.Context, mv *entity.Movement) error {
	m.store.movements = append(m.store.movements, *mv)
	return nil
}

func (m *handlerMovRepo) GetByID(_ context.Context, _ string) (*entity.Movement, error) {
	return nil, nil
}

func (m *handlerMovRepo) ListHistory(_ context.Context, _ repository.MovementFilter) ([]repository.MovementRecord, error) {
	var out []repository.MovementRecord
	for i := len(m.store.movements) - 1; i >= 0; i-- {
		out = append(out, repository.MovementRecord{
			Movement:    m.store.movements[i],
			ProductName: m.store.product.Name,
			UserName:    "Ana Ruiz",
		})
	}
	return out, nil
}

type handlerProductRepo struct{ store *handlerStore }

func (p *handlerProductRepo) Create(_ context.Context, _ *entity.Product) error { return nil }

func (p *handlerProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return p.GetForUpdate(context.Background(), id)
}

func (p *handlerProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	if p.store.product != nil && p.store.product.ID == id {
		cp := *p.store.product
		return &cp, nil
	}
	return nil, nil
}

func (p *handlerProductRepo) List(_ context.Context, _ bool, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (p *handlerProductRepo) Update(_ context.Context, _ *entity.Product) error { return nil }

func (p *handlerProductRepo) SoftDelete(_ context.Context, _ string) error { return nil }

func (p *handlerProductRepo) UpdateStock(_ context.Context, id string, stock int64) error {
	if p.store.product != nil && p.store.product.ID == id {
		p.store.product.Stock = stock
	}
	return nil
}

type handlerSupplierRepo struct{}

func (handlerSupplierRepo) Create(_ context.Context, _ *entity.Supplier) error { return nil }
func (handlerSupplierRepo) GetByID(_ context.Context, _ string) (*entity.Supplier, error) {
	return nil, nil
}
func (handlerSupplierRepo) List(_ context.Context, _ bool) ([]*entity.Supplier, error) {
	return nil, nil
}

type noopReports struct{}

func (noopReports) GenerateMovementsPDF(_ context.Context, _ []repository.MovementRecord) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

const handlerProductID = "11111111-1111-1111-1111-111111111111"

func buildInventoryApp(stock int64) (*fiber.App, *handlerStore) {
	store := &handlerStore{product: &entity.Product{
		ID:     handlerProductID,
		Name:   "Resma papel carta",
		Stock:  stock,
		Active: true,
	}}
	ledger := inventory.NewStockLedger(&handlerTxRunner{store: store}, handlerSupplierRepo{})
	history := inventory.NewHistoryUseCase(&handlerMovRepo{store}, noopReports{})
	handler := apphttp.NewInventoryHandler(ledger, history)

	app := fiber.New()
	app.Post("/api/inventory/movements",
		apphttp.AuthMiddleware(testJWTSecret),
		handler.RegisterMovement,
	)
	app.Get("/api/inventory/movements",
		apphttp.AuthMiddleware(testJWTSecret),
		handler.ListMovements,
	)
	app.Get("/api/inventory/movements/export/csv",
		apphttp.AuthMiddleware(testJWTSecret),
		handler.ExportCSV,
	)
	return app, store
}

func postMovement(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Entrada201(t *testing.T) {
	app, store := buildInventoryApp(10)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"entrada","quantity":5}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.RegisterMovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.MovementID)
	assert.Equal(t, int64(15), out.NewStock)
	assert.Equal(t, int64(15), store.product.Stock)
}

func TestRegisterMovement_StockInsuficiente409(t *testing.T) {
	app, store := buildInventoryApp(3)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"salida","quantity":4}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, int64(3), store.product.Stock, "el stock no debe cambiar")
	assert.Empty(t, store.movements, "no debe registrarse movimiento")
}

func TestRegisterMovement_TipoInvalido400(t *testing.T) {
	app, _ := buildInventoryApp(10)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"ajuste","quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterMovement_CantidadInvalida400(t *testing.T) {
	app, _ := buildInventoryApp(10)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"salida","quantity":0}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterMovement_ProductoInexistente404(t *testing.T) {
	app, _ := buildInventoryApp(10)
	resp := postMovement(t, app, `{"product_id":"99999999-9999-9999-9999-999999999999","type":"entrada","quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterMovement_SinToken401(t *testing.T) {
	app, _ := buildInventoryApp(10)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements",
		strings.NewReader(`{"product_id":"`+handlerProductID+`","type":"entrada","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListMovements_DevuelveHistorial(t *testing.T) {
	app, _ := buildInventoryApp(0)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"entrada","quantity":8}`)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer listResp.Body.Close()

	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	var out []dto.MovementResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "entrada", out[0].Type)
	assert.Equal(t, int64(8), out[0].Quantity)
	assert.Equal(t, "Resma papel carta", out[0].ProductName)
}

func TestListMovements_FechaInvalida400(t *testing.T) {
	app, _ := buildInventoryApp(0)
	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements?from=no-es-fecha", nil)
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportCSV_DescargaArchivo(t *testing.T) {
	app, _ := buildInventoryApp(0)
	resp := postMovement(t, app, `{"product_id":"`+handlerProductID+`","type":"entrada","quantity":8}`)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements/export/csv", nil)
	req.Header.Set("Authorization", tokenForRole(t, "operador"))
	csvResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer csvResp.Body.Close()

	assert.Equal(t, http.StatusOK, csvResp.StatusCode)
	assert.Contains(t, csvResp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, csvResp.Header.Get("Content-Disposition"), "movimientos.csv")
}

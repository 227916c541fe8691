package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamargo/invenly-api/internal/application/inventory"
	"github.com/jcamargo/invenly-api/internal/domain"
	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memTxRunner emula la disciplina transaccional del runner real: serializa los
// callbacks con un mutex (equivalente al lock de fila) y restaura el estado
// previo si el callback falla (equivalente al Rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []entity.Movement
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) stockOf(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return -1
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

type memTxRunner struct {
	store *memStore

	failMovementCreate bool
	failStockUpdate    bool
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Snapshot para poder deshacer si fn falla.
	snapshot := make(map[string]entity.Product, len(r.store.products))
	for id, p := range r.store.products {
		snapshot[id] = *p
	}
	movCount := len(r.store.movements)

	movRepo := &memMovementRepo{store: r.store, fail: r.failMovementCreate}
	productRepo := &memProductRepo{store: r.store, failUpdateStock: r.failStockUpdate}
	if err := fn(movRepo, productRepo); err != nil {
		for id, p := range snapshot {
			cp := p
			r.store.products[id] = &cp
		}
		r.store.movements = r.store.movements[:movCount]
		return err
	}
	return nil
}

var errStorage = errors.New("fallo de almacenamiento simulado")

type memMovementRepo struct {
	store *memStore
	fail  bool
}

func (m *memMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if m.fail {
		return errStorage
	}
	movement.Date = time.Now()
	m.store.movements = append(m.store.movements, *movement)
	return nil
}

func (m *memMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for i := range m.store.movements {
		if m.store.movements[i].ID == id {
			mv := m.store.movements[i]
			return &mv, nil
		}
	}
	return nil, nil
}

func (m *memMovementRepo) ListHistory(_ context.Context, f repository.MovementFilter) ([]repository.MovementRecord, error) {
	var out []repository.MovementRecord
	for i := len(m.store.movements) - 1; i >= 0; i-- {
		out = append(out, repository.MovementRecord{Movement: m.store.movements[i]})
	}
	return out, nil
}

type memProductRepo struct {
	store           *memStore
	failUpdateStock bool
}

func (m *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	m.store.products[p.ID] = &cp
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := m.store.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	// El lock de fila lo emula el mutex del runner.
	if p, ok := m.store.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProductRepo) List(_ context.Context, _ bool, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (m *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	m.store.products[p.ID] = &cp
	return nil
}

func (m *memProductRepo) SoftDelete(_ context.Context, id string) error {
	if p, ok := m.store.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (m *memProductRepo) UpdateStock(_ context.Context, id string, stock int64) error {
	if m.failUpdateStock {
		return errStorage
	}
	if p, ok := m.store.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

type memSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (m *memSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	m.suppliers[s.ID] = s
	return nil
}

func (m *memSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	if s, ok := m.suppliers[id]; ok {
		return s, nil
	}
	return nil, nil
}

func (m *memSupplierRepo) List(_ context.Context, _ bool) ([]*entity.Supplier, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "11111111-1111-1111-1111-111111111111"
	testUserID     = "22222222-2222-2222-2222-222222222222"
	testSupplierID = "33333333-3333-3333-3333-333333333333"
)

func testProduct(stock int64) *entity.Product {
	return &entity.Product{
		ID:     testProductID,
		Name:   "Resma papel carta",
		Stock:  stock,
		Active: true,
	}
}

func newLedger(store *memStore, suppliers ...*entity.Supplier) *inventory.StockLedger {
	supplierRepo := &memSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	for _, s := range suppliers {
		supplierRepo.suppliers[s.ID] = s
	}
	return inventory.NewStockLedger(&memTxRunner{store: store}, supplierRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradaAumentaStock(t *testing.T) {
	store := newMemStore(testProduct(10))
	ledger := newLedger(store)

	res, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementEntrada,
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.NewStock)
	assert.Equal(t, int64(15), store.stockOf(testProductID))
	assert.Equal(t, 1, store.movementCount())
	assert.NotEmpty(t, res.Movement.ID)
	assert.False(t, res.Movement.Date.IsZero(), "la fecha debe asignarla el almacenamiento")
}

func TestApply_SalidaDisminuyeStock(t *testing.T) {
	store := newMemStore(testProduct(10))
	ledger := newLedger(store)

	res, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementSalida,
		Quantity:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewStock, "salida por el stock exacto deja el stock en 0")
	assert.Equal(t, int64(0), store.stockOf(testProductID))
}

func TestApply_SalidaInsuficienteNoDejaEfecto(t *testing.T) {
	store := newMemStore(testProduct(3))
	ledger := newLedger(store)

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementSalida,
		Quantity:  4,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.stockOf(testProductID), "el stock no debe cambiar")
	assert.Equal(t, 0, store.movementCount(), "no debe quedar movimiento registrado")
}

func TestApply_ProductoInexistente(t *testing.T) {
	store := newMemStore()
	ledger := newLedger(store)

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementEntrada,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_ValidacionDeEntrada(t *testing.T) {
	store := newMemStore(testProduct(10))
	ledger := newLedger(store)

	cases := []struct {
		name string
		in   inventory.ApplyInput
	}{
		{"tipo inválido", inventory.ApplyInput{ProductID: testProductID, UserID: testUserID, Type: "ajuste", Quantity: 1}},
		{"cantidad cero", inventory.ApplyInput{ProductID: testProductID, UserID: testUserID, Type: entity.MovementEntrada, Quantity: 0}},
		{"cantidad negativa", inventory.ApplyInput{ProductID: testProductID, UserID: testUserID, Type: entity.MovementSalida, Quantity: -5}},
		{"sin producto", inventory.ApplyInput{UserID: testUserID, Type: entity.MovementEntrada, Quantity: 1}},
		{"sin usuario", inventory.ApplyInput{ProductID: testProductID, Type: entity.MovementEntrada, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Apply(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(10), store.stockOf(testProductID))
	assert.Equal(t, 0, store.movementCount())
}

func TestApply_EntradaConProveedor(t *testing.T) {
	store := newMemStore(testProduct(0))
	ledger := newLedger(store, &entity.Supplier{ID: testSupplierID, Name: "Distribuidora Norte", Active: true})

	res, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID:  testProductID,
		UserID:     testUserID,
		Type:       entity.MovementEntrada,
		Quantity:   20,
		SupplierID: testSupplierID,
	})
	require.NoError(t, err)
	assert.Equal(t, testSupplierID, res.Movement.SupplierID)
}

func TestApply_EntradaConProveedorInexistente(t *testing.T) {
	store := newMemStore(testProduct(0))
	ledger := newLedger(store)

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID:  testProductID,
		UserID:     testUserID,
		Type:       entity.MovementEntrada,
		Quantity:   20,
		SupplierID: testSupplierID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, store.movementCount())
}

func TestApply_EntradaConProveedorInactivo(t *testing.T) {
	store := newMemStore(testProduct(0))
	ledger := newLedger(store, &entity.Supplier{ID: testSupplierID, Name: "Distribuidora Norte", Active: false})

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID:  testProductID,
		UserID:     testUserID,
		Type:       entity.MovementEntrada,
		Quantity:   20,
		SupplierID: testSupplierID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un proveedor desactivado no admite nuevas entradas")
	assert.Equal(t, 0, store.movementCount())
}

func TestApply_SalidaIgnoraProveedor(t *testing.T) {
	store := newMemStore(testProduct(10))
	ledger := newLedger(store) // sin proveedores registrados

	res, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID:  testProductID,
		UserID:     testUserID,
		Type:       entity.MovementSalida,
		Quantity:   1,
		SupplierID: testSupplierID,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Movement.SupplierID, "una salida no lleva proveedor")
}

// Dos movimientos idénticos son dos hechos reales: dos filas y dos deltas.
func TestApply_NoEsIdempotente(t *testing.T) {
	store := newMemStore(testProduct(0))
	ledger := newLedger(store)

	in := inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementEntrada,
		Quantity:  7,
	}
	res1, err := ledger.Apply(context.Background(), in)
	require.NoError(t, err)
	res2, err := ledger.Apply(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, res1.Movement.ID, res2.Movement.ID)
	assert.Equal(t, int64(14), store.stockOf(testProductID))
	assert.Equal(t, 2, store.movementCount())
}

// N salidas concurrentes sobre stock 1: exactamente una gana, el resto recibe
// ErrInsufficientStock y el stock nunca queda negativo.
func TestApply_SalidasConcurrentesSerializadas(t *testing.T) {
	store := newMemStore(testProduct(1))
	ledger := newLedger(store)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.Apply(context.Background(), inventory.ApplyInput{
				ProductID: testProductID,
				UserID:    testUserID,
				Type:      entity.MovementSalida,
				Quantity:  1,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "solo una salida debe aplicarse")
	assert.Equal(t, n-1, insufficient)
	assert.Equal(t, int64(0), store.stockOf(testProductID))
	assert.Equal(t, 1, store.movementCount())
}

// Si falla el alta del movimiento, el stock no cambia.
func TestApply_FalloAlCrearMovimientoRevierteTodo(t *testing.T) {
	store := newMemStore(testProduct(10))
	runner := &memTxRunner{store: store, failMovementCreate: true}
	ledger := inventory.NewStockLedger(runner, &memSupplierRepo{suppliers: map[string]*entity.Supplier{}})

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementEntrada,
		Quantity:  5,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), store.stockOf(testProductID))
	assert.Equal(t, 0, store.movementCount())
}

// Si falla la escritura del stock, el movimiento tampoco persiste.
func TestApply_FalloAlEscribirStockRevierteMovimiento(t *testing.T) {
	store := newMemStore(testProduct(10))
	runner := &memTxRunner{store: store, failStockUpdate: true}
	ledger := inventory.NewStockLedger(runner, &memSupplierRepo{suppliers: map[string]*entity.Supplier{}})

	_, err := ledger.Apply(context.Background(), inventory.ApplyInput{
		ProductID: testProductID,
		UserID:    testUserID,
		Type:      entity.MovementSalida,
		Quantity:  2,
	})
	require.Error(t, err)
	assert.Equal(t, int64(10), store.stockOf(testProductID))
	assert.Equal(t, 0, store.movementCount())
}

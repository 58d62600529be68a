package stock_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Dobles en memoria de los puertos de persistencia, al estilo de los
// repositorios memory de un backend hexagonal. El fakeTxRunner serializa
// las "transacciones" con un mutex global (equivalente grueso del FOR
// UPDATE por fila) y deshace las mutaciones con snapshot/restore cuando el
// callback falla, imitando el rollback.

type fakeStore struct {
	mu     sync.Mutex
	stocks map[string]*entity.ProductStock
	lots   map[string]*entity.InventoryLot
	orders map[string]*entity.PurchaseOrder
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stocks: make(map[string]*entity.ProductStock),
		lots:   make(map[string]*entity.InventoryLot),
		orders: make(map[string]*entity.PurchaseOrder),
	}
}

func (s *fakeStore) addProduct(p *entity.ProductStock) {
	s.stocks[p.ID] = copyStock(p)
}

func (s *fakeStore) addLot(l *entity.InventoryLot) {
	s.lots[l.ID] = copyLot(l)
	if st, ok := s.stocks[l.ProductID]; ok {
		st.Quantity = s.sumLots(l.ProductID, "")
	}
}

func (s *fakeStore) sumLots(productID, locationID string) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.lots {
		if l.ProductID != productID {
			continue
		}
		if locationID != "" && l.LocationID != locationID {
			continue
		}
		sum = sum.Add(l.Quantity)
	}
	return sum
}

func (s *fakeStore) fifoLots(productID, locationID string) []*entity.InventoryLot {
	var lots []*entity.InventoryLot
	for _, l := range s.lots {
		if l.ProductID != productID {
			continue
		}
		if locationID != "" && l.LocationID != locationID {
			continue
		}
		lots = append(lots, copyLot(l))
	}
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].ReceivedAt.Equal(lots[j].ReceivedAt) {
			return lots[i].ReceivedAt.Before(lots[j].ReceivedAt)
		}
		return lots[i].ID < lots[j].ID
	})
	return lots
}

type storeSnapshot struct {
	stocks map[string]*entity.ProductStock
	lots   map[string]*entity.InventoryLot
	orders map[string]*entity.PurchaseOrder
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		stocks: make(map[string]*entity.ProductStock, len(s.stocks)),
		lots:   make(map[string]*entity.InventoryLot, len(s.lots)),
		orders: make(map[string]*entity.PurchaseOrder, len(s.orders)),
	}
	for id, p := range s.stocks {
		snap.stocks[id] = copyStock(p)
	}
	for id, l := range s.lots {
		snap.lots[id] = copyLot(l)
	}
	for id, o := range s.orders {
		cp := *o
		snap.orders[id] = &cp
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.stocks = snap.stocks
	s.lots = snap.lots
	s.orders = snap.orders
}

func copyStock(p *entity.ProductStock) *entity.ProductStock {
	cp := *p
	if p.LastAutoOrderAt != nil {
		t := *p.LastAutoOrderAt
		cp.LastAutoOrderAt = &t
	}
	return &cp
}

func copyLot(l *entity.InventoryLot) *entity.InventoryLot {
	cp := *l
	return &cp
}

// --- repositorios fake ---

type fakeLotRepo struct{ s *fakeStore }

func (r *fakeLotRepo) Create(_ context.Context, lot *entity.InventoryLot) error {
	r.s.lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *fakeLotRepo) GetByID(_ context.Context, lotID string) (*entity.InventoryLot, error) {
	l, ok := r.s.lots[lotID]
	if !ok {
		return nil, nil
	}
	return copyLot(l), nil
}

func (r *fakeLotRepo) ListFIFO(_ context.Context, productID, locationID string) ([]*entity.InventoryLot, error) {
	return r.s.fifoLots(productID, locationID), nil
}

func (r *fakeLotRepo) SumQuantity(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	return r.s.sumLots(productID, locationID), nil
}

func (r *fakeLotRepo) Update(_ context.Context, lot *entity.InventoryLot) error {
	r.s.lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *fakeLotRepo) Delete(_ context.Context, lotID string) error {
	delete(r.s.lots, lotID)
	return nil
}

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) GetByID(_ context.Context, productID string) (*entity.ProductStock, error) {
	p, ok := r.s.stocks[productID]
	if !ok {
		return nil, nil
	}
	return copyStock(p), nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.ProductStock, error) {
	return r.GetByID(ctx, productID)
}

func (r *fakeStockRepo) UpdateQuantity(_ context.Context, productID string, quantity decimal.Decimal) error {
	if p, ok := r.s.stocks[productID]; ok {
		p.Quantity = quantity
	}
	return nil
}

func (r *fakeStockRepo) UpdateLastAutoOrder(_ context.Context, productID string, at time.Time) error {
	if p, ok := r.s.stocks[productID]; ok {
		if p.LastAutoOrderAt == nil || at.After(*p.LastAutoOrderAt) {
			t := at
			p.LastAutoOrderAt = &t
		}
	}
	return nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID string) (*entity.PurchaseOrder, error) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByProduct(_ context.Context, productID string, _, _ int) ([]*entity.PurchaseOrder, error) {
	var orders []*entity.PurchaseOrder
	for _, o := range r.s.orders {
		if o.ProductID == productID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	return orders, nil
}

type fakeLocationRepo struct{ locations map[string]*entity.StorageLocation }

func newFakeLocationRepo(ids ...string) *fakeLocationRepo {
	r := &fakeLocationRepo{locations: make(map[string]*entity.StorageLocation)}
	for _, id := range ids {
		r.locations[id] = &entity.StorageLocation{ID: id, Name: id, Active: true}
	}
	return r
}

func (r *fakeLocationRepo) GetByID(_ context.Context, locationID string) (*entity.StorageLocation, error) {
	loc, ok := r.locations[locationID]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (r *fakeLocationRepo) List(_ context.Context) ([]*entity.StorageLocation, error) {
	var out []*entity.StorageLocation
	for _, loc := range r.locations {
		cp := *loc
		out = append(out, &cp)
	}
	return out, nil
}

// fakeTxRunner serializa transacciones con el mutex del store y deshace con
// snapshot cuando el callback devuelve error.
type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	lotRepo repository.InventoryLotRepository,
	stockRepo repository.ProductStockRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&fakeLotRepo{r.s}, &fakeStockRepo{r.s}, &fakeOrderRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// fakeIssuer registra las emisiones y permite forzar fallos por producto.
type fakeIssuer struct {
	mu      sync.Mutex
	failFor map[string]error
	issued  []*entity.PurchaseOrder
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{failFor: make(map[string]error)}
}

func (i *fakeIssuer) Issue(ctx context.Context, orderRepo repository.PurchaseOrderRepository, order *entity.PurchaseOrder) (string, error) {
	i.mu.Lock()
	err := i.failFor[order.ProductID]
	i.mu.Unlock()
	if err != nil {
		return "", err
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		return "", err
	}
	i.mu.Lock()
	cp := *order
	i.issued = append(i.issued, &cp)
	i.mu.Unlock()
	return order.ID, nil
}

func (i *fakeIssuer) issuedCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.issued)
}

// testClock reloj controlable compartido entre ledger, guard y pipeline.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv arma el mundo completo con dobles en memoria.
type testEnv struct {
	store    *fakeStore
	clock    *testClock
	ledger   *stock.Ledger
	guard    *stock.Guard
	pipeline *stock.Pipeline
	issuer   *fakeIssuer
}

func newTestEnv(interval time.Duration, locationIDs ...string) *testEnv {
	store := newFakeStore()
	clock := newTestClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	runner := &fakeTxRunner{s: store}
	issuer := newFakeIssuer()

	ledger := stock.NewLedger(runner, &fakeLotRepo{store}, newFakeLocationRepo(locationIDs...))
	guard := stock.NewGuard(&fakeStockRepo{store}, interval)
	pipeline := stock.NewPipeline(runner, guard, issuer, logger.Nop())

	stock.SetLedgerClock(ledger, clock.Now)
	stock.SetGuardClock(guard, clock.Now)
	stock.SetPipelineClock(pipeline, clock.Now)

	return &testEnv{
		store:    store,
		clock:    clock,
		ledger:   ledger,
		guard:    guard,
		pipeline: pipeline,
		issuer:   issuer,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func timep(t time.Time) *time.Time { return &t }

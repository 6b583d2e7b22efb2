package inventory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
)

// MockSupplierRepository is a mock implementation of inventory.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, s *inventory.Supplier) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSupplierRepository) Update(ctx context.Context, s *inventory.Supplier) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter inventory.SupplierFilter) ([]*inventory.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*inventory.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// memItems keeps items and records in memory
type memItems struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*inventory.Item
	records []*inventory.StockRecord
}

func newMemItems() *memItems {
	return &memItems{items: make(map[uuid.UUID]*inventory.Item)}
}

func (r *memItems) Create(_ context.Context, item *inventory.Item, initial *inventory.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	if initial != nil {
		r.records = append(r.records, initial)
	}
	return nil
}

func (r *memItems) Update(_ context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return shared.NotFound("inventory item", item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *memItems) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return shared.NotFound("inventory item", id)
	}
	delete(r.items, id)
	return nil
}

func (r *memItems) FindByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[id]; ok {
		return item, nil
	}
	return nil, shared.NotFound("inventory item", id)
}

func (r *memItems) FindAll(_ context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Item, 0)
	for _, item := range r.items {
		if filter.SupplierID != nil && item.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.ActiveOnly && !item.IsActive {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *memItems) FindLowStock(_ context.Context) ([]*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Item, 0)
	for _, item := range r.items {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memItems) ApplyMovement(_ context.Context, itemID uuid.UUID, mutate func(*inventory.Item) (*inventory.StockRecord, error)) (*inventory.Item, *inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, nil, shared.NotFound("inventory item", itemID)
	}
	working := *item
	record, err := mutate(&working)
	if err != nil {
		return nil, nil, err
	}
	r.items[itemID] = &working
	r.records = append(r.records, record)
	return &working, record, nil
}

func (r *memItems) FindRecords(_ context.Context, itemID uuid.UUID, limit int) ([]*inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.StockRecord, 0)
	for _, rec := range slices.Backward(r.records) {
		if rec.ItemID == itemID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubUsers struct {
	identity.UserRepository
	users []*identity.User
}

func (s *stubUsers) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*identity.User, error) {
	out := make([]*identity.User, 0)
	for _, u := range s.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func qty(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

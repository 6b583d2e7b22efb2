package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

type fixture struct {
	svc       *Service
	suppliers *MockSupplierRepository
	items     *memItems
	publisher *recordingPublisher
	actor     appshared.Actor
	supplier  *inventory.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clerk, err := identity.NewUser(uuid.Nil, "bar01", "secret123", "吧台小陳", identity.RoleBar)
	require.NoError(t, err)
	supplier, err := inventory.NewSupplier(uuid.Nil, "茶葉行", "tea01", inventory.SupplierDetails{})
	require.NoError(t, err)

	f := &fixture{
		suppliers: new(MockSupplierRepository),
		items:     newMemItems(),
		publisher: &recordingPublisher{},
		actor:     appshared.Actor{ID: clerk.ID, Role: identity.RoleBar},
		supplier:  supplier,
	}
	f.suppliers.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil).Maybe()
	directory := identity.NewUserDirectory(&stubUsers{users: []*identity.User{clerk}})
	f.svc = NewService(f.suppliers, f.items, directory, f.publisher, zap.NewNop())
	return f
}

func (f *fixture) item(t *testing.T, safety, initial int64) *ItemView {
	t.Helper()
	v, err := f.svc.CreateItem(context.Background(), f.actor, CreateItemInput{
		SupplierID:   f.supplier.ID,
		Name:         "紅茶葉",
		Unit:         "包",
		SafetyStock:  decimal.NewFromInt(safety),
		InitialStock: decimal.NewFromInt(initial),
	})
	require.NoError(t, err)
	return v
}

func TestCreateSupplier(t *testing.T) {
	f := newFixture(t)
	f.suppliers.On("ExistsByCode", mock.Anything, "MILK").Return(false, nil).Once()
	f.suppliers.On("Create", mock.Anything, mock.AnythingOfType("*inventory.Supplier")).Return(nil).Once()

	v, err := f.svc.CreateSupplier(context.Background(), f.actor, CreateSupplierInput{
		Name: "鮮乳坊", Code: " milk ", Email: "Sales@Milk.TW",
	})
	require.NoError(t, err)
	assert.Equal(t, "MILK", v.Code)
	assert.Equal(t, "sales@milk.tw", v.Email)
	assert.True(t, v.IsActive)
	f.suppliers.AssertExpectations(t)
}

func TestCreateSupplier_DuplicateCode(t *testing.T) {
	f := newFixture(t)
	f.suppliers.On("ExistsByCode", mock.Anything, "TEA01").Return(true, nil).Once()

	_, err := f.svc.CreateSupplier(context.Background(), f.actor, CreateSupplierInput{Name: "茶葉行", Code: "tea01"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.suppliers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateSupplier_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateSupplier(context.Background(), f.actor, CreateSupplierInput{Name: "x", Code: "X", Email: "nope"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateSupplier(t *testing.T) {
	f := newFixture(t)
	f.suppliers.On("Update", mock.Anything, f.supplier).Return(nil).Once()

	phone := "02-1234-5678"
	inactive := false
	v, err := f.svc.UpdateSupplier(context.Background(), f.supplier.ID, UpdateSupplierInput{Phone: &phone, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, phone, v.Phone)
	assert.Equal(t, "茶葉行", v.Name)
	assert.False(t, v.IsActive)
}

func TestDeleteSupplier_WithItemsIsRejected(t *testing.T) {
	f := newFixture(t)
	f.suppliers.On("Delete", mock.Anything, f.supplier.ID).
		Return(shared.InvalidState("supplier still has items")).Once()

	err := f.svc.DeleteSupplier(context.Background(), f.supplier.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)

	v := f.item(t, 10, 80)
	assert.True(t, v.CurrentStock.Equal(decimal.NewFromInt(80)))
	assert.False(t, v.IsLowStock)

	records, err := f.svc.GetItemRecords(context.Background(), v.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inventory.StockRecordIn, records[0].Type)

	t.Run("unknown supplier", func(t *testing.T) {
		missing := uuid.New()
		f.suppliers.On("FindByID", mock.Anything, missing).Return(nil, shared.NotFound("supplier", missing)).Once()
		_, err := f.svc.CreateItem(context.Background(), f.actor, CreateItemInput{SupplierID: missing, Name: "x", Unit: "包"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCheckStock(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, 10, 80)

	res, err := f.svc.CheckStock(context.Background(), f.actor, item.ID, CheckStockInput{Quantity: qty(50)})
	require.NoError(t, err)
	assert.Equal(t, inventory.StockRecordCheck, res.Record.Type)
	assert.True(t, res.Record.BeforeQuantity.Equal(decimal.NewFromInt(80)))
	assert.True(t, res.Record.AfterQuantity.Equal(decimal.NewFromInt(50)))
	assert.True(t, res.Item.CurrentStock.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, res.Item.LastCheckedBy)
	assert.Equal(t, f.actor.ID, *res.Item.LastCheckedBy)
	assert.Equal(t, "吧台小陳", res.Item.LastCheckedByName)
	assert.Equal(t, "吧台小陳", res.Record.CreatedByName)
	assert.Equal(t, []string{inventory.EventTypeStockChanged}, f.publisher.types())

	_, err = f.svc.CheckStock(context.Background(), f.actor, item.ID, CheckStockInput{Quantity: qty(-1)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStockMovement_RequiresQuantity(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, 10, 80)

	_, err := f.svc.CheckStock(context.Background(), f.actor, item.ID, CheckStockInput{Notes: "no count"})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = f.svc.AdjustStock(context.Background(), f.actor, item.ID, AdjustStockInput{Notes: "no delta"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	current, err := f.svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.Equal(decimal.NewFromInt(80)))
	assert.Empty(t, f.publisher.types())
}

func TestStockMovement_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t)
	item := f.item(t, 10, 80)

	_, err := f.svc.CheckStock(context.Background(), f.actor, item.ID, CheckStockInput{Quantity: qty(60)})
	require.NoError(t, err)
	_, err = f.svc.AdjustStock(context.Background(), f.actor, item.ID, AdjustStockInput{Quantity: qty(-100)})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "inventory.check_stock", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("item.id", item.ID.String()))
	assert.Contains(t, spans[0].Attributes(), attribute.String("stock.after", "60"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "inventory.adjust_stock", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, 45, 50)

	res, err := f.svc.AdjustStock(context.Background(), f.actor, item.ID, AdjustStockInput{Quantity: qty(-5), Notes: "破損"})
	require.NoError(t, err)
	assert.Equal(t, inventory.StockRecordAdjust, res.Record.Type)
	assert.True(t, res.Record.BeforeQuantity.Equal(decimal.NewFromInt(50)))
	assert.True(t, res.Record.AfterQuantity.Equal(decimal.NewFromInt(45)))
	assert.Equal(t, "破損", res.Record.Notes)
	assert.True(t, res.Item.IsLowStock)
	assert.Equal(t, []string{inventory.EventTypeStockChanged, inventory.EventTypeLowStock}, f.publisher.types())

	t.Run("cannot go negative", func(t *testing.T) {
		_, err := f.svc.AdjustStock(context.Background(), f.actor, item.ID, AdjustStockInput{Quantity: qty(-100)})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		current, _ := f.svc.GetItem(context.Background(), item.ID)
		assert.True(t, current.CurrentStock.Equal(decimal.NewFromInt(45)))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.AdjustStock(context.Background(), f.actor, uuid.New(), AdjustStockInput{Quantity: qty(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGetLowStockItems(t *testing.T) {
	f := newFixture(t)
	atThreshold := f.item(t, 10, 10)
	f.item(t, 10, 30)
	inactive := f.item(t, 10, 2)
	off := false
	_, err := f.svc.UpdateItem(context.Background(), inactive.ID, UpdateItemInput{IsActive: &off})
	require.NoError(t, err)

	low, err := f.svc.GetLowStockItems(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, atThreshold.ID, low[0].ID)
}

func TestGetSupplierItems_ActiveOnly(t *testing.T) {
	f := newFixture(t)
	kept := f.item(t, 1, 5)
	hidden := f.item(t, 1, 5)
	off := false
	_, err := f.svc.UpdateItem(context.Background(), hidden.ID, UpdateItemInput{IsActive: &off})
	require.NoError(t, err)

	items, err := f.svc.GetSupplierItems(context.Background(), f.supplier.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)
}

func TestGetItemRecords_NewestFirst(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, 0, 10)
	_, err := f.svc.AdjustStock(context.Background(), f.actor, item.ID, AdjustStockInput{Quantity: qty(3)})
	require.NoError(t, err)

	records, err := f.svc.GetItemRecords(context.Background(), item.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, inventory.StockRecordAdjust, records[0].Type)
	assert.Equal(t, inventory.StockRecordIn, records[1].Type)

	_, err = f.svc.GetItemRecords(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

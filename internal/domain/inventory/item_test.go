package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/shared"
)

func createTestItem(t *testing.T, stock int64) *Item {
	t.Helper()
	item, _, err := NewItem(uuid.New(), uuid.New(),
		ItemDetails{Name: "四季春茶葉", Code: "tea-001", Unit: "包", Category: "茶葉"},
		decimal.NewFromInt(10), decimal.NewFromInt(stock))
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestNewItem(t *testing.T) {
	creator := uuid.New()
	supplierID := uuid.New()

	t.Run("initial stock produces an in record", func(t *testing.T) {
		item, record, err := NewItem(creator, supplierID,
			ItemDetails{Name: "珍珠", Code: "p-1", Unit: "kg"}, decimal.NewFromInt(5), decimal.NewFromInt(20))
		require.NoError(t, err)

		assert.Equal(t, "P-1", item.Code)
		assert.True(t, item.IsActive)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(20)))
		require.NotNil(t, record)
		assert.Equal(t, StockRecordIn, record.Type)
		assert.True(t, record.BeforeQuantity.IsZero())
		assert.True(t, record.AfterQuantity.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, item.ID, record.ItemID)
	})

	t.Run("zero initial stock has no record", func(t *testing.T) {
		item, record, err := NewItem(creator, supplierID,
			ItemDetails{Name: "珍珠", Unit: "kg"}, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.Nil(t, record)
		assert.True(t, item.CurrentStock.IsZero())
	})

	tests := []struct {
		name     string
		supplier uuid.UUID
		details  ItemDetails
		safety   decimal.Decimal
		initial  decimal.Decimal
		contains string
	}{
		{"no supplier", uuid.Nil, ItemDetails{Name: "a", Unit: "kg"}, decimal.Zero, decimal.Zero, "Supplier ID"},
		{"no name", supplierID, ItemDetails{Unit: "kg"}, decimal.Zero, decimal.Zero, "name cannot be empty"},
		{"no unit", supplierID, ItemDetails{Name: "a"}, decimal.Zero, decimal.Zero, "unit cannot be empty"},
		{"negative safety", supplierID, ItemDetails{Name: "a", Unit: "kg"}, decimal.NewFromInt(-1), decimal.Zero, "Safety stock"},
		{"negative initial", supplierID, ItemDetails{Name: "a", Unit: "kg"}, decimal.Zero, decimal.NewFromInt(-1), "Initial stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewItem(creator, tt.supplier, tt.details, tt.safety, tt.initial)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestItem_Check(t *testing.T) {
	item := createTestItem(t, 80)
	actor := uuid.New()

	record, err := item.Check(decimal.NewFromInt(50), " 月底盤點 ", actor)
	require.NoError(t, err)

	assert.Equal(t, StockRecordCheck, record.Type)
	assert.True(t, record.BeforeQuantity.Equal(decimal.NewFromInt(80)))
	assert.True(t, record.AfterQuantity.Equal(decimal.NewFromInt(50)))
	assert.True(t, record.Quantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "月底盤點", record.Notes)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, item.LastCheckedAt)
	require.NotNil(t, item.LastCheckedBy)
	assert.Equal(t, actor, *item.LastCheckedBy)

	events := item.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockChanged, events[0].EventType())

	_, err = item.Check(decimal.NewFromInt(-1), "", actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestItem_Adjust(t *testing.T) {
	t.Run("adds a signed delta", func(t *testing.T) {
		item := createTestItem(t, 50)
		record, err := item.Adjust(decimal.NewFromInt(-5), "破損", uuid.New())
		require.NoError(t, err)

		assert.Equal(t, StockRecordAdjust, record.Type)
		assert.True(t, record.BeforeQuantity.Equal(decimal.NewFromInt(50)))
		assert.True(t, record.AfterQuantity.Equal(decimal.NewFromInt(45)))
		assert.True(t, record.Delta().Equal(decimal.NewFromInt(-5)))
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(45)))
	})

	t.Run("may reach zero", func(t *testing.T) {
		item := createTestItem(t, 3)
		_, err := item.Adjust(decimal.NewFromInt(-3), "", uuid.New())
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
	})

	t.Run("rejects negative result and keeps stock", func(t *testing.T) {
		item := createTestItem(t, 3)
		_, err := item.Adjust(decimal.NewFromInt(-4), "", uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(3)))
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		item := createTestItem(t, 3)
		_, err := item.Adjust(decimal.Zero, "", uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("raises low stock at the threshold", func(t *testing.T) {
		item := createTestItem(t, 15)
		_, err := item.Adjust(decimal.NewFromInt(-5), "", uuid.New())
		require.NoError(t, err)

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeLowStock, events[1].EventType())
	})
}

func TestItem_IsLowStock(t *testing.T) {
	item := createTestItem(t, 10)
	assert.True(t, item.IsLowStock(), "equal to safety stock counts as low")

	item.CurrentStock = decimal.NewFromInt(11)
	assert.False(t, item.IsLowStock())

	item.CurrentStock = decimal.NewFromInt(1)
	item.SetActive(false)
	assert.False(t, item.IsLowStock(), "inactive items are never low")
}

func TestNewSupplier(t *testing.T) {
	s, err := NewSupplier(uuid.New(), " 茶葉行 ", "tea", SupplierDetails{Email: "Shop@Example.com", Phone: " 02-1234 "})
	require.NoError(t, err)
	assert.Equal(t, "茶葉行", s.Name)
	assert.Equal(t, "TEA", s.Code)
	assert.Equal(t, "shop@example.com", s.Email)
	assert.Equal(t, "02-1234", s.Phone)
	assert.True(t, s.IsActive)

	_, err = NewSupplier(uuid.New(), "", "tea", SupplierDetails{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewSupplier(uuid.New(), "茶葉行", "", SupplierDetails{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewSupplier(uuid.New(), "茶葉行", "tea", SupplierDetails{Email: "not-an-email"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

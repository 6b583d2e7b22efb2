package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/csvimport"
)

func (f *fixture) withSupplierList() {
	f.suppliers.On("FindAll", mock.Anything, inventory.SupplierFilter{}).
		Return([]*inventory.Supplier{f.supplier}, nil)
}

func TestImportItems(t *testing.T) {
	f := newFixture(t)
	f.withSupplierList()

	body := "supplier_code,name,code,unit,category,safety_stock,initial_stock\n" +
		"tea01,烏龍茶葉,T-01,包,茶葉,5,12\n" +
		"tea01,紅茶葉,,包,茶葉,,\n"

	res, err := f.svc.ImportItems(context.Background(), f.actor, strings.NewReader(body), false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "12", res.Items[0].CurrentStock.String())
	assert.True(t, res.Items[1].CurrentStock.IsZero())
	assert.Len(t, f.items.items, 2)
	assert.Len(t, f.items.records, 1, "only a positive initial stock is recorded")
}

func TestImportItems_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.withSupplierList()

	res, err := f.svc.ImportItems(context.Background(), f.actor,
		strings.NewReader("supplier_code,name,unit\ntea01,奶精,罐\n"), true)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.ValidRows)
	assert.Zero(t, res.Imported)
	assert.Empty(t, f.items.items)
}

func TestImportItems_RowErrorsBlockTheWholeFile(t *testing.T) {
	f := newFixture(t)
	f.withSupplierList()

	body := "supplier_code,name,code,unit,safety_stock\n" +
		"tea01,烏龍茶葉,T-01,包,5\n" +
		"nope,珍珠,T-02,公斤,1\n" +
		"tea01,,T-01,包,-3\n" +
		"tea01,椰果,T-03,罐,ten\n"

	res, err := f.svc.ImportItems(context.Background(), f.actor, strings.NewReader(body), false)
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 1, res.ValidRows)
	assert.Zero(t, res.Imported)
	assert.Empty(t, f.items.items)

	codes := make(map[string]int)
	for _, e := range res.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, map[string]int{
		csvimport.ErrCodeReferenceNotFound: 1,
		csvimport.ErrCodeRequiredField:     1,
		csvimport.ErrCodeDuplicateInFile:   1,
		csvimport.ErrCodeInvalidRange:      1,
		csvimport.ErrCodeInvalidNumber:     1,
	}, codes)
	assert.Equal(t, 5, res.TotalErrors)
}

func TestImportItems_BadFile(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "name,unit\n烏龍茶葉,包\n",
		"header only":    "supplier_code,name,unit\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.ImportItems(context.Background(), f.actor, strings.NewReader(body), false)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, shared.ErrInvalidInput.Code, de.Code)
		})
	}
}

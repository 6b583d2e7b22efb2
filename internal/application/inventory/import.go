package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/csvimport"
	"github.com/teashop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Item import columns
const (
	ColumnSupplierCode = "supplier_code"
	ColumnName         = "name"
	ColumnCode         = "code"
	ColumnUnit         = "unit"
	ColumnCategory     = "category"
	ColumnSafetyStock  = "safety_stock"
	ColumnInitialStock = "initial_stock"
)

// RequiredImportColumns must be present in every item import file
var RequiredImportColumns = []string{ColumnSupplierCode, ColumnName, ColumnUnit}

// ItemImportResult reports an item import. Nothing is written when any
// row has errors or when the import is a dry run.
type ItemImportResult struct {
	TotalRows   int                  `json:"total_rows"`
	ValidRows   int                  `json:"valid_rows"`
	Imported    int                  `json:"imported"`
	DryRun      bool                 `json:"dry_run"`
	Errors      []csvimport.RowError `json:"errors"`
	TotalErrors int                  `json:"total_errors"`
	IsTruncated bool                 `json:"is_truncated"`
	Items       []ItemView           `json:"items"`
}

type importRow struct {
	line  int
	input CreateItemInput
}

// ImportItems creates items from a CSV file. Suppliers are referenced by code.
func (s *Service) ImportItems(ctx context.Context, actor appshared.Actor, r io.Reader, dryRun bool) (_ *ItemImportResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.import_items", attribute.Bool("import.dry_run", dryRun))
	defer func() { telemetry.End(span, err) }()

	rows, err := readImportRows(r)
	if err != nil {
		return nil, err
	}

	supplierIDs, err := s.supplierIDsByCode(ctx)
	if err != nil {
		return nil, err
	}

	ec := csvimport.NewErrorCollection(csvimport.DefaultMaxErrors)
	valid := make([]importRow, 0, len(rows))
	codes := make(map[string]int)
	for _, row := range rows {
		before := ec.TotalCount()
		input := parseImportRow(row, supplierIDs, codes, ec)
		if ec.TotalCount() == before {
			valid = append(valid, importRow{line: row.LineNumber, input: input})
		}
	}

	result := &ItemImportResult{
		TotalRows:   len(rows),
		ValidRows:   len(valid),
		DryRun:      dryRun,
		Errors:      ec.Errors(),
		TotalErrors: ec.TotalCount(),
		IsTruncated: ec.IsTruncated(),
		Items:       []ItemView{},
	}
	span.SetAttributes(
		attribute.Int("import.rows", result.TotalRows),
		attribute.Int("import.errors", result.TotalErrors))
	if ec.HasErrors() || dryRun {
		s.logger.Info("Item import validated",
			zap.Int("rows", result.TotalRows),
			zap.Int("errors", result.TotalErrors),
			zap.Bool("dry_run", dryRun))
		return result, nil
	}

	for _, row := range valid {
		view, err := s.CreateItem(ctx, actor, row.input)
		if err != nil {
			return nil, fmt.Errorf("import row %d: %w", row.line, err)
		}
		result.Items = append(result.Items, *view)
		result.Imported++
	}
	s.logger.Info("Items imported",
		zap.Int("count", result.Imported),
		zap.String("actor_id", actor.ID.String()))
	return result, nil
}

func readImportRows(r io.Reader) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, importFileError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, importFileError(err)
	}
	if missing := parser.MissingHeaders(RequiredImportColumns); len(missing) > 0 {
		return nil, shared.InvalidInput("CSV file is missing columns: %s", strings.Join(missing, ", "))
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, importFileError(err)
	}
	return rows, nil
}

func importFileError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrInvalidEncoding),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrNoDataRows):
		return shared.InvalidInput("%s", err.Error())
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return shared.InvalidInput("%s", parseErr.Error())
	}
	return fmt.Errorf("read import file: %w", err)
}

func (s *Service) supplierIDsByCode(ctx context.Context) (map[string]uuid.UUID, error) {
	suppliers, err := s.suppliers.FindAll(ctx, inventory.SupplierFilter{})
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	ids := make(map[string]uuid.UUID, len(suppliers))
	for _, sup := range suppliers {
		ids[sup.Code] = sup.ID
	}
	return ids, nil
}

// parseImportRow checks one row, recording every problem in ec. codes maps
// item codes already seen to their line.
func parseImportRow(row *csvimport.Row, supplierIDs map[string]uuid.UUID, codes map[string]int, ec *csvimport.ErrorCollection) CreateItemInput {
	line := row.LineNumber
	input := CreateItemInput{
		Name:     row.Get(ColumnName),
		Code:     row.Get(ColumnCode),
		Unit:     row.Get(ColumnUnit),
		Category: row.Get(ColumnCategory),
	}

	supplierCode := row.Get(ColumnSupplierCode)
	if supplierCode == "" {
		ec.AddRequired(line, ColumnSupplierCode)
	} else if id, ok := supplierIDs[supplierCode]; ok {
		input.SupplierID = id
	} else {
		ec.AddReferenceNotFound(line, ColumnSupplierCode, supplierCode, "supplier")
	}

	requireText(ec, line, ColumnName, input.Name, 100)
	requireText(ec, line, ColumnUnit, input.Unit, 20)
	limitText(ec, line, ColumnCode, input.Code, 50)
	limitText(ec, line, ColumnCategory, input.Category, 50)

	if input.Code != "" {
		if first, seen := codes[input.Code]; seen {
			ec.AddDuplicate(line, ColumnCode, input.Code, first)
		} else {
			codes[input.Code] = line
		}
	}

	input.SafetyStock = quantity(ec, line, ColumnSafetyStock, row.Get(ColumnSafetyStock))
	input.InitialStock = quantity(ec, line, ColumnInitialStock, row.Get(ColumnInitialStock))
	return input
}

func requireText(ec *csvimport.ErrorCollection, line int, column, value string, maxLen int) {
	if value == "" {
		ec.AddRequired(line, column)
		return
	}
	limitText(ec, line, column, value, maxLen)
}

func limitText(ec *csvimport.ErrorCollection, line int, column, value string, maxLen int) {
	if utf8.RuneCountInString(value) > maxLen {
		ec.AddTooLong(line, column, maxLen)
	}
}

// quantity parses an optional non-negative decimal; blank means zero
func quantity(ec *csvimport.ErrorCollection, line int, column, value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		ec.AddInvalidNumber(line, column, value)
		return decimal.Zero
	}
	if d.IsNegative() {
		ec.AddNegative(line, column, value)
		return decimal.Zero
	}
	return d
}

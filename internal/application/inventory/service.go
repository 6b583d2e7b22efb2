package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/inventory"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultRecordLimit caps stock record listings
const DefaultRecordLimit = 100

// Service handles suppliers, items and stock movements
type Service struct {
	suppliers inventory.SupplierRepository
	items     inventory.ItemRepository
	directory *identity.UserDirectory
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates an inventory service
func NewService(
	suppliers inventory.SupplierRepository,
	items inventory.ItemRepository,
	directory *identity.UserDirectory,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		suppliers: suppliers,
		items:     items,
		directory: directory,
		publisher: publisher,
		logger:    logger,
	}
}

// ListSuppliers returns suppliers matching the filter, ordered by name
func (s *Service) ListSuppliers(ctx context.Context, input ListSuppliersInput) ([]SupplierView, error) {
	filter := inventory.SupplierFilter{
		ListOptions: shared.ListOptions{Search: input.Search, SortBy: "name"},
		ActiveOnly:  input.ActiveOnly,
	}
	suppliers, err := s.suppliers.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	out := make([]SupplierView, len(suppliers))
	for i, sup := range suppliers {
		out[i] = ToSupplierView(sup)
	}
	return out, nil
}

// GetSupplier returns one supplier
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierView, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := ToSupplierView(sup)
	return &v, nil
}

// CreateSupplier adds a supplier. Codes are unique.
func (s *Service) CreateSupplier(ctx context.Context, actor appshared.Actor, input CreateSupplierInput) (*SupplierView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateSupplierInput) (*SupplierView, error) {
		sup, err := inventory.NewSupplier(actor.ID, in.Name, in.Code, inventory.SupplierDetails{
			Contact: in.Contact,
			Phone:   in.Phone,
			Email:   in.Email,
			Address: in.Address,
			Notes:   in.Notes,
		})
		if err != nil {
			return nil, err
		}
		exists, err := s.suppliers.ExistsByCode(ctx, sup.Code)
		if err != nil {
			return nil, fmt.Errorf("check supplier code: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Supplier code "+sup.Code+" already exists")
		}
		if err := s.suppliers.Create(ctx, sup); err != nil {
			return nil, err
		}
		s.logger.Info("Supplier created", zap.String("supplier_id", sup.ID.String()), zap.String("code", sup.Code))
		v := ToSupplierView(sup)
		return &v, nil
	})
}

// UpdateSupplier changes the provided fields of a supplier
func (s *Service) UpdateSupplier(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateSupplierInput) (*SupplierView, error) {
		sup, err := s.suppliers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if in.Name != nil {
			if err := sup.SetName(*in.Name); err != nil {
				return nil, err
			}
		}
		if in.Code != nil {
			if err := sup.SetCode(*in.Code); err != nil {
				return nil, err
			}
		}
		d := sup.Details()
		mergeString(&d.Contact, in.Contact)
		mergeString(&d.Phone, in.Phone)
		mergeString(&d.Email, in.Email)
		mergeString(&d.Address, in.Address)
		mergeString(&d.Notes, in.Notes)
		if err := sup.SetDetails(d); err != nil {
			return nil, err
		}
		if in.IsActive != nil {
			sup.SetActive(*in.IsActive)
		}
		if err := s.suppliers.Update(ctx, sup); err != nil {
			return nil, err
		}
		v := ToSupplierView(sup)
		return &v, nil
	})
}

// DeleteSupplier removes a supplier without items
func (s *Service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Supplier deleted", zap.String("supplier_id", id.String()))
	return nil
}

// GetSupplierItems returns the active items of a supplier
func (s *Service) GetSupplierItems(ctx context.Context, supplierID uuid.UUID) ([]ItemView, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.ListItems(ctx, ListItemsInput{SupplierID: &supplierID, ActiveOnly: true})
}

// ListItems returns items matching the filter, ordered by name
func (s *Service) ListItems(ctx context.Context, input ListItemsInput) ([]ItemView, error) {
	filter := inventory.ItemFilter{
		ListOptions: shared.ListOptions{Search: input.Search, SortBy: "name"},
		SupplierID:  input.SupplierID,
		Category:    input.Category,
		ActiveOnly:  input.ActiveOnly,
	}
	items, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return s.toItemViews(ctx, items), nil
}

// GetItem returns one item
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &s.toItemViews(ctx, []*inventory.Item{item})[0], nil
}

// CreateItem adds an item. A positive initial stock is recorded as an "in" movement.
func (s *Service) CreateItem(ctx context.Context, actor appshared.Actor, input CreateItemInput) (*ItemView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CreateItemInput) (*ItemView, error) {
		if err := s.requireSupplier(ctx, in.SupplierID); err != nil {
			return nil, err
		}
		item, initial, err := inventory.NewItem(actor.ID, in.SupplierID, inventory.ItemDetails{
			Name:     in.Name,
			Code:     in.Code,
			Unit:     in.Unit,
			Category: in.Category,
		}, in.SafetyStock, in.InitialStock)
		if err != nil {
			return nil, err
		}
		if err := s.items.Create(ctx, item, initial); err != nil {
			return nil, err
		}
		s.logger.Info("Inventory item created",
			zap.String("item_id", item.ID.String()),
			zap.String("name", item.Name),
			zap.String("initial_stock", item.CurrentStock.String()))
		return &s.toItemViews(ctx, []*inventory.Item{item})[0], nil
	})
}

// UpdateItem changes the provided fields of an item
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemView, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in UpdateItemInput) (*ItemView, error) {
		item, err := s.items.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if in.SupplierID != nil && *in.SupplierID != item.SupplierID {
			if err := s.requireSupplier(ctx, *in.SupplierID); err != nil {
				return nil, err
			}
			if err := item.SetSupplier(*in.SupplierID); err != nil {
				return nil, err
			}
		}
		d := item.Details()
		mergeString(&d.Name, in.Name)
		mergeString(&d.Code, in.Code)
		mergeString(&d.Unit, in.Unit)
		mergeString(&d.Category, in.Category)
		if err := item.SetDetails(d); err != nil {
			return nil, err
		}
		if in.SafetyStock != nil {
			if err := item.SetSafetyStock(*in.SafetyStock); err != nil {
				return nil, err
			}
		}
		if in.IsActive != nil {
			item.SetActive(*in.IsActive)
		}
		if err := s.items.Update(ctx, item); err != nil {
			return nil, err
		}
		return &s.toItemViews(ctx, []*inventory.Item{item})[0], nil
	})
}

// DeleteItem removes an item that never moved stock. Items with records
// fail with INVALID_STATE and are deactivated instead.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Inventory item deleted", zap.String("item_id", id.String()))
	return nil
}

// GetLowStockItems returns active items at or below their safety stock
func (s *Service) GetLowStockItems(ctx context.Context) ([]ItemView, error) {
	items, err := s.items.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("find low stock items: %w", err)
	}
	return s.toItemViews(ctx, items), nil
}

// GetItemRecords returns the item's stock trail, newest first
func (s *Service) GetItemRecords(ctx context.Context, itemID uuid.UUID, limit int) ([]StockRecordView, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultRecordLimit {
		limit = DefaultRecordLimit
	}
	records, err := s.items.FindRecords(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("find stock records: %w", err)
	}
	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.CreatedBy
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]StockRecordView, len(records))
	for i, r := range records {
		out[i] = toStockRecordView(r, names)
	}
	return out, nil
}

// CheckStock replaces the stock with a counted quantity
func (s *Service) CheckStock(ctx context.Context, actor appshared.Actor, itemID uuid.UUID, input CheckStockInput) (*MovementResult, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in CheckStockInput) (*MovementResult, error) {
		return s.applyMovement(ctx, "inventory.check_stock", actor, itemID, func(item *inventory.Item) (*inventory.StockRecord, error) {
			return item.Check(*in.Quantity, in.Notes, actor.ID)
		})
	})
}

// AdjustStock adds a signed delta to the stock. The result may not be negative.
func (s *Service) AdjustStock(ctx context.Context, actor appshared.Actor, itemID uuid.UUID, input AdjustStockInput) (*MovementResult, error) {
	return appshared.Run(ctx, input, func(ctx context.Context, in AdjustStockInput) (*MovementResult, error) {
		return s.applyMovement(ctx, "inventory.adjust_stock", actor, itemID, func(item *inventory.Item) (*inventory.StockRecord, error) {
			return item.Adjust(*in.Quantity, in.Notes, actor.ID)
		})
	})
}

func (s *Service) applyMovement(ctx context.Context, op string, actor appshared.Actor, itemID uuid.UUID, mutate func(*inventory.Item) (*inventory.StockRecord, error)) (_ *MovementResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, op,
		attribute.String("item.id", itemID.String()),
		attribute.String("staff.id", actor.ID.String()))
	defer func() { telemetry.End(span, err) }()

	item, record, err := s.items.ApplyMovement(ctx, itemID, mutate)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("stock.before", record.BeforeQuantity.String()),
		attribute.String("stock.after", record.AfterQuantity.String()))
	if err := shared.PublishAndClear(ctx, s.publisher, item); err != nil {
		s.logger.Warn("Failed to publish stock events", zap.Error(err))
	}

	s.logger.Info("Stock movement recorded",
		zap.String("item_id", item.ID.String()),
		zap.String("type", string(record.Type)),
		zap.String("before", record.BeforeQuantity.String()),
		zap.String("after", record.AfterQuantity.String()),
		zap.String("actor_id", actor.ID.String()))

	names := s.directory.Resolve(ctx, []uuid.UUID{actor.ID})
	return &MovementResult{
		Item:   toItemView(item, names),
		Record: toStockRecordView(record, names),
	}, nil
}

func (s *Service) requireSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("supplier %s does not exist", id)
		}
		return err
	}
	return nil
}

func (s *Service) toItemViews(ctx context.Context, items []*inventory.Item) []ItemView {
	ids := make([]uuid.UUID, 0, len(items))
	for _, i := range items {
		if i.LastCheckedBy != nil {
			ids = append(ids, *i.LastCheckedBy)
		}
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]ItemView, len(items))
	for i, item := range items {
		out[i] = toItemView(item, names)
	}
	return out
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

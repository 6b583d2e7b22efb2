package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/teashop/backend/internal/application/inventory"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves suppliers, items and stock movements
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(base BaseHandler, inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, inventoryService: inventoryService}
}

// ListSuppliers returns the suppliers matching ?search= and ?active_only=
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	var input inventoryapp.ListSuppliersInput
	if !h.bindQuery(c, &input) {
		return
	}
	suppliers, err := h.inventoryService.ListSuppliers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// GetSupplier returns one supplier
func (h *InventoryHandler) GetSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.inventoryService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// CreateSupplier adds a supplier
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input inventoryapp.CreateSupplierInput
	if !h.bindJSON(c, &input) {
		return
	}
	supplier, err := h.inventoryService.CreateSupplier(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// UpdateSupplier changes a supplier
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input inventoryapp.UpdateSupplierInput
	if !h.bindJSON(c, &input) {
		return
	}
	supplier, err := h.inventoryService.UpdateSupplier(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// DeleteSupplier removes a supplier
func (h *InventoryHandler) DeleteSupplier(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteSupplier(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// GetSupplierItems lists the active items of a supplier
func (h *InventoryHandler) GetSupplierItems(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.inventoryService.GetSupplierItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListItems returns items filtered by the query string
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var input inventoryapp.ListItemsInput
	if !h.bindQuery(c, &input) {
		return
	}
	if raw := c.Query("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid supplier_id")
			return
		}
		input.SupplierID = &supplierID
	}
	items, err := h.inventoryService.ListItems(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetLowStockItems lists active items at or below their safety stock
func (h *InventoryHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetItem returns one item
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateItem adds an item
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input inventoryapp.CreateItemInput
	if !h.bindJSON(c, &input) {
		return
	}
	item, err := h.inventoryService.CreateItem(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// ImportItems creates items from a CSV upload. The file is read from the
// multipart field "file" or, for text/csv requests, from the body.
// ?dry_run=true only validates.
func (h *InventoryHandler) ImportItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			h.BadRequest(c, "file is required")
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.inventoryService.ImportItems(c.Request.Context(), actor, src, c.Query("dry_run") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Imported > 0 {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// UpdateItem changes an item
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input inventoryapp.UpdateItemInput
	if !h.bindJSON(c, &input) {
		return
	}
	item, err := h.inventoryService.UpdateItem(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes an item without stock records
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c)
}

// GetItemRecords lists the newest stock records of an item, ?limit= caps them
func (h *InventoryHandler) GetItemRecords(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	records, err := h.inventoryService.GetItemRecords(c.Request.Context(), id, queryInt(c, "limit", inventoryapp.DefaultRecordLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// CheckStock records a physical count and answers {item, record}
func (h *InventoryHandler) CheckStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input inventoryapp.CheckStockInput
	if !h.bindJSON(c, &input) {
		return
	}
	result, err := h.inventoryService.CheckStock(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdjustStock applies a signed quantity change and answers {item, record}
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var input inventoryapp.AdjustStockInput
	if !h.bindJSON(c, &input) {
		return
	}
	result, err := h.inventoryService.AdjustStock(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

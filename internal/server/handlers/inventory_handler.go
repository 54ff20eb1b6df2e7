package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/inventory"
)

// InventoryHandler adapts the stock entry and box endpoints.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

type createEntryRequest struct {
	SupplierID    string                    `json:"fornecedor_id" binding:"required"`
	EntryDate     string                    `json:"data_entrada" binding:"required"`
	TotalValue    float64                   `json:"valor_total"`
	PaymentDate   string                    `json:"data_pagamento"`
	PaymentStatus string                    `json:"status_pagamento"`
	PaymentMethod string                    `json:"forma_pagamento"`
	Installments  int                       `json:"parcelas"`
	InvoiceNumber string                    `json:"nf_numero"`
	InvoiceFile   string                    `json:"nf_arquivo"`
	Notes         string                    `json:"observacoes"`
	Products      []models.EntryProductLine `json:"produtos" binding:"required"`
}

// CreateEntry registers a purchase, fanning out boxes and the payable title.
func (h *InventoryHandler) CreateEntry(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	entryDate, ok := parseDate(req.EntryDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_entrada inválida"})
		return
	}
	in := inventory.CreateEntryInput{
		SupplierID:    req.SupplierID,
		EntryDate:     entryDate,
		TotalValue:    req.TotalValue,
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		PaymentMethod: req.PaymentMethod,
		Installments:  req.Installments,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceFile:   req.InvoiceFile,
		Notes:         req.Notes,
		Products:      req.Products,
	}
	if paymentDate, ok := parseDate(req.PaymentDate); ok {
		in.PaymentDate = &paymentDate
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListEntries returns all entries, newest first.
func (h *InventoryHandler) ListEntries(c *gin.Context) {
	entries, err := h.svc.ListEntries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntry returns one entry.
func (h *InventoryHandler) GetEntry(c *gin.Context) {
	entry, err := h.svc.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entry == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ListBoxes returns boxes matching the query filters.
func (h *InventoryHandler) ListBoxes(c *gin.Context) {
	filter := models.BoxFilter{
		BaseProduct: c.Query("produto_base"),
		Code:        c.Query("codigo"),
		SupplierID:  c.Query("fornecedor_id"),
		Status:      models.BoxStatus(c.Query("status")),
	}
	boxes, err := h.svc.ListBoxes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, boxes)
}

// GetBox returns one box by id.
func (h *InventoryHandler) GetBox(c *gin.Context) {
	box, err := h.svc.GetBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if box == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, box)
}

// GetBoxByCode returns one box by its CX code. With estoque=1 only in-stock
// boxes match, which is what the sales screen uses.
func (h *InventoryHandler) GetBoxByCode(c *gin.Context) {
	onlyInStock := c.Query("estoque") == "1"
	box, err := h.svc.GetBoxByCode(c.Request.Context(), c.Param("codigo"), onlyInStock)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if box == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, box)
}

type createSupplierRequest struct {
	Name  string `json:"nome" binding:"required"`
	Phone string `json:"telefone"`
	Notes string `json:"observacoes"`
}

// CreateSupplier registers a supplier.
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	supplier, err := h.svc.CreateSupplier(c.Request.Context(), req.Name, req.Phone, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// ListSuppliers returns active suppliers.
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.svc.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

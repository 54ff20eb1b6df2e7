package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/pricing"
)

// PricingHandler adapts the stock-analysis and price-publication endpoints.
type PricingHandler struct {
	svc    *pricing.Service
	logger *zap.Logger
}

// NewPricingHandler constructs the HTTP handler adapter.
func NewPricingHandler(svc *pricing.Service, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{svc: svc, logger: logger}
}

// AnalyzeStock returns the weighted-average, loss and real-cost analysis for
// one (produto, tipo) pool.
func (h *PricingHandler) AnalyzeStock(c *gin.Context) {
	product := c.Query("produto")
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "produto é obrigatório"})
		return
	}
	analysis, err := h.svc.AnalyzeStock(c.Request.Context(), product, models.ProductType(c.Query("tipo")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

type publishPriceRequest struct {
	BaseProduct    string   `json:"produto_base" binding:"required"`
	Type           string   `json:"tipo" binding:"required"`
	CommercialName string   `json:"nome_comercial"`
	SalePricePerKG *float64 `json:"preco_venda_kg"`
	MarginPercent  *float64 `json:"margem_percentual"`
}

// PublishPrice appends a new active pricing record.
func (h *PricingHandler) PublishPrice(c *gin.Context) {
	var req publishPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	record, err := h.svc.PublishPrice(c.Request.Context(), pricing.PublishInput{
		BaseProduct:    req.BaseProduct,
		Type:           models.ProductType(req.Type),
		CommercialName: req.CommercialName,
		SalePricePerKG: req.SalePricePerKG,
		MarginPercent:  req.MarginPercent,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListActive returns the active price table.
func (h *PricingHandler) ListActive(c *gin.Context) {
	records, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ActivePrice returns the active sale price for one (produto, tipo), used to
// prefill the sales screens.
func (h *PricingHandler) ActivePrice(c *gin.Context) {
	product := c.Query("produto")
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "produto é obrigatório"})
		return
	}
	price, err := h.svc.ActivePrice(c.Request.Context(), product, models.ProductType(c.Query("tipo")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if price == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preco_venda_kg": *price})
}

// ListBaseProducts lists the distinct sellable product names of one type.
func (h *PricingHandler) ListBaseProducts(c *gin.Context) {
	names, err := h.svc.ListBaseProducts(c.Request.Context(), models.ProductType(c.Query("tipo")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

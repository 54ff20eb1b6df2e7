package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/sales"
)

// SalesHandler adapts the box-sale and derived-sale endpoints.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSalesHandler constructs the HTTP handler adapter.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

type boxSaleItemRequest struct {
	BoxID          string  `json:"caixa_id" binding:"required"`
	BoxCode        string  `json:"codigo_caixa"`
	BaseProduct    string  `json:"produto_base"`
	KG             float64 `json:"peso_kg"`
	CostPerKG      float64 `json:"custo_kg"`
	SalePricePerKG float64 `json:"valor_venda_kg"`
}

type createBoxSaleRequest struct {
	Date  string               `json:"data_venda" binding:"required"`
	Kind  string               `json:"tipo_venda" binding:"required"`
	Items []boxSaleItemRequest `json:"itens" binding:"required"`
	Split *models.ProfitSplit  `json:"divisao_lucro"`
}

// CreateBoxSale registers a whole-box sale.
func (h *SalesHandler) CreateBoxSale(c *gin.Context) {
	var req createBoxSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_venda inválida"})
		return
	}
	items := make([]sales.BoxSaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, sales.BoxSaleItemInput{
			BoxID:          item.BoxID,
			BoxCode:        item.BoxCode,
			BaseProduct:    item.BaseProduct,
			KG:             item.KG,
			CostPerKG:      item.CostPerKG,
			SalePricePerKG: item.SalePricePerKG,
		})
	}
	sale, err := h.svc.CreateBoxSale(c.Request.Context(), date, models.SaleKind(req.Kind), items, req.Split)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// ListBoxSales returns box sales, newest first.
func (h *SalesHandler) ListBoxSales(c *gin.Context) {
	list, err := h.svc.ListBoxSales(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBoxSale returns one box sale.
func (h *SalesHandler) GetBoxSale(c *gin.Context) {
	sale, err := h.svc.GetBoxSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if sale == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, sale)
}

type derivedSaleItemRequest struct {
	ProductID      string  `json:"produto_id" binding:"required"`
	Product        string  `json:"produto"`
	KG             float64 `json:"peso_vendido_kg"`
	SalePricePerKG float64 `json:"preco_venda_kg"`
}

type createDerivedSaleRequest struct {
	Date  string                   `json:"data_venda" binding:"required"`
	Kind  string                   `json:"tipo_venda" binding:"required"`
	Items []derivedSaleItemRequest `json:"itens" binding:"required"`
	Split *models.ProfitSplit      `json:"divisao_lucro"`
}

// CreateDerivedSale registers a derived-product sale.
func (h *SalesHandler) CreateDerivedSale(c *gin.Context) {
	var req createDerivedSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_venda inválida"})
		return
	}
	items := make([]sales.DerivedSaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, sales.DerivedSaleItemInput{
			ProductID:      item.ProductID,
			Product:        item.Product,
			KG:             item.KG,
			SalePricePerKG: item.SalePricePerKG,
		})
	}
	sale, err := h.svc.CreateDerivedSale(c.Request.Context(), date, models.SaleKind(req.Kind), items, req.Split)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// ListDerivedSales returns derived sales, newest first.
func (h *SalesHandler) ListDerivedSales(c *gin.Context) {
	list, err := h.svc.ListDerivedSales(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetDerivedSale returns one derived sale.
func (h *SalesHandler) GetDerivedSale(c *gin.Context) {
	sale, err := h.svc.GetDerivedSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if sale == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, sale)
}

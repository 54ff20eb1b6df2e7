package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/bakery"
)

// receivableHorizonDays is how far forward the pending-title endpoints ask the
// generator to populate before reading.
const receivableHorizonDays = 30

// BakeryHandler adapts the bread customer, plan, delivery and receivable
// endpoints.
type BakeryHandler struct {
	svc    *bakery.Service
	logger *zap.Logger
}

// NewBakeryHandler constructs the HTTP handler adapter.
func NewBakeryHandler(svc *bakery.Service, logger *zap.Logger) *BakeryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BakeryHandler{svc: svc, logger: logger}
}

type customerRequest struct {
	Name    string `json:"nome" binding:"required"`
	Phone   string `json:"telefone"`
	Address string `json:"endereco"`
	Notes   string `json:"observacoes"`
}

// CreateCustomer registers a delivery-route customer.
func (h *BakeryHandler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	customer, err := h.svc.CreateCustomer(c.Request.Context(), req.Name, req.Phone, req.Address, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// ListCustomers returns active customers.
func (h *BakeryHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns one customer.
func (h *BakeryHandler) GetCustomer(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if customer == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer rewrites a customer's contact fields.
func (h *BakeryHandler) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	customer, err := h.svc.UpdateCustomer(c.Request.Context(), c.Param("id"), req.Name, req.Phone, req.Address, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if customer == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, customer)
}

type createPlanRequest struct {
	CustomerID     string   `json:"cliente_id" binding:"required"`
	Type           string   `json:"tipo_plano" binding:"required"`
	Weekdays       []string `json:"dias_entrega" binding:"required"`
	DeliveryTime   string   `json:"horario_entrega"`
	QuantityPerDay int      `json:"quantidade_paes_por_dia"`
	UnitPrice      float64  `json:"valor_por_pao"`
	PaymentDue     string   `json:"data_pagamento" binding:"required"`
}

// CreatePlan opens a subscription plan.
func (h *BakeryHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	paymentDue, ok := parseDate(req.PaymentDue)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_pagamento inválida"})
		return
	}
	plan, err := h.svc.CreatePlan(c.Request.Context(), bakery.CreatePlanInput{
		CustomerID:     req.CustomerID,
		Type:           models.PlanType(req.Type),
		Weekdays:       req.Weekdays,
		DeliveryTime:   req.DeliveryTime,
		QuantityPerDay: req.QuantityPerDay,
		UnitPrice:      req.UnitPrice,
		PaymentDue:     paymentDue,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

type updatePlanRequest struct {
	Weekdays       []string `json:"dias_entrega" binding:"required"`
	QuantityPerDay int      `json:"quantidade_paes_por_dia"`
	UnitPrice      float64  `json:"valor_por_pao"`
	PaymentDue     string   `json:"data_pagamento"`
}

// UpdatePlan rewrites a plan's delivery configuration.
func (h *BakeryHandler) UpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	in := bakery.UpdatePlanInput{
		Weekdays:       req.Weekdays,
		QuantityPerDay: req.QuantityPerDay,
		UnitPrice:      req.UnitPrice,
	}
	if due, ok := parseDate(req.PaymentDue); ok {
		in.PaymentDue = due
	}
	plan, err := h.svc.UpdatePlan(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if plan == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ListPlans returns all plans with effective status.
func (h *BakeryHandler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan returns one plan.
func (h *BakeryHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if plan == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CancelPlan soft-cancels a plan.
func (h *BakeryHandler) CancelPlan(c *gin.Context) {
	cancelled, err := h.svc.CancelPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !cancelled {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "CANCELADO"})
}

// ListDeliveries refreshes and returns the window's deliveries.
func (h *BakeryHandler) ListDeliveries(c *gin.Context) {
	from, to := dateRange(c, 7)
	deliveries, err := h.svc.ListDeliveries(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// ListDeliveriesByDay returns the window's deliveries grouped per date.
func (h *BakeryHandler) ListDeliveriesByDay(c *gin.Context) {
	from, to := dateRange(c, 7)
	days, err := h.svc.ListDeliveriesByDay(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// ConfirmDelivery flips a pending delivery to ENTREGUE.
func (h *BakeryHandler) ConfirmDelivery(c *gin.Context) {
	confirmed, err := h.svc.ConfirmDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !confirmed {
		c.JSON(http.StatusNotFound, gin.H{"error": "entrega não encontrada ou já confirmada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ENTREGUE"})
}

// ProductionSummary returns the day's bag-size histogram for the bakery.
func (h *BakeryHandler) ProductionSummary(c *gin.Context) {
	date, ok := parseDate(c.Query("data"))
	if !ok {
		date = time.Now().UTC()
	}
	summary, err := h.svc.ProductionSummary(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GenerateReceivables runs the title generator over the requested window.
func (h *BakeryHandler) GenerateReceivables(c *gin.Context) {
	from, to := dateRange(c, receivableHorizonDays)
	created, err := h.svc.GenerateReceivables(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titulos_criados": created})
}

// ListPendingReceivables refreshes the window and returns pending titles.
func (h *BakeryHandler) ListPendingReceivables(c *gin.Context) {
	titles, err := h.svc.ListPendingReceivables(c.Request.Context(), time.Now().UTC(), receivableHorizonDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// GroupPendingReceivables returns pending titles bucketed by urgency.
func (h *BakeryHandler) GroupPendingReceivables(c *gin.Context) {
	buckets, err := h.svc.GroupPendingReceivables(c.Request.Context(), time.Now().UTC(), receivableHorizonDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// ListPaidReceivables returns titles paid within the window.
func (h *BakeryHandler) ListPaidReceivables(c *gin.Context) {
	from, to := dateRange(c, 0)
	titles, err := h.svc.ListPaidReceivables(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	total, err := h.svc.ReceivedTotalBetween(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titulos": titles, "total_recebido": total})
}

type payReceivableRequest struct {
	PaymentDate string `json:"data_pagamento" binding:"required"`
	Method      string `json:"forma_pagamento"`
	Notes       string `json:"observacoes"`
}

// PayReceivable settles a pending title.
func (h *BakeryHandler) PayReceivable(c *gin.Context) {
	var req payReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	paymentDate, ok := parseDate(req.PaymentDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_pagamento inválida"})
		return
	}
	paid, err := h.svc.RegisterReceivablePayment(c.Request.Context(), c.Param("id"), paymentDate, req.Method, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !paid {
		c.JSON(http.StatusNotFound, gin.H{"error": "título não encontrado ou já pago"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "PAGO"})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if value := c.Query(name); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/finance"
	"github.com/emporiumprime/estoque/internal/service/reporting"
)

// FinanceHandler adapts the payable, settings and financial summary endpoints.
type FinanceHandler struct {
	svc       *finance.Service
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewFinanceHandler constructs the HTTP handler adapter.
func NewFinanceHandler(svc *finance.Service, reportingSvc *reporting.Service, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, reporting: reportingSvc, logger: logger}
}

// ListPendingPayables returns pending supplier titles.
func (h *FinanceHandler) ListPendingPayables(c *gin.Context) {
	titles, err := h.svc.ListPendingPayables(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// ListPaidPayables returns recently settled supplier titles.
func (h *FinanceHandler) ListPaidPayables(c *gin.Context) {
	limit := int64(queryInt(c, "limite", 50))
	titles, err := h.svc.ListPaidPayables(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// GetPayable returns one supplier title.
func (h *FinanceHandler) GetPayable(c *gin.Context) {
	title, err := h.svc.GetPayable(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if title == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, title)
}

type payPayableRequest struct {
	PaymentDate string `json:"data_pagamento" binding:"required"`
}

// PayPayable settles a pending supplier title.
func (h *FinanceHandler) PayPayable(c *gin.Context) {
	var req payPayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	paymentDate, ok := parseDate(req.PaymentDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_pagamento inválida"})
		return
	}
	paid, err := h.svc.PayPayable(c.Request.Context(), c.Param("id"), paymentDate)
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

// PaidByDay returns the month's settled amounts grouped per day of month.
func (h *FinanceHandler) PaidByDay(c *gin.Context) {
	month, ok := parseDate(c.Query("mes"))
	if !ok {
		month = time.Now().UTC()
	}
	totals, err := h.svc.PaidByDayOfMonth(c.Request.Context(), month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// PaidByMonth returns settled amounts grouped per month over a trailing window.
func (h *FinanceHandler) PaidByMonth(c *gin.Context) {
	months := queryInt(c, "meses", 6)
	totals, err := h.svc.PaidByMonth(c.Request.Context(), time.Now().UTC(), months)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Summary returns the period's aggregated financial movement.
func (h *FinanceHandler) Summary(c *gin.Context) {
	from, to := dateRange(c, 0)
	summary, err := h.reporting.Summarize(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDefaultSplit returns the configured default profit split.
func (h *FinanceHandler) GetDefaultSplit(c *gin.Context) {
	split, err := h.svc.DefaultSplit(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

// SaveDefaultSplit validates and stores the default profit split.
func (h *FinanceHandler) SaveDefaultSplit(c *gin.Context) {
	var split models.ProfitSplit
	if err := c.ShouldBindJSON(&split); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	if err := h.svc.SaveDefaultSplit(c.Request.Context(), split); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/server/handlers"
)

// Handlers bundles the per-module HTTP adapters the router mounts.
type Handlers struct {
	Inventory  *handlers.InventoryHandler
	Processing *handlers.ProcessingHandler
	Pricing    *handlers.PricingHandler
	Sales      *handlers.SalesHandler
	Bakery     *handlers.BakeryHandler
	Finance    *handlers.FinanceHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/entradas", h.Inventory.CreateEntry)
	r.GET("/entradas", h.Inventory.ListEntries)
	r.GET("/entradas/:id", h.Inventory.GetEntry)
	r.GET("/caixas", h.Inventory.ListBoxes)
	r.GET("/caixas/:id", h.Inventory.GetBox)
	r.GET("/caixas/codigo/:codigo", h.Inventory.GetBoxByCode)
	r.POST("/fornecedores", h.Inventory.CreateSupplier)
	r.GET("/fornecedores", h.Inventory.ListSuppliers)

	r.POST("/processamentos", h.Processing.CreateRun)
	r.GET("/processamentos", h.Processing.ListRuns)
	r.GET("/processamentos/:id", h.Processing.GetRun)
	r.GET("/produtos-derivados", h.Processing.ListDerived)
	r.GET("/produtos-derivados/:id", h.Processing.GetDerived)

	r.GET("/precificacao/analise", h.Pricing.AnalyzeStock)
	r.POST("/precificacao", h.Pricing.PublishPrice)
	r.GET("/precificacao", h.Pricing.ListActive)
	r.GET("/precificacao/ativa", h.Pricing.ActivePrice)
	r.GET("/precificacao/produtos", h.Pricing.ListBaseProducts)

	r.POST("/vendas/caixas", h.Sales.CreateBoxSale)
	r.GET("/vendas/caixas", h.Sales.ListBoxSales)
	r.GET("/vendas/caixas/:id", h.Sales.GetBoxSale)
	r.POST("/vendas/processados", h.Sales.CreateDerivedSale)
	r.GET("/vendas/processados", h.Sales.ListDerivedSales)
	r.GET("/vendas/processados/:id", h.Sales.GetDerivedSale)

	r.POST("/clientes-pao", h.Bakery.CreateCustomer)
	r.GET("/clientes-pao", h.Bakery.ListCustomers)
	r.GET("/clientes-pao/:id", h.Bakery.GetCustomer)
	r.PUT("/clientes-pao/:id", h.Bakery.UpdateCustomer)
	r.POST("/planos", h.Bakery.CreatePlan)
	r.GET("/planos", h.Bakery.ListPlans)
	r.GET("/planos/:id", h.Bakery.GetPlan)
	r.PUT("/planos/:id", h.Bakery.UpdatePlan)
	r.POST("/planos/:id/cancelar", h.Bakery.CancelPlan)
	r.GET("/entregas", h.Bakery.ListDeliveries)
	r.GET("/entregas/agrupadas", h.Bakery.ListDeliveriesByDay)
	r.GET("/entregas/producao", h.Bakery.ProductionSummary)
	r.POST("/entregas/:id/confirmar", h.Bakery.ConfirmDelivery)
	r.POST("/titulos-receber/gerar", h.Bakery.GenerateReceivables)
	r.GET("/titulos-receber", h.Bakery.ListPendingReceivables)
	r.GET("/titulos-receber/agrupados", h.Bakery.GroupPendingReceivables)
	r.GET("/titulos-receber/pagos", h.Bakery.ListPaidReceivables)
	r.POST("/titulos-receber/:id/pagar", h.Bakery.PayReceivable)

	r.GET("/financeiro/titulos", h.Finance.ListPendingPayables)
	r.GET("/financeiro/titulos/pagos", h.Finance.ListPaidPayables)
	r.GET("/financeiro/titulos/:id", h.Finance.GetPayable)
	r.POST("/financeiro/titulos/:id/pagar", h.Finance.PayPayable)
	r.GET("/financeiro/pagamentos/dia", h.Finance.PaidByDay)
	r.GET("/financeiro/pagamentos/mes", h.Finance.PaidByMonth)
	r.GET("/financeiro/resumo", h.Finance.Summary)
	r.GET("/configuracoes/divisao-lucro", h.Finance.GetDefaultSplit)
	r.PUT("/configuracoes/divisao-lucro", h.Finance.SaveDefaultSplit)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

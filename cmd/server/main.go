package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/config"
	"github.com/emporiumprime/estoque/internal/repository/mongodb"
	"github.com/emporiumprime/estoque/internal/repository/sheets"
	"github.com/emporiumprime/estoque/internal/scheduler"
	"github.com/emporiumprime/estoque/internal/server/handlers"
	"github.com/emporiumprime/estoque/internal/server/router"
	bakerysvc "github.com/emporiumprime/estoque/internal/service/bakery"
	financesvc "github.com/emporiumprime/estoque/internal/service/finance"
	inventorysvc "github.com/emporiumprime/estoque/internal/service/inventory"
	pricingsvc "github.com/emporiumprime/estoque/internal/service/pricing"
	processingsvc "github.com/emporiumprime/estoque/internal/service/processing"
	reportingsvc "github.com/emporiumprime/estoque/internal/service/reporting"
	salessvc "github.com/emporiumprime/estoque/internal/service/sales"
	whatsappclient "github.com/emporiumprime/estoque/pkg/clients/whatsapp"
	"github.com/emporiumprime/estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	db := store.Database()
	boxRepo := mongodb.NewBoxRepository(db)
	entryRepo := mongodb.NewEntryRepository(db)
	supplierRepo := mongodb.NewSupplierRepository(db)
	counterRepo := mongodb.NewCounterRepository(db)
	runRepo := mongodb.NewProcessingRunRepository(db)
	derivedRepo := mongodb.NewDerivedProductRepository(db)
	pricingRepo := mongodb.NewPricingRepository(db)
	boxSaleRepo := mongodb.NewBoxSaleRepository(db)
	derivedSaleRepo := mongodb.NewDerivedSaleRepository(db)
	customerRepo := mongodb.NewBreadCustomerRepository(db)
	planRepo := mongodb.NewPlanRepository(db)
	deliveryRepo := mongodb.NewDeliveryRepository(db)
	receivableRepo := mongodb.NewReceivableRepository(db)
	payableRepo := mongodb.NewPayableRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Info("sheets export disabled: credentials not configured")
	}

	inventorySvc := inventorysvc.NewService(boxRepo, entryRepo, supplierRepo, payableRepo, counterRepo, baseLogger.Named("svc.inventory"))
	processingSvc := processingsvc.NewService(boxRepo, runRepo, derivedRepo, baseLogger.Named("svc.processing"))
	pricingSvc := pricingsvc.NewService(boxRepo, derivedRepo, runRepo, pricingRepo, baseLogger.Named("svc.pricing"))
	salesSvc := salessvc.NewService(boxRepo, derivedRepo, settingsRepo, boxSaleRepo, derivedSaleRepo, baseLogger.Named("svc.sales"))
	bakerySvc := bakerysvc.NewService(customerRepo, planRepo, deliveryRepo, receivableRepo, baseLogger.Named("svc.bakery"))
	financeSvc := financesvc.NewService(payableRepo, entryRepo, supplierRepo, settingsRepo, baseLogger.Named("svc.finance"))
	reportingSvc := reportingsvc.NewService(boxSaleRepo, derivedSaleRepo, receivableRepo, payableRepo, sheetsRepo, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Inventory:  handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Processing: handlers.NewProcessingHandler(processingSvc, baseLogger.Named("handlers.processing")),
		Pricing:    handlers.NewPricingHandler(pricingSvc, baseLogger.Named("handlers.pricing")),
		Sales:      handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales")),
		Bakery:     handlers.NewBakeryHandler(bakerySvc, baseLogger.Named("handlers.bakery")),
		Finance:    handlers.NewFinanceHandler(financeSvc, reportingSvc, baseLogger.Named("handlers.finance")),
	}, baseLogger.Named("router"))

	var waClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		waClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp delivery summary enabled")
	} else {
		baseLogger.Info("whatsapp delivery summary disabled: token not configured")
	}

	sched := scheduler.NewScheduler(*cfg, bakerySvc, reportingSvc, waClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

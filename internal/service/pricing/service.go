package pricing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// BoxRepository is the read slice of box stock the engine pools.
type BoxRepository interface {
	ListInStockByProduct(ctx context.Context, baseProduct string) ([]models.Box, error)
	DistinctBaseProducts(ctx context.Context) ([]string, error)
}

// DerivedRepository is the read slice of derived stock the engine pools.
type DerivedRepository interface {
	ListAvailableByName(ctx context.Context, product string) ([]models.DerivedProduct, error)
	ListByName(ctx context.Context, product string) ([]models.DerivedProduct, error)
	DistinctProducts(ctx context.Context) ([]string, error)
}

// RunRepository provides the processing history backing loss averages.
type RunRepository interface {
	ListByOriginBaseProduct(ctx context.Context, baseProduct string) ([]models.ProcessingRun, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ProcessingRun, error)
}

// PricingRepository persists the published price history.
type PricingRepository interface {
	DeactivateFor(ctx context.Context, baseProduct string, productType models.ProductType) error
	Insert(ctx context.Context, record *models.PricingRecord) error
	ActiveFor(ctx context.Context, baseProduct string, productType models.ProductType) (*models.PricingRecord, error)
	ListActive(ctx context.Context) ([]models.PricingRecord, error)
}

// Service is the pricing engine: it pools stock lots into weighted-average
// costs, inflates them by historical processing loss and publishes commercial
// prices as an append-only history.
type Service struct {
	boxes   BoxRepository
	derived DerivedRepository
	runs    RunRepository
	pricing PricingRepository
	logger  *zap.Logger
}

// NewService wires the pricing engine.
func NewService(boxes BoxRepository, derived DerivedRepository, runs RunRepository, pricing PricingRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{boxes: boxes, derived: derived, runs: runs, pricing: pricing, logger: logger}
}

// AnalyzeStock pools the lots backing (baseProduct, productType) and computes
// the weighted-average cost per kg, the historical average loss percentage and
// the resulting real cost per kg.
func (s *Service) AnalyzeStock(ctx context.Context, baseProduct string, productType models.ProductType) (models.StockAnalysis, error) {
	var analysis models.StockAnalysis
	var weightSum, costSum float64

	switch productType {
	case models.ProductTypeBox:
		boxes, err := s.boxes.ListInStockByProduct(ctx, baseProduct)
		if err != nil {
			return analysis, err
		}
		for _, box := range boxes {
			if box.CurrentKG <= 0 {
				continue
			}
			weightSum += box.CurrentKG
			costSum += box.CostPerKG * box.CurrentKG
			analysis.LotCount++
		}
		lossPct, err := s.avgLossForBoxProduct(ctx, baseProduct)
		if err != nil {
			return analysis, err
		}
		analysis.AvgLossPercent = lossPct
	case models.ProductTypeProcessed:
		lots, err := s.derived.ListAvailableByName(ctx, baseProduct)
		if err != nil {
			return analysis, err
		}
		for _, lot := range lots {
			if lot.AvailableKG <= 0 {
				continue
			}
			weightSum += lot.AvailableKG
			costSum += lot.CostPerKG * lot.AvailableKG
			analysis.LotCount++
		}
		lossPct, err := s.avgLossForProcessedProduct(ctx, baseProduct)
		if err != nil {
			return analysis, err
		}
		analysis.AvgLossPercent = lossPct
	default:
		return analysis, models.NewValidationError(fmt.Sprintf("tipo de produto inválido: %s", productType))
	}

	if weightSum > 0 {
		analysis.AvgCostPerKG = models.Round2(costSum / weightSum)
		analysis.StockKG = models.Round3(weightSum)
	}
	analysis.RealCostPerKG = models.RealCostPerKG(analysis.AvgCostPerKG, analysis.AvgLossPercent)
	return analysis, nil
}

// avgLossForBoxProduct averages the loss percentage of every run that consumed
// boxes of this base product. No history means zero loss.
func (s *Service) avgLossForBoxProduct(ctx context.Context, baseProduct string) (float64, error) {
	runs, err := s.runs.ListByOriginBaseProduct(ctx, baseProduct)
	if err != nil {
		return 0, err
	}
	return averageLoss(runs), nil
}

// avgLossForProcessedProduct averages the loss percentage of every run that
// produced lots with this product name, deduplicated by run.
func (s *Service) avgLossForProcessedProduct(ctx context.Context, product string) (float64, error) {
	lots, err := s.derived.ListByName(ctx, product)
	if err != nil {
		return 0, err
	}
	seen := make(map[primitive.ObjectID]struct{})
	var runIDs []primitive.ObjectID
	for _, lot := range lots {
		if lot.OriginRunID.IsZero() {
			continue
		}
		if _, ok := seen[lot.OriginRunID]; ok {
			continue
		}
		seen[lot.OriginRunID] = struct{}{}
		runIDs = append(runIDs, lot.OriginRunID)
	}
	runs, err := s.runs.ListByIDs(ctx, runIDs)
	if err != nil {
		return 0, err
	}
	return averageLoss(runs), nil
}

func averageLoss(runs []models.ProcessingRun) float64 {
	if len(runs) == 0 {
		return 0
	}
	sum := 0.0
	for _, run := range runs {
		sum += run.Loss.Percent
	}
	return models.Round2(sum / float64(len(runs)))
}

// PublishInput is the request to publish a commercial price.
type PublishInput struct {
	BaseProduct    string
	Type           models.ProductType
	CommercialName string
	// SalePricePerKG wins when set; otherwise MarginPercent derives the price
	// from the real cost; with neither, the real cost itself is published.
	SalePricePerKG *float64
	MarginPercent  *float64
}

// PublishPrice analyzes current stock, resolves the sale price and appends a
// new active PricingRecord, deactivating the prior record for the same
// (base product, type). History is never overwritten.
func (s *Service) PublishPrice(ctx context.Context, in PublishInput) (*models.PricingRecord, error) {
	baseProduct := strings.TrimSpace(in.BaseProduct)
	if baseProduct == "" {
		return nil, models.NewValidationError("produto base é obrigatório")
	}
	if in.Type != models.ProductTypeBox && in.Type != models.ProductTypeProcessed {
		return nil, models.NewValidationError(fmt.Sprintf("tipo de produto inválido: %s", in.Type))
	}

	analysis, err := s.AnalyzeStock(ctx, baseProduct, in.Type)
	if err != nil {
		return nil, err
	}

	var price float64
	switch {
	case in.SalePricePerKG != nil:
		price = *in.SalePricePerKG
	case in.MarginPercent != nil:
		price = analysis.RealCostPerKG * (1 + *in.MarginPercent/100)
	default:
		price = analysis.RealCostPerKG
	}
	if price < 0 {
		return nil, models.NewValidationError("preço de venda não pode ser negativo")
	}

	name := strings.TrimSpace(in.CommercialName)
	if name == "" {
		name = fmt.Sprintf("%s – %s", baseProduct, in.Type)
	}

	if err := s.pricing.DeactivateFor(ctx, baseProduct, in.Type); err != nil {
		return nil, err
	}

	var margin *float64
	if in.MarginPercent != nil {
		rounded := models.Round2(*in.MarginPercent)
		margin = &rounded
	}
	now := time.Now().UTC()
	record := &models.PricingRecord{
		BaseProduct:    baseProduct,
		Type:           in.Type,
		CommercialName: name,
		SalePricePerKG: models.Round2(price),
		MarginPercent:  margin,
		RealCostPerKG:  analysis.RealCostPerKG,
		AvgCostPerKG:   analysis.AvgCostPerKG,
		AvgLossPercent: analysis.AvgLossPercent,
		StockKG:        analysis.StockKG,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.pricing.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("price published",
		zap.String("base_product", baseProduct),
		zap.String("type", string(in.Type)),
		zap.Float64("price_per_kg", record.SalePricePerKG),
		zap.String("margin_class", string(models.ClassifyMargin(record.RealCostPerKG, record.SalePricePerKG))))
	return record, nil
}

// ActivePrice returns the active sale price per kg for (baseProduct, type),
// or nil when no price has been published.
func (s *Service) ActivePrice(ctx context.Context, baseProduct string, productType models.ProductType) (*float64, error) {
	record, err := s.pricing.ActiveFor(ctx, baseProduct, productType)
	if err != nil || record == nil {
		return nil, err
	}
	price := record.SalePricePerKG
	return &price, nil
}

// ListActive returns the active price table.
func (s *Service) ListActive(ctx context.Context) ([]models.PricingRecord, error) {
	return s.pricing.ListActive(ctx)
}

// ListBaseProducts lists the distinct sellable products of one type, sorted
// case-insensitively for the pricing screens.
func (s *Service) ListBaseProducts(ctx context.Context, productType models.ProductType) ([]string, error) {
	var names []string
	var err error
	switch productType {
	case models.ProductTypeBox:
		names, err = s.boxes.DistinctBaseProducts(ctx)
	case models.ProductTypeProcessed:
		names, err = s.derived.DistinctProducts(ctx)
	default:
		return nil, models.NewValidationError(fmt.Sprintf("tipo de produto inválido: %s", productType))
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})
	return names, nil
}

package sales

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// BoxRepository is the slice of box persistence the sales engine mutates.
type BoxRepository interface {
	GetByID(ctx context.Context, id string) (*models.Box, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.BoxStatus) error
}

// DerivedRepository is the slice of derived-product persistence the engine mutates.
type DerivedRepository interface {
	GetByID(ctx context.Context, id string) (*models.DerivedProduct, error)
	SetAvailableKG(ctx context.Context, id primitive.ObjectID, kg float64) error
}

// SettingsRepository resolves the global default profit split.
type SettingsRepository interface {
	DefaultSplit(ctx context.Context) (models.ProfitSplit, error)
}

// BoxSaleRepository persists box sales.
type BoxSaleRepository interface {
	Insert(ctx context.Context, sale *models.BoxSale) error
	List(ctx context.Context) ([]models.BoxSale, error)
	GetByID(ctx context.Context, id string) (*models.BoxSale, error)
}

// DerivedSaleRepository persists derived-product sales.
type DerivedSaleRepository interface {
	Insert(ctx context.Context, sale *models.DerivedSale) error
	List(ctx context.Context) ([]models.DerivedSale, error)
	GetByID(ctx context.Context, id string) (*models.DerivedSale, error)
}

// BoxSaleItemInput references one box in a sale request. The claimed weight
// and costs come from the operator's screen and are reconciled server-side.
type BoxSaleItemInput struct {
	BoxID          string
	BoxCode        string
	BaseProduct    string
	KG             float64
	CostPerKG      float64
	SalePricePerKG float64
}

// DerivedSaleItemInput references a derived-product quantity in a sale request.
type DerivedSaleItemInput struct {
	ProductID      string
	Product        string
	KG             float64
	SalePricePerKG float64
}

// Service is the sales engine. Box sales consume whole boxes; derived sales
// consume weight from derived-product lots. Both compute cost, revenue,
// profit and the cliente/sócio split.
type Service struct {
	boxes        BoxRepository
	derived      DerivedRepository
	settings     SettingsRepository
	boxSales     BoxSaleRepository
	derivedSales DerivedSaleRepository
	logger       *zap.Logger
}

// NewService wires the sales engine.
func NewService(boxes BoxRepository, derived DerivedRepository, settings SettingsRepository, boxSales BoxSaleRepository, derivedSales DerivedSaleRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		boxes:        boxes,
		derived:      derived,
		settings:     settings,
		boxSales:     boxSales,
		derivedSales: derivedSales,
		logger:       logger,
	}
}

// CreateBoxSale registers a whole-box sale. Boxes must be in stock; when the
// claimed weight differs from the box's actual current weight by more than the
// mass epsilon the actual weight silently wins (the box is the system of
// record, the client screen may be stale). Sold boxes flip to VENDIDA with
// their weight untouched.
func (s *Service) CreateBoxSale(ctx context.Context, date time.Time, kind models.SaleKind, items []BoxSaleItemInput, saleSplit *models.ProfitSplit) (*models.BoxSale, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewValidationError("a venda deve ter ao menos uma caixa")
	}

	type validatedItem struct {
		boxID primitive.ObjectID
		item  models.BoxSaleItem
	}
	var validated []validatedItem
	for _, in := range items {
		if in.BoxID == "" || in.KG <= 0 {
			continue
		}
		box, err := s.boxes.GetByID(ctx, in.BoxID)
		if err != nil {
			return nil, err
		}
		if box == nil {
			return nil, models.NewValidationError(fmt.Sprintf("caixa não encontrada: %s", in.BoxID))
		}
		if box.Status != models.BoxStatusInStock {
			label := in.BoxCode
			if label == "" {
				label = in.BoxID
			}
			return nil, models.NewValidationError(fmt.Sprintf(
				"caixa %s não está disponível (status: %s)", label, box.Status))
		}
		kg := in.KG
		if math.Abs(kg-box.CurrentKG) > models.MassEpsilon {
			kg = box.CurrentKG
		}
		itemCost := models.Round2(in.CostPerKG * kg)
		itemRevenue := models.Round2(in.SalePricePerKG * kg)
		code := strings.TrimSpace(in.BoxCode)
		if code == "" {
			code = box.Code
		}
		baseProduct := strings.TrimSpace(in.BaseProduct)
		if baseProduct == "" {
			baseProduct = box.BaseProduct
		}
		validated = append(validated, validatedItem{
			boxID: box.ID,
			item: models.BoxSaleItem{
				BoxID:          in.BoxID,
				BoxCode:        code,
				BaseProduct:    baseProduct,
				KG:             models.Round3(kg),
				CostPerKG:      models.Round2(in.CostPerKG),
				SalePricePerKG: models.Round2(in.SalePricePerKG),
				ItemCost:       itemCost,
				ItemRevenue:    itemRevenue,
				ItemProfit:     models.Round2(itemRevenue - itemCost),
			},
		})
	}
	if len(validated) == 0 {
		return nil, models.NewValidationError("nenhum item válido na venda")
	}

	var revenue, cost float64
	saleItems := make([]models.BoxSaleItem, 0, len(validated))
	for _, v := range validated {
		revenue += v.item.ItemRevenue
		cost += v.item.ItemCost
		saleItems = append(saleItems, v.item)
	}
	profit := models.Round2(revenue - cost)

	split, err := s.resolveSplit(ctx, saleSplit, nil)
	if err != nil {
		return nil, err
	}

	sale := &models.BoxSale{
		Date:      models.DateOnly(date),
		Kind:      kind,
		Items:     saleItems,
		Summary:   models.SaleSummary{Revenue: models.Round2(revenue), Cost: models.Round2(cost), Profit: profit},
		Split:     models.SplitProfit(profit, split),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.boxSales.Insert(ctx, sale); err != nil {
		return nil, err
	}

	for _, v := range validated {
		if err := s.boxes.SetStatus(ctx, v.boxID, models.BoxStatusSold); err != nil {
			s.logger.Error("failed flipping sold box status",
				zap.String("box_id", v.boxID.Hex()), zap.Error(err))
		}
	}

	s.logger.Info("box sale recorded",
		zap.String("sale_id", sale.ID.Hex()),
		zap.Int("items", len(sale.Items)),
		zap.Float64("revenue", sale.Summary.Revenue))
	return sale, nil
}

// CreateDerivedSale registers a derived-product sale. Unlike box sales, an
// over-claimed weight is a hard reject: selling more than a lot's available
// weight is an operator error that must surface, not be reconciled away.
func (s *Service) CreateDerivedSale(ctx context.Context, date time.Time, kind models.SaleKind, items []DerivedSaleItemInput, saleSplit *models.ProfitSplit) (*models.DerivedSale, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewValidationError("a venda deve ter ao menos um item")
	}

	type validatedItem struct {
		productID    primitive.ObjectID
		newAvailable float64
		productSplit *models.ProfitSplit
		item         models.DerivedSaleItem
	}
	var validated []validatedItem
	for _, in := range items {
		if in.ProductID == "" || in.KG <= 0 {
			continue
		}
		product, err := s.derived.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, models.NewValidationError(fmt.Sprintf("produto derivado não encontrado: %s", in.ProductID))
		}
		if in.KG > product.AvailableKG {
			return nil, models.NewValidationError(fmt.Sprintf(
				"peso vendido (%.3f kg) excede o disponível (%.3f kg) para '%s'",
				in.KG, product.AvailableKG, product.Product))
		}
		itemCost := models.Round2(product.CostPerKG * in.KG)
		itemRevenue := models.Round2(in.SalePricePerKG * in.KG)
		name := strings.TrimSpace(in.Product)
		if name == "" {
			name = product.Product
		}
		newAvailable := models.Round3(product.AvailableKG - in.KG)
		if newAvailable < 0 {
			newAvailable = 0
		}
		validated = append(validated, validatedItem{
			productID:    product.ID,
			newAvailable: newAvailable,
			productSplit: product.Split,
			item: models.DerivedSaleItem{
				ProductID:      in.ProductID,
				Product:        name,
				KG:             models.Round3(in.KG),
				SalePricePerKG: models.Round2(in.SalePricePerKG),
				ItemRevenue:    itemRevenue,
				ItemCost:       itemCost,
				ItemProfit:     models.Round2(itemRevenue - itemCost),
			},
		})
	}
	if len(validated) == 0 {
		return nil, models.NewValidationError("nenhum item válido na venda")
	}

	var revenue, cost float64
	saleItems := make([]models.DerivedSaleItem, 0, len(validated))
	for _, v := range validated {
		revenue += v.item.ItemRevenue
		cost += v.item.ItemCost
		saleItems = append(saleItems, v.item)
	}
	profit := models.Round2(revenue - cost)

	split, err := s.resolveSplit(ctx, saleSplit, validated[0].productSplit)
	if err != nil {
		return nil, err
	}

	sale := &models.DerivedSale{
		Date:      models.DateOnly(date),
		Kind:      kind,
		Items:     saleItems,
		Summary:   models.SaleSummary{Revenue: models.Round2(revenue), Cost: models.Round2(cost), Profit: profit},
		Split:     models.SplitProfit(profit, split),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.derivedSales.Insert(ctx, sale); err != nil {
		return nil, err
	}

	for _, v := range validated {
		if err := s.derived.SetAvailableKG(ctx, v.productID, v.newAvailable); err != nil {
			s.logger.Error("failed reducing derived product weight",
				zap.String("product_id", v.productID.Hex()), zap.Error(err))
		}
	}

	s.logger.Info("derived sale recorded",
		zap.String("sale_id", sale.ID.Hex()),
		zap.Int("items", len(sale.Items)),
		zap.Float64("revenue", sale.Summary.Revenue))
	return sale, nil
}

// resolveSplit picks the effective profit split: explicit per-sale split, then
// the (derived-sale only) per-product inherited split, then the configured
// default.
func (s *Service) resolveSplit(ctx context.Context, saleSplit, productSplit *models.ProfitSplit) (models.ProfitSplit, error) {
	if saleSplit != nil {
		return *saleSplit, nil
	}
	if productSplit != nil {
		return *productSplit, nil
	}
	return s.settings.DefaultSplit(ctx)
}

// ListBoxSales returns box sales, newest first.
func (s *Service) ListBoxSales(ctx context.Context) ([]models.BoxSale, error) {
	return s.boxSales.List(ctx)
}

// GetBoxSale returns one box sale, or nil when the id does not resolve.
func (s *Service) GetBoxSale(ctx context.Context, id string) (*models.BoxSale, error) {
	return s.boxSales.GetByID(ctx, id)
}

// ListDerivedSales returns derived-product sales, newest first.
func (s *Service) ListDerivedSales(ctx context.Context) ([]models.DerivedSale, error) {
	return s.derivedSales.List(ctx)
}

// GetDerivedSale returns one derived sale, or nil when the id does not resolve.
func (s *Service) GetDerivedSale(ctx context.Context, id string) (*models.DerivedSale, error) {
	return s.derivedSales.GetByID(ctx, id)
}

func validateKind(kind models.SaleKind) error {
	if kind != models.SaleKindOwn && kind != models.SaleKindPartnership {
		return models.NewValidationError("tipo_venda deve ser PROPRIA ou PARCERIA")
	}
	return nil
}

package processing

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

// BoxRepository is the slice of box persistence the engine mutates.
type BoxRepository interface {
	GetByID(ctx context.Context, id string) (*models.Box, error)
	SetWeightAndStatus(ctx context.Context, id primitive.ObjectID, weightKG float64, status models.BoxStatus) error
}

// RunRepository persists processing runs.
type RunRepository interface {
	Insert(ctx context.Context, run *models.ProcessingRun) error
	List(ctx context.Context) ([]models.ProcessingRun, error)
	GetByID(ctx context.Context, id string) (*models.ProcessingRun, error)
}

// DerivedRepository receives the lots produced by a run and serves their
// stock views.
type DerivedRepository interface {
	Insert(ctx context.Context, product *models.DerivedProduct) error
	ListAvailable(ctx context.Context, product string) ([]models.DerivedProduct, error)
	GetByID(ctx context.Context, id string) (*models.DerivedProduct, error)
}

// OriginBoxInput selects one box and the weight to consume from it.
type OriginBoxInput struct {
	BoxID       string
	BaseProduct string
	UsedKG      float64
}

// ProducedInput declares one product generated by the run, with an optional
// profit-split override inherited by the resulting lot.
type ProducedInput struct {
	Product string
	KG      float64
	Split   *models.ProfitSplit
}

// CreateRunInput is the request to record a processing run.
type CreateRunInput struct {
	Date     time.Time
	Origin   []OriginBoxInput
	Produced []ProducedInput
	LossKG   float64
	Notes    string
}

// Service is the processing engine: it consumes weight from in-stock boxes and
// produces derived-product lots, enforcing mass and cost conservation.
type Service struct {
	boxes   BoxRepository
	runs    RunRepository
	derived DerivedRepository
	logger  *zap.Logger
}

// NewService wires the processing engine.
func NewService(boxes BoxRepository, runs RunRepository, derived DerivedRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{boxes: boxes, runs: runs, derived: derived, logger: logger}
}

// CreateRun validates and records a processing run, decrementing each consumed
// box's weight. The mass balance origin == produced + loss is checked twice:
// once against the caller-declared origin weight and again against the
// recomputed weight of the validated boxes, so stale or tampered input cannot
// slip an imbalance through. No state changes when any check fails.
func (s *Service) CreateRun(ctx context.Context, in CreateRunInput) (*models.ProcessingRun, error) {
	if len(in.Origin) == 0 {
		return nil, models.NewValidationError("selecione ao menos uma caixa de origem")
	}
	if len(in.Produced) == 0 {
		return nil, models.NewValidationError("informe ao menos um produto gerado")
	}
	if in.LossKG < 0 {
		return nil, models.NewValidationError("perda não pode ser negativa")
	}
	lossKG := models.Round3(in.LossKG)

	declaredOriginKG := 0.0
	for _, origin := range in.Origin {
		declaredOriginKG += origin.UsedKG
	}
	producedKG := 0.0
	for _, produced := range in.Produced {
		producedKG += produced.KG
	}
	if err := checkBalance(declaredOriginKG, producedKG, lossKG); err != nil {
		return nil, err
	}

	type validatedBox struct {
		box    *models.Box
		line   models.OriginBoxLine
		usedKG float64
	}
	var validated []validatedBox
	for _, origin := range in.Origin {
		if origin.BoxID == "" || origin.UsedKG <= 0 {
			continue
		}
		box, err := s.boxes.GetByID(ctx, origin.BoxID)
		if err != nil {
			return nil, err
		}
		if box == nil {
			return nil, models.NewValidationError(fmt.Sprintf("caixa não encontrada: %s", origin.BoxID))
		}
		if box.Status != models.BoxStatusInStock {
			return nil, models.NewValidationError(fmt.Sprintf("caixa %s não está disponível para processamento", box.Code))
		}
		if box.CurrentKG <= 0 {
			return nil, models.NewValidationError(fmt.Sprintf("caixa %s não possui peso disponível", box.Code))
		}
		if origin.UsedKG > box.CurrentKG {
			return nil, models.NewValidationError(fmt.Sprintf(
				"peso utilizado (%.3f kg) não pode exceder o peso atual da caixa %s (%.3f kg)",
				origin.UsedKG, box.Code, box.CurrentKG))
		}
		baseProduct := strings.TrimSpace(origin.BaseProduct)
		if baseProduct == "" {
			baseProduct = box.BaseProduct
		}
		validated = append(validated, validatedBox{
			box: box,
			line: models.OriginBoxLine{
				BoxID:       origin.BoxID,
				BaseProduct: baseProduct,
				UsedKG:      models.Round3(origin.UsedKG),
			},
			usedKG: models.Round3(origin.UsedKG),
		})
	}
	if len(validated) == 0 {
		return nil, models.NewValidationError("nenhuma caixa válida para processamento")
	}

	totalOriginKG := 0.0
	for _, v := range validated {
		totalOriginKG += v.usedKG
	}
	if err := checkBalance(totalOriginKG, producedKG, lossKG); err != nil {
		return nil, err
	}

	lossPercent := 0.0
	if totalOriginKG > 0 {
		lossPercent = models.Round2(lossKG / totalOriginKG * 100)
	}

	run := &models.ProcessingRun{
		Date:          models.DateOnly(in.Date),
		TotalOriginKG: models.Round3(totalOriginKG),
		Loss:          models.ProcessingLoss{KG: lossKG, Percent: lossPercent},
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     time.Now().UTC(),
	}
	for _, v := range validated {
		run.OriginBoxes = append(run.OriginBoxes, v.line)
	}
	for _, produced := range in.Produced {
		product := strings.TrimSpace(produced.Product)
		if product == "" {
			continue
		}
		run.Produced = append(run.Produced, models.ProducedLine{
			Product: product,
			KG:      models.Round3(produced.KG),
		})
	}

	if err := s.runs.Insert(ctx, run); err != nil {
		return nil, err
	}

	for _, v := range validated {
		newWeight := models.Round3(v.box.CurrentKG - v.usedKG)
		status := models.BoxStatusInStock
		if newWeight <= 0 {
			newWeight = 0
			status = models.BoxStatusFinished
		}
		if err := s.boxes.SetWeightAndStatus(ctx, v.box.ID, newWeight, status); err != nil {
			return nil, err
		}
	}

	s.logger.Info("processing run recorded",
		zap.String("run_id", run.ID.Hex()),
		zap.Float64("origin_kg", run.TotalOriginKG),
		zap.Float64("loss_kg", run.Loss.KG),
		zap.Int("boxes", len(run.OriginBoxes)),
		zap.Int("products", len(run.Produced)))
	return run, nil
}

// RegisterDerived allocates the run's origin cost across its produced lots by
// mass and creates the DerivedProduct documents. Loss carries no cost of its
// own: it is absorbed proportionally by the surviving products, which
// understates unit cost when loss is abnormally high.
func (s *Service) RegisterDerived(ctx context.Context, run *models.ProcessingRun, splits map[string]*models.ProfitSplit) error {
	if run == nil || len(run.Produced) == 0 || run.TotalOriginKG <= 0 {
		return nil
	}

	totalOriginCost := 0.0
	for _, line := range run.OriginBoxes {
		box, err := s.boxes.GetByID(ctx, line.BoxID)
		if err != nil {
			return err
		}
		if box == nil {
			continue
		}
		totalOriginCost += line.UsedKG * box.CostPerKG
	}

	now := time.Now().UTC()
	for _, line := range run.Produced {
		if line.Product == "" || line.KG <= 0 {
			continue
		}
		proportion := line.KG / run.TotalOriginKG
		totalCost := models.Round2(totalOriginCost * proportion)
		costPerKG := models.Round2(totalCost / line.KG)
		product := &models.DerivedProduct{
			Product:     line.Product,
			AvailableKG: models.Round3(line.KG),
			TotalCost:   totalCost,
			CostPerKG:   costPerKG,
			Split:       splits[line.Product],
			OriginRunID: run.ID,
			CreatedAt:   now,
		}
		if err := s.derived.Insert(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// ListRuns returns all processing runs, newest first.
func (s *Service) ListRuns(ctx context.Context) ([]models.ProcessingRun, error) {
	return s.runs.List(ctx)
}

// GetRun returns one run, or nil when the id does not resolve.
func (s *Service) GetRun(ctx context.Context, id string) (*models.ProcessingRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListDerived returns derived-product lots with stock left, optionally
// filtered by product name substring.
func (s *Service) ListDerived(ctx context.Context, product string) ([]models.DerivedProduct, error) {
	return s.derived.ListAvailable(ctx, strings.TrimSpace(product))
}

// GetDerived returns one lot, or nil when the id does not resolve.
func (s *Service) GetDerived(ctx context.Context, id string) (*models.DerivedProduct, error) {
	return s.derived.GetByID(ctx, id)
}

func checkBalance(originKG, producedKG, lossKG float64) error {
	if math.Abs(originKG-(producedKG+lossKG)) > models.MassEpsilon {
		return models.NewValidationError(fmt.Sprintf(
			"peso total de origem (%.2f kg) deve ser igual à soma dos produtos gerados (%.2f kg) + perda (%.2f kg)",
			originKG, producedKG, lossKG))
	}
	return nil
}

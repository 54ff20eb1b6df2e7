package processing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

type fakeBoxRepo struct {
	boxes map[string]*models.Box
}

func newFakeBoxRepo(boxes ...*models.Box) *fakeBoxRepo {
	repo := &fakeBoxRepo{boxes: map[string]*models.Box{}}
	for _, box := range boxes {
		repo.boxes[box.ID.Hex()] = box
	}
	return repo
}

func (f *fakeBoxRepo) GetByID(_ context.Context, id string) (*models.Box, error) {
	box, ok := f.boxes[id]
	if !ok {
		return nil, nil
	}
	copied := *box
	return &copied, nil
}

func (f *fakeBoxRepo) SetWeightAndStatus(_ context.Context, id primitive.ObjectID, weightKG float64, status models.BoxStatus) error {
	box := f.boxes[id.Hex()]
	box.CurrentKG = weightKG
	box.Status = status
	return nil
}

type fakeRunRepo struct {
	runs []*models.ProcessingRun
}

func (f *fakeRunRepo) Insert(_ context.Context, run *models.ProcessingRun) error {
	run.ID = primitive.NewObjectID()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) List(_ context.Context) ([]models.ProcessingRun, error) {
	out := make([]models.ProcessingRun, 0, len(f.runs))
	for _, run := range f.runs {
		out = append(out, *run)
	}
	return out, nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (*models.ProcessingRun, error) {
	for _, run := range f.runs {
		if run.ID.Hex() == id {
			copied := *run
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeDerivedRepo struct {
	products []*models.DerivedProduct
}

func (f *fakeDerivedRepo) Insert(_ context.Context, product *models.DerivedProduct) error {
	product.ID = primitive.NewObjectID()
	f.products = append(f.products, product)
	return nil
}

func (f *fakeDerivedRepo) ListAvailable(_ context.Context, name string) ([]models.DerivedProduct, error) {
	var out []models.DerivedProduct
	for _, product := range f.products {
		if product.AvailableKG > 0 {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (f *fakeDerivedRepo) GetByID(_ context.Context, id string) (*models.DerivedProduct, error) {
	for _, product := range f.products {
		if product.ID.Hex() == id {
			copied := *product
			return &copied, nil
		}
	}
	return nil, nil
}

func inStockBox(kg, costPerKG float64, code string) *models.Box {
	return &models.Box{
		ID:          primitive.NewObjectID(),
		BaseProduct: "FILE",
		Code:        code,
		InitialKG:   kg,
		CurrentKG:   kg,
		CostPerKG:   costPerKG,
		Status:      models.BoxStatusInStock,
	}
}

func TestCreateRunRejectsMassImbalance(t *testing.T) {
	box := inStockBox(20, 5, "CX-0001")
	boxes := newFakeBoxRepo(box)
	runs := &fakeRunRepo{}
	svc := NewService(boxes, runs, &fakeDerivedRepo{}, nil)

	_, err := svc.CreateRun(context.Background(), CreateRunInput{
		Date:     time.Now(),
		Origin:   []OriginBoxInput{{BoxID: box.ID.Hex(), UsedKG: 10}},
		Produced: []ProducedInput{{Product: "Cubos", KG: 8}},
		LossKG:   1, // 8 + 1 != 10
	})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, runs.runs)
	assert.Equal(t, 20.0, boxes.boxes[box.ID.Hex()].CurrentKG)
}

func TestCreateRunRejectsRecomputedImbalance(t *testing.T) {
	// The declared origin balances, but one line is dropped during validation
	// (empty box id), so the recomputed origin no longer matches.
	box := inStockBox(20, 5, "CX-0001")
	boxes := newFakeBoxRepo(box)
	runs := &fakeRunRepo{}
	svc := NewService(boxes, runs, &fakeDerivedRepo{}, nil)

	_, err := svc.CreateRun(context.Background(), CreateRunInput{
		Date: time.Now(),
		Origin: []OriginBoxInput{
			{BoxID: box.ID.Hex(), UsedKG: 6},
			{BoxID: "", UsedKG: 4},
		},
		Produced: []ProducedInput{{Product: "Cubos", KG: 9}},
		LossKG:   1,
	})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, runs.runs)
}

func TestCreateRunRejectsOverdraw(t *testing.T) {
	box := inStockBox(5, 5, "CX-0001")
	svc := NewService(newFakeBoxRepo(box), &fakeRunRepo{}, &fakeDerivedRepo{}, nil)

	_, err := svc.CreateRun(context.Background(), CreateRunInput{
		Date:     time.Now(),
		Origin:   []OriginBoxInput{{BoxID: box.ID.Hex(), UsedKG: 8}},
		Produced: []ProducedInput{{Product: "Cubos", KG: 7}},
		LossKG:   1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CX-0001")
}

func TestCreateRunDecrementsBoxes(t *testing.T) {
	partial := inStockBox(20, 5, "CX-0001")
	emptied := inStockBox(10, 4, "CX-0002")
	boxes := newFakeBoxRepo(partial, emptied)
	runs := &fakeRunRepo{}
	svc := NewService(boxes, runs, &fakeDerivedRepo{}, nil)

	run, err := svc.CreateRun(context.Background(), CreateRunInput{
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Origin: []OriginBoxInput{
			{BoxID: partial.ID.Hex(), UsedKG: 10},
			{BoxID: emptied.ID.Hex(), UsedKG: 10},
		},
		Produced: []ProducedInput{{Product: "Cubos", KG: 15}},
		LossKG:   5,
	})
	require.NoError(t, err)
	require.Len(t, runs.runs, 1)

	assert.Equal(t, 20.0, run.TotalOriginKG)
	assert.Equal(t, 5.0, run.Loss.KG)
	assert.Equal(t, 25.0, run.Loss.Percent)

	assert.Equal(t, 10.0, boxes.boxes[partial.ID.Hex()].CurrentKG)
	assert.Equal(t, models.BoxStatusInStock, boxes.boxes[partial.ID.Hex()].Status)

	assert.Equal(t, 0.0, boxes.boxes[emptied.ID.Hex()].CurrentKG)
	assert.Equal(t, models.BoxStatusFinished, boxes.boxes[emptied.ID.Hex()].Status)
}

func TestRegisterDerivedAllocatesCostByMass(t *testing.T) {
	box := inStockBox(20, 5, "CX-0001")
	boxes := newFakeBoxRepo(box)
	derived := &fakeDerivedRepo{}
	svc := NewService(boxes, &fakeRunRepo{}, derived, nil)

	run := &models.ProcessingRun{
		ID:            primitive.NewObjectID(),
		TotalOriginKG: 10,
		OriginBoxes:   []models.OriginBoxLine{{BoxID: box.ID.Hex(), BaseProduct: "FILE", UsedKG: 10}},
		Produced: []models.ProducedLine{
			{Product: "Cubos", KG: 6},
			{Product: "Tiras", KG: 3},
		},
		Loss: models.ProcessingLoss{KG: 1, Percent: 10},
	}
	split := &models.ProfitSplit{ClientPercent: 60, PartnerPercent: 40}
	err := svc.RegisterDerived(context.Background(), run, map[string]*models.ProfitSplit{"Cubos": split})
	require.NoError(t, err)
	require.Len(t, derived.products, 2)

	// Total origin cost is 10kg x 5 = 50; loss carries no cost of its own.
	cubos := derived.products[0]
	assert.Equal(t, "Cubos", cubos.Product)
	assert.Equal(t, 6.0, cubos.AvailableKG)
	assert.Equal(t, 30.0, cubos.TotalCost)
	assert.Equal(t, 5.0, cubos.CostPerKG)
	assert.Equal(t, split, cubos.Split)
	assert.Equal(t, run.ID, cubos.OriginRunID)

	tiras := derived.products[1]
	assert.Equal(t, 15.0, tiras.TotalCost)
	assert.Equal(t, 5.0, tiras.CostPerKG)
	assert.Nil(t, tiras.Split)
}

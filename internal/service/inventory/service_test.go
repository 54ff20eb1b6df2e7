package inventory

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
	boxes []*models.Box
}

func (f *fakeBoxRepo) Insert(_ context.Context, box *models.Box) error {
	box.ID = primitive.NewObjectID()
	f.boxes = append(f.boxes, box)
	return nil
}

func (f *fakeBoxRepo) List(_ context.Context, filter models.BoxFilter) ([]models.Box, error) {
	out := make([]models.Box, 0, len(f.boxes))
	for _, box := range f.boxes {
		out = append(out, *box)
	}
	return out, nil
}

func (f *fakeBoxRepo) GetByID(_ context.Context, id string) (*models.Box, error) {
	for _, box := range f.boxes {
		if box.ID.Hex() == id {
			copied := *box
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBoxRepo) GetByCode(_ context.Context, code string, onlyInStock bool) (*models.Box, error) {
	for _, box := range f.boxes {
		if box.Code != code {
			continue
		}
		if onlyInStock && box.Status != models.BoxStatusInStock {
			continue
		}
		copied := *box
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBoxRepo) SetCode(_ context.Context, id primitive.ObjectID, code string) error {
	for _, box := range f.boxes {
		if box.ID == id {
			box.Code = code
		}
	}
	return nil
}

func (f *fakeBoxRepo) CountByEntry(_ context.Context, entryID primitive.ObjectID) (int64, error) {
	var n int64
	for _, box := range f.boxes {
		if box.EntryID == entryID {
			n++
		}
	}
	return n, nil
}

type fakeEntryRepo struct {
	entries []*models.StockEntry
}

func (f *fakeEntryRepo) Insert(_ context.Context, entry *models.StockEntry) error {
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeEntryRepo) List(_ context.Context) ([]models.StockEntry, error) {
	out := make([]models.StockEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		out = append(out, *entry)
	}
	return out, nil
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id string) (*models.StockEntry, error) {
	for _, entry := range f.entries {
		if entry.ID.Hex() == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeEntryRepo) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.StockEntry, error) {
	return f.GetByID(ctx, id.Hex())
}

type fakeSupplierRepo struct {
	suppliers map[string]*models.Supplier
}

func (f *fakeSupplierRepo) Insert(_ context.Context, supplier *models.Supplier) error {
	supplier.ID = primitive.NewObjectID()
	f.suppliers[supplier.ID.Hex()] = supplier
	return nil
}

func (f *fakeSupplierRepo) ListActive(_ context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	for _, supplier := range f.suppliers {
		if supplier.Active {
			out = append(out, *supplier)
		}
	}
	return out, nil
}

func (f *fakeSupplierRepo) GetByObjectID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	supplier, ok := f.suppliers[id.Hex()]
	if !ok {
		return nil, nil
	}
	copied := *supplier
	return &copied, nil
}

type fakePayableRepo struct {
	titles []*models.PayableTitle
}

func (f *fakePayableRepo) Insert(_ context.Context, title *models.PayableTitle) error {
	title.ID = primitive.NewObjectID()
	f.titles = append(f.titles, title)
	return nil
}

type fakeCounterRepo struct {
	n int64
}

func (f *fakeCounterRepo) Next(_ context.Context, name string) (int64, error) {
	f.n++
	return f.n, nil
}

type fixture struct {
	boxes     *fakeBoxRepo
	entries   *fakeEntryRepo
	suppliers *fakeSupplierRepo
	payables  *fakePayableRepo
	counters  *fakeCounterRepo
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		boxes:     &fakeBoxRepo{},
		entries:   &fakeEntryRepo{},
		suppliers: &fakeSupplierRepo{suppliers: map[string]*models.Supplier{}},
		payables:  &fakePayableRepo{},
		counters:  &fakeCounterRepo{},
	}
	f.svc = NewService(f.boxes, f.entries, f.suppliers, f.payables, f.counters, nil)
	return f
}

func (f *fixture) addSupplier(name string) *models.Supplier {
	supplier := &models.Supplier{ID: primitive.NewObjectID(), Name: name, Active: true}
	f.suppliers.suppliers[supplier.ID.Hex()] = supplier
	return supplier
}

var entryDate = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func TestCreateEntryFansOutBoxes(t *testing.T) {
	f := newFixture()
	supplier := f.addSupplier("Frigorífico Sul")

	entry, err := f.svc.CreateEntry(context.Background(), CreateEntryInput{
		SupplierID: supplier.ID.Hex(),
		EntryDate:  entryDate,
		TotalValue: 400,
		Products: []models.EntryProductLine{
			{BaseProduct: "FILE", QuantityBoxes: 2, KGPerBox: 20, LineTotal: 400},
		},
	})
	require.NoError(t, err)
	require.Len(t, f.boxes.boxes, 2)

	for i, box := range f.boxes.boxes {
		assert.Equal(t, entry.ID, box.EntryID)
		assert.Equal(t, "FILE", box.BaseProduct)
		assert.Equal(t, 20.0, box.InitialKG)
		assert.Equal(t, 20.0, box.CurrentKG)
		assert.Equal(t, 200.0, box.TotalCost)
		assert.Equal(t, 10.0, box.CostPerKG)
		assert.Equal(t, models.BoxStatusInStock, box.Status)
		assert.Equal(t, []string{"CX-0001", "CX-0002"}[i], box.Code)
	}
}

func TestCreateEntryCreatesPendingPayable(t *testing.T) {
	f := newFixture()
	supplier := f.addSupplier("Frigorífico Sul")
	due := time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC)

	entry, err := f.svc.CreateEntry(context.Background(), CreateEntryInput{
		SupplierID:  supplier.ID.Hex(),
		EntryDate:   entryDate,
		TotalValue:  250.5,
		PaymentDate: &due,
	})
	require.NoError(t, err)
	require.Len(t, f.payables.titles, 1)

	title := f.payables.titles[0]
	assert.Equal(t, entry.ID, title.EntryID)
	assert.Equal(t, 250.5, title.Amount)
	assert.Equal(t, models.PaymentPending, title.Status)
	require.NotNil(t, title.DueDate)
	assert.Equal(t, models.DateOnly(due), *title.DueDate)
}

func TestCreateEntryPaidHasNoDueDate(t *testing.T) {
	f := newFixture()
	supplier := f.addSupplier("Frigorífico Sul")
	paid := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.CreateEntry(context.Background(), CreateEntryInput{
		SupplierID:    supplier.ID.Hex(),
		EntryDate:     entryDate,
		TotalValue:    100,
		PaymentDate:   &paid,
		PaymentStatus: models.PaymentPaid,
	})
	require.NoError(t, err)
	require.Len(t, f.payables.titles, 1)
	assert.Nil(t, f.payables.titles[0].DueDate)
}

func TestCreateEntryRejectsBadSupplier(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateEntry(context.Background(), CreateEntryInput{
		SupplierID: "not-an-id",
		EntryDate:  entryDate,
		TotalValue: 100,
	})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, f.entries.entries)
}

func TestNextBoxCodeFormat(t *testing.T) {
	f := newFixture()
	code, err := f.svc.NextBoxCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CX-0001", code)

	f.counters.n = 41
	code, err = f.svc.NextBoxCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CX-0042", code)
}

func TestListBoxesBackfillsMissingCode(t *testing.T) {
	f := newFixture()
	legacy := &models.Box{
		ID:          primitive.NewObjectID(),
		BaseProduct: "FILE",
		InitialKG:   20,
		CurrentKG:   20,
		Status:      models.BoxStatusInStock,
	}
	f.boxes.boxes = append(f.boxes.boxes, legacy)

	boxes, err := f.svc.ListBoxes(context.Background(), models.BoxFilter{})
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "CX-0001", boxes[0].Code)
	assert.Equal(t, "CX-0001", legacy.Code) // persisted, not just decorated
}

func TestGetBoxByCodeOnlyInStock(t *testing.T) {
	f := newFixture()
	sold := &models.Box{ID: primitive.NewObjectID(), Code: "CX-0007", Status: models.BoxStatusSold}
	f.boxes.boxes = append(f.boxes.boxes, sold)

	box, err := f.svc.GetBoxByCode(context.Background(), "CX-0007", true)
	require.NoError(t, err)
	assert.Nil(t, box)

	box, err = f.svc.GetBoxByCode(context.Background(), "CX-0007", false)
	require.NoError(t, err)
	require.NotNil(t, box)
	assert.Equal(t, "CX-0007", box.Code)
}

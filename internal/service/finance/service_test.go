package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

type fakePayableRepo struct {
	titles []*models.PayableTitle
}

func (f *fakePayableRepo) ListPending(_ context.Context) ([]models.PayableTitle, error) {
	var out []models.PayableTitle
	for _, title := range f.titles {
		if title.Status == models.PaymentPending {
			out = append(out, *title)
		}
	}
	return out, nil
}

func (f *fakePayableRepo) ListPaid(_ context.Context, limit int64) ([]models.PayableTitle, error) {
	var out []models.PayableTitle
	for _, title := range f.titles {
		if title.Status == models.PaymentPaid && int64(len(out)) < limit {
			out = append(out, *title)
		}
	}
	return out, nil
}

func (f *fakePayableRepo) GetByID(_ context.Context, id string) (*models.PayableTitle, error) {
	for _, title := range f.titles {
		if title.ID.Hex() == id {
			copied := *title
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePayableRepo) RegisterPayment(_ context.Context, id string, paymentDate time.Time) (bool, error) {
	for _, title := range f.titles {
		if title.ID.Hex() == id && title.Status == models.PaymentPending {
			title.Status = models.PaymentPaid
			title.PaymentDate = &paymentDate
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayableRepo) PaidTotalBetween(_ context.Context, from, to time.Time) (float64, error) {
	total := 0.0
	for _, title := range f.titles {
		if title.Status != models.PaymentPaid || title.PaymentDate == nil {
			continue
		}
		day := models.DateOnly(*title.PaymentDate)
		if day.Before(models.DateOnly(from)) || day.After(models.DateOnly(to)) {
			continue
		}
		total += title.Amount
	}
	return total, nil
}

func (f *fakePayableRepo) PaidByDay(_ context.Context, from, to time.Time) (map[int]float64, error) {
	return map[int]float64{}, nil
}

func (f *fakePayableRepo) PaidByMonth(_ context.Context, from, to time.Time) ([]models.MonthlyTotal, error) {
	return nil, nil
}

type fakeEntryRepo struct {
	entries map[string]*models.StockEntry
}

func (f *fakeEntryRepo) GetByObjectID(_ context.Context, id primitive.ObjectID) (*models.StockEntry, error) {
	entry, ok := f.entries[id.Hex()]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*models.Supplier
}

func (f *fakeSupplierRepo) GetByObjectID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	supplier, ok := f.suppliers[id.Hex()]
	if !ok {
		return nil, nil
	}
	copied := *supplier
	return &copied, nil
}

type fakeSettingsRepo struct {
	split *models.ProfitSplit
}

func (f *fakeSettingsRepo) DefaultSplit(_ context.Context) (models.ProfitSplit, error) {
	if f.split == nil {
		return models.DefaultProfitSplit(), nil
	}
	return *f.split, nil
}

func (f *fakeSettingsRepo) SaveDefaultSplit(_ context.Context, split models.ProfitSplit) error {
	f.split = &split
	return nil
}

type fixture struct {
	payables  *fakePayableRepo
	entries   *fakeEntryRepo
	suppliers *fakeSupplierRepo
	settings  *fakeSettingsRepo
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		payables:  &fakePayableRepo{},
		entries:   &fakeEntryRepo{entries: map[string]*models.StockEntry{}},
		suppliers: &fakeSupplierRepo{suppliers: map[string]*models.Supplier{}},
		settings:  &fakeSettingsRepo{},
	}
	f.svc = NewService(f.payables, f.entries, f.suppliers, f.settings, nil)
	return f
}

var paymentDay = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestPayPayable(t *testing.T) {
	f := newFixture()
	title := &models.PayableTitle{
		ID:     primitive.NewObjectID(),
		Amount: 250.5,
		Status: models.PaymentPending,
	}
	f.payables.titles = append(f.payables.titles, title)

	_, err := f.svc.PayPayable(context.Background(), title.ID.Hex(), time.Time{})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	ok, err := f.svc.PayPayable(context.Background(), title.ID.Hex(), paymentDay)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.PaymentPaid, title.Status)

	ok, err = f.svc.PayPayable(context.Background(), title.ID.Hex(), paymentDay)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListPendingEnrichesSupplierData(t *testing.T) {
	f := newFixture()
	supplier := &models.Supplier{ID: primitive.NewObjectID(), Name: "Frigorífico Sul", Active: true}
	f.suppliers.suppliers[supplier.ID.Hex()] = supplier
	entry := &models.StockEntry{
		ID:         primitive.NewObjectID(),
		SupplierID: supplier.ID,
		EntryDate:  paymentDay,
		Invoice:    models.EntryInvoice{Number: "NF-123"},
	}
	f.entries.entries[entry.ID.Hex()] = entry
	f.payables.titles = append(f.payables.titles, &models.PayableTitle{
		ID:      primitive.NewObjectID(),
		EntryID: entry.ID,
		Amount:  400,
		Status:  models.PaymentPending,
	})

	titles, err := f.svc.ListPendingPayables(context.Background())
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "Frigorífico Sul", titles[0].SupplierName)
	assert.Equal(t, "NF-123", titles[0].InvoiceNumber)
	require.NotNil(t, titles[0].EntryDate)
	assert.Equal(t, paymentDay, *titles[0].EntryDate)
}

func TestPaidToday(t *testing.T) {
	f := newFixture()
	today := paymentDay
	yesterday := today.AddDate(0, 0, -1)
	f.payables.titles = []*models.PayableTitle{
		{ID: primitive.NewObjectID(), Amount: 100, Status: models.PaymentPaid, PaymentDate: &today},
		{ID: primitive.NewObjectID(), Amount: 50, Status: models.PaymentPaid, PaymentDate: &yesterday},
		{ID: primitive.NewObjectID(), Amount: 30, Status: models.PaymentPending},
	}

	total, err := f.svc.PaidToday(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
}

func TestSaveDefaultSplit(t *testing.T) {
	f := newFixture()

	err := f.svc.SaveDefaultSplit(context.Background(), models.ProfitSplit{ClientPercent: 60, PartnerPercent: 30})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	err = f.svc.SaveDefaultSplit(context.Background(), models.ProfitSplit{ClientPercent: -10, PartnerPercent: 110})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	err = f.svc.SaveDefaultSplit(context.Background(), models.ProfitSplit{ClientPercent: 80, PartnerPercent: 20})
	require.NoError(t, err)

	split, err := f.svc.DefaultSplit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, split.ClientPercent)
	assert.Equal(t, 20, split.PartnerPercent)
}

func TestDefaultSplitFallback(t *testing.T) {
	f := newFixture()
	split, err := f.svc.DefaultSplit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 70, split.ClientPercent)
	assert.Equal(t, 30, split.PartnerPercent)
}

func TestListPaidPayablesDefaultLimit(t *testing.T) {
	f := newFixture()
	for i := 0; i < 60; i++ {
		f.payables.titles = append(f.payables.titles, &models.PayableTitle{
			ID:          primitive.NewObjectID(),
			Amount:      10,
			Status:      models.PaymentPaid,
			PaymentDate: &paymentDay,
		})
	}

	titles, err := f.svc.ListPaidPayables(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, titles, 50)
}

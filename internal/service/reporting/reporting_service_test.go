package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

type fakeBoxSaleRepo struct {
	sales []models.BoxSale
}

func (f *fakeBoxSaleRepo) List(_ context.Context) ([]models.BoxSale, error) {
	return f.sales, nil
}

type fakeDerivedSaleRepo struct {
	sales []models.DerivedSale
}

func (f *fakeDerivedSaleRepo) List(_ context.Context) ([]models.DerivedSale, error) {
	return f.sales, nil
}

type fakeTotalRepo struct {
	total float64
}

func (f *fakeTotalRepo) PaidTotalBetween(_ context.Context, from, to time.Time) (float64, error) {
	return f.total, nil
}

type fakeSheets struct {
	rows [][]interface{}
}

func (f *fakeSheets) AppendRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.rows = append(f.rows, values)
	return nil
}

type fakeDeliveryLister struct {
	deliveries []models.DeliveryRecord
}

func (f *fakeDeliveryLister) ListDeliveries(_ context.Context, from, to time.Time) ([]models.DeliveryRecord, error) {
	return f.deliveries, nil
}

var (
	weekStart = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	weekEnd   = weekStart.AddDate(0, 0, 6)
)

func boxSaleOn(date time.Time, revenue, cost float64) models.BoxSale {
	return models.BoxSale{
		Date: models.DateOnly(date),
		Summary: models.SaleSummary{
			Revenue: revenue,
			Cost:    cost,
			Profit:  models.Round2(revenue - cost),
		},
	}
}

func TestSummarizeFiltersByDate(t *testing.T) {
	boxSales := &fakeBoxSaleRepo{sales: []models.BoxSale{
		boxSaleOn(weekStart, 100, 60),
		boxSaleOn(weekStart.AddDate(0, 0, 3), 50, 20),
		boxSaleOn(weekStart.AddDate(0, 0, -1), 999, 999), // before window
		boxSaleOn(weekEnd.AddDate(0, 0, 1), 999, 999),    // after window
	}}
	derivedSales := &fakeDerivedSaleRepo{sales: []models.DerivedSale{
		{
			Date:    models.DateOnly(weekStart.AddDate(0, 0, 1)),
			Summary: models.SaleSummary{Revenue: 30, Cost: 10, Profit: 20},
		},
	}}
	svc := NewService(boxSales, derivedSales, &fakeTotalRepo{total: 200}, &fakeTotalRepo{total: 80}, nil, nil)

	summary, err := svc.Summarize(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)

	assert.Equal(t, 180.0, summary.SalesRevenue)
	assert.Equal(t, 90.0, summary.SalesCost)
	assert.Equal(t, 90.0, summary.SalesProfit)
	assert.Equal(t, 3, summary.SalesCount)
	assert.Equal(t, 200.0, summary.Received)
	assert.Equal(t, 80.0, summary.Paid)
}

func TestExportSummary(t *testing.T) {
	sheets := &fakeSheets{}
	svc := NewService(&fakeBoxSaleRepo{}, &fakeDerivedSaleRepo{}, &fakeTotalRepo{}, &fakeTotalRepo{}, sheets, nil)

	summary := FinancialSummary{
		From:         weekStart,
		To:           weekEnd,
		SalesRevenue: 180,
		SalesCost:    90,
		SalesProfit:  90,
		SalesCount:   3,
		Received:     200,
		Paid:         80,
	}
	require.NoError(t, svc.ExportSummary(context.Background(), summary))
	require.Len(t, sheets.rows, 1)
	assert.Equal(t, []interface{}{"2026-08-31", "2026-09-06", 180.0, 90.0, 90.0, 3, 200.0, 80.0}, sheets.rows[0])
}

func TestExportSummaryNoSheetsIsNoOp(t *testing.T) {
	svc := NewService(&fakeBoxSaleRepo{}, &fakeDerivedSaleRepo{}, &fakeTotalRepo{}, &fakeTotalRepo{}, nil, nil)
	assert.NoError(t, svc.ExportSummary(context.Background(), FinancialSummary{}))
}

func TestDeliverySummaryMessage(t *testing.T) {
	svc := NewService(&fakeBoxSaleRepo{}, &fakeDerivedSaleRepo{}, &fakeTotalRepo{}, &fakeTotalRepo{}, nil, nil)

	t.Run("empty day", func(t *testing.T) {
		msg, err := svc.DeliverySummaryMessage(context.Background(), &fakeDeliveryLister{}, weekStart)
		require.NoError(t, err)
		assert.Equal(t, "Entregas de 31/08 (SEG): nenhuma entrega programada.", msg)
	})

	t.Run("with deliveries", func(t *testing.T) {
		lister := &fakeDeliveryLister{deliveries: []models.DeliveryRecord{
			{CustomerName: "Padaria Central", Quantity: 10, Time: "07:30", Status: models.DeliveryPending},
			{CustomerName: "Mercearia", Quantity: 6, Status: models.DeliveryDelivered},
		}}
		msg, err := svc.DeliverySummaryMessage(context.Background(), lister, weekStart)
		require.NoError(t, err)
		assert.Contains(t, msg, "Entregas de 31/08 (SEG):")
		assert.Contains(t, msg, "- Padaria Central: 10 pães às 07:30")
		assert.Contains(t, msg, "- Mercearia: 6 pães (entregue)")
		assert.Contains(t, msg, "Total: 16 pães em 2 entregas.")
	})
}

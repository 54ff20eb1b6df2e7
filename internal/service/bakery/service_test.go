package bakery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

type fakeCustomerRepo struct {
	customers map[string]*models.BreadCustomer
}

func (f *fakeCustomerRepo) Insert(_ context.Context, customer *models.BreadCustomer) error {
	customer.ID = primitive.NewObjectID()
	f.customers[customer.ID.Hex()] = customer
	return nil
}

func (f *fakeCustomerRepo) ListActive(_ context.Context) ([]models.BreadCustomer, error) {
	var out []models.BreadCustomer
	for _, customer := range f.customers {
		if customer.Active {
			out = append(out, *customer)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*models.BreadCustomer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCustomerRepo) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.BreadCustomer, error) {
	return f.GetByID(ctx, id.Hex())
}

func (f *fakeCustomerRepo) Update(_ context.Context, id primitive.ObjectID, customer models.BreadCustomer) error {
	stored := f.customers[id.Hex()]
	*stored = customer
	return nil
}

type fakePlanRepo struct {
	plans map[string]*models.SubscriptionPlan
}

func (f *fakePlanRepo) Insert(_ context.Context, plan *models.SubscriptionPlan) error {
	plan.ID = primitive.NewObjectID()
	f.plans[plan.ID.Hex()] = plan
	return nil
}

func (f *fakePlanRepo) List(_ context.Context) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, plan := range f.plans {
		out = append(out, *plan)
	}
	return out, nil
}

func (f *fakePlanRepo) ListActive(_ context.Context) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, plan := range f.plans {
		if plan.Status == models.PlanActive {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id string) (*models.SubscriptionPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, nil
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlanRepo) Update(_ context.Context, id primitive.ObjectID, plan models.SubscriptionPlan) error {
	stored := f.plans[id.Hex()]
	*stored = plan
	return nil
}

func (f *fakePlanRepo) Cancel(_ context.Context, id string) (bool, error) {
	plan, ok := f.plans[id]
	if !ok || plan.Status == models.PlanCancelled {
		return false, nil
	}
	plan.Status = models.PlanCancelled
	return true, nil
}

type fakeDeliveryRepo struct {
	deliveries map[string]*models.DeliveryRecord
}

func deliveryKey(planID primitive.ObjectID, date time.Time) string {
	return fmt.Sprintf("%s|%s", planID.Hex(), models.DateOnly(date).Format("2006-01-02"))
}

func (f *fakeDeliveryRepo) Exists(_ context.Context, planID primitive.ObjectID, date time.Time) (bool, error) {
	_, ok := f.deliveries[deliveryKey(planID, date)]
	return ok, nil
}

func (f *fakeDeliveryRepo) Insert(_ context.Context, delivery *models.DeliveryRecord) error {
	delivery.ID = primitive.NewObjectID()
	f.deliveries[deliveryKey(delivery.PlanID, delivery.Date)] = delivery
	return nil
}

func (f *fakeDeliveryRepo) ListBetween(_ context.Context, from, to time.Time) ([]models.DeliveryRecord, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to)
	var out []models.DeliveryRecord
	for _, delivery := range f.deliveries {
		day := models.DateOnly(delivery.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, *delivery)
	}
	return out, nil
}

func (f *fakeDeliveryRepo) GetByID(_ context.Context, id string) (*models.DeliveryRecord, error) {
	for _, delivery := range f.deliveries {
		if delivery.ID.Hex() == id {
			copied := *delivery
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDeliveryRepo) Confirm(_ context.Context, id string) (bool, error) {
	for _, delivery := range f.deliveries {
		if delivery.ID.Hex() == id && delivery.Status == models.DeliveryPending {
			delivery.Status = models.DeliveryDelivered
			return true, nil
		}
	}
	return false, nil
}

type fakeReceivableRepo struct {
	titles map[string]*models.ReceivableTitle
}

func receivableKey(planID primitive.ObjectID, due time.Time) string {
	return fmt.Sprintf("%s|%s", planID.Hex(), models.DateOnly(due).Format("2006-01-02"))
}

func (f *fakeReceivableRepo) Exists(_ context.Context, planID primitive.ObjectID, due time.Time) (bool, error) {
	_, ok := f.titles[receivableKey(planID, due)]
	return ok, nil
}

func (f *fakeReceivableRepo) Insert(_ context.Context, title *models.ReceivableTitle) error {
	title.ID = primitive.NewObjectID()
	f.titles[receivableKey(title.PlanID, title.DueDate)] = title
	return nil
}

func (f *fakeReceivableRepo) ListPending(_ context.Context) ([]models.ReceivableTitle, error) {
	var out []models.ReceivableTitle
	for _, title := range f.titles {
		if title.Status == models.PaymentPending {
			out = append(out, *title)
		}
	}
	return out, nil
}

func (f *fakeReceivableRepo) ListPaidBetween(_ context.Context, from, to time.Time) ([]models.ReceivableTitle, error) {
	var out []models.ReceivableTitle
	for _, title := range f.titles {
		if title.Status != models.PaymentPaid || title.PaymentDate == nil {
			continue
		}
		if title.PaymentDate.Before(from) || title.PaymentDate.After(to) {
			continue
		}
		out = append(out, *title)
	}
	return out, nil
}

func (f *fakeReceivableRepo) GetByID(_ context.Context, id string) (*models.ReceivableTitle, error) {
	for _, title := range f.titles {
		if title.ID.Hex() == id {
			copied := *title
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeReceivableRepo) RegisterPayment(_ context.Context, id string, paymentDate time.Time, method, notes string) (bool, error) {
	for _, title := range f.titles {
		if title.ID.Hex() == id && title.Status == models.PaymentPending {
			title.Status = models.PaymentPaid
			title.PaymentDate = &paymentDate
			title.PaymentMethod = method
			title.Notes = notes
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReceivableRepo) PaidTotalBetween(_ context.Context, from, to time.Time) (float64, error) {
	titles, _ := f.ListPaidBetween(context.Background(), from, to)
	total := 0.0
	for _, title := range titles {
		total += title.Amount
	}
	return total, nil
}

type fixture struct {
	customers   *fakeCustomerRepo
	plans       *fakePlanRepo
	deliveries  *fakeDeliveryRepo
	receivables *fakeReceivableRepo
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		customers:   &fakeCustomerRepo{customers: map[string]*models.BreadCustomer{}},
		plans:       &fakePlanRepo{plans: map[string]*models.SubscriptionPlan{}},
		deliveries:  &fakeDeliveryRepo{deliveries: map[string]*models.DeliveryRecord{}},
		receivables: &fakeReceivableRepo{titles: map[string]*models.ReceivableTitle{}},
	}
	f.svc = NewService(f.customers, f.plans, f.deliveries, f.receivables, nil)
	return f
}

func (f *fixture) addCustomer(name string) *models.BreadCustomer {
	customer := &models.BreadCustomer{ID: primitive.NewObjectID(), Name: name, Active: true}
	f.customers.customers[customer.ID.Hex()] = customer
	return customer
}

func (f *fixture) addPlan(customerID primitive.ObjectID, planType models.PlanType, weekdays []string, qty int, price float64, paymentDue time.Time) *models.SubscriptionPlan {
	plan := &models.SubscriptionPlan{
		ID:             primitive.NewObjectID(),
		CustomerID:     customerID,
		Type:           planType,
		Weekdays:       weekdays,
		QuantityPerDay: qty,
		UnitPrice:      price,
		TotalValue:     models.PlanTotalValue(planType, weekdays, qty, price),
		PaymentDue:     models.DateOnly(paymentDue),
		PaymentStatus:  models.PaymentPending,
		Status:         models.PlanActive,
	}
	f.plans.plans[plan.ID.Hex()] = plan
	return plan
}

// 2026-08-31 is a Monday.
var (
	monday  = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func TestCreatePlanComputesTotal(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Padaria Central")

	plan, err := f.svc.CreatePlan(context.Background(), CreatePlanInput{
		CustomerID:     customer.ID.Hex(),
		Type:           models.PlanWeekly,
		Weekdays:       []string{"qui", "TER", "QUI"},
		DeliveryTime:   "07:30",
		QuantityPerDay: 10,
		UnitPrice:      2,
		PaymentDue:     tuesday,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TER", "QUI"}, plan.Weekdays)
	assert.Equal(t, 40.0, plan.TotalValue)
	assert.Equal(t, models.PlanActive, plan.Status)
	assert.Equal(t, "Padaria Central", plan.CustomerName)
}

func TestCreatePlanRejectsInvalidInput(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Padaria Central")

	base := CreatePlanInput{
		CustomerID:     customer.ID.Hex(),
		Type:           models.PlanDaily,
		Weekdays:       []string{"SEG"},
		QuantityPerDay: 5,
		UnitPrice:      1,
		PaymentDue:     tuesday,
	}

	badWeekday := base
	badWeekday.Weekdays = []string{"MON"}
	_, err := f.svc.CreatePlan(context.Background(), badWeekday)
	assert.True(t, models.IsValidation(err))

	badQty := base
	badQty.QuantityPerDay = 0
	_, err = f.svc.CreatePlan(context.Background(), badQty)
	assert.True(t, models.IsValidation(err))

	badCustomer := base
	badCustomer.CustomerID = primitive.NewObjectID().Hex()
	_, err = f.svc.CreatePlan(context.Background(), badCustomer)
	assert.True(t, models.IsValidation(err))
}

func TestGenerateDeliveriesIsIdempotent(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	f.addPlan(customer.ID, models.PlanWeekly, []string{"TER", "QUI"}, 6, 0.8, tuesday)

	created, err := f.svc.GenerateDeliveries(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 2, created) // TER and QUI of that week

	created, err = f.svc.GenerateDeliveries(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestGenerateDeliveriesSkipsCancelledPlans(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	plan := f.addPlan(customer.ID, models.PlanDaily, []string{"SEG", "TER"}, 4, 1, tuesday)
	plan.Status = models.PlanCancelled

	created, err := f.svc.GenerateDeliveries(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestConfirmDelivery(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	f.addPlan(customer.ID, models.PlanDaily, []string{"SEG"}, 4, 1, tuesday)

	deliveries, err := f.svc.ListDeliveries(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	ok, err := f.svc.ConfirmDelivery(context.Background(), deliveries[0].ID.Hex())
	require.NoError(t, err)
	assert.True(t, ok)

	// Second confirmation is a no-op.
	ok, err = f.svc.ConfirmDelivery(context.Background(), deliveries[0].ID.Hex())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.ConfirmDelivery(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductionSummary(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	f.addPlan(customer.ID, models.PlanDaily, []string{"SEG"}, 6, 1, tuesday)
	f.addPlan(customer.ID, models.PlanDaily, []string{"SEG"}, 10, 1, tuesday)
	f.addPlan(customer.ID, models.PlanDaily, []string{"SEG"}, 6, 1, tuesday)

	summary, err := f.svc.ProductionSummary(context.Background(), monday)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalDeliveries)
	assert.Equal(t, 22, summary.TotalBreads)
	assert.Equal(t, map[int]int{6: 2, 10: 1}, summary.Bags)
}

func TestGenerateReceivablesDaily(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	plan := f.addPlan(customer.ID, models.PlanDaily, []string{"SEG", "QUA"}, 5, 1, tuesday)

	created, err := f.svc.GenerateReceivables(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	_, hasMonday := f.receivables.titles[receivableKey(plan.ID, monday)]
	_, hasWednesday := f.receivables.titles[receivableKey(plan.ID, monday.AddDate(0, 0, 2))]
	assert.True(t, hasMonday)
	assert.True(t, hasWednesday)
	for _, title := range f.receivables.titles {
		assert.Equal(t, 5.0, title.Amount) // one cycle day: 5 breads x 1.00
	}
}

func TestGenerateReceivablesWeekly(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	plan := f.addPlan(customer.ID, models.PlanWeekly, []string{"TER", "QUI"}, 10, 2, tuesday)

	// Two full Monday weeks: one title per week, due on the first configured
	// weekday (Tuesday).
	created, err := f.svc.GenerateReceivables(context.Background(), monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	_, hasFirst := f.receivables.titles[receivableKey(plan.ID, tuesday)]
	_, hasSecond := f.receivables.titles[receivableKey(plan.ID, tuesday.AddDate(0, 0, 7))]
	assert.True(t, hasFirst)
	assert.True(t, hasSecond)
	for _, title := range f.receivables.titles {
		assert.Equal(t, 40.0, title.Amount)
	}
}

func TestGenerateReceivablesMonthlyShortMonth(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	payDue := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	plan := f.addPlan(customer.ID, models.PlanMonthly, []string{"SEG"}, 5, 1, payDue)

	created, err := f.svc.GenerateReceivables(context.Background(),
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	// February has no day 31; the title lands on the 28th.
	_, hasJan := f.receivables.titles[receivableKey(plan.ID, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))]
	_, hasFeb := f.receivables.titles[receivableKey(plan.ID, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))]
	_, hasMar := f.receivables.titles[receivableKey(plan.ID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))]
	assert.True(t, hasJan)
	assert.True(t, hasFeb)
	assert.True(t, hasMar)
}

func TestGenerateReceivablesOverlappingWindows(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer("Mercearia")
	f.addPlan(customer.ID, models.PlanWeekly, []string{"TER"}, 10, 2, tuesday)

	created, err := f.svc.GenerateReceivables(context.Background(), monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Overlapping window only fills the new week.
	created, err = f.svc.GenerateReceivables(context.Background(), monday, monday.AddDate(0, 0, 13))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestGroupPendingReceivables(t *testing.T) {
	f := newFixture()
	planID := primitive.NewObjectID()
	addTitle := func(due time.Time) {
		f.receivables.titles[receivableKey(planID, due)] = &models.ReceivableTitle{
			ID:      primitive.NewObjectID(),
			PlanID:  planID,
			Amount:  10,
			DueDate: due,
			Status:  models.PaymentPending,
		}
	}
	addTitle(monday.AddDate(0, 0, -2)) // overdue
	addTitle(monday.AddDate(0, 0, 3))  // this week
	addTitle(monday.AddDate(0, 0, 9))  // next week
	addTitle(monday.AddDate(0, 0, 20)) // later

	buckets, err := f.svc.GroupPendingReceivables(context.Background(), tuesday, 0)
	require.NoError(t, err)
	assert.Len(t, buckets.Overdue, 1)
	assert.Len(t, buckets.ThisWeek, 1)
	assert.Len(t, buckets.NextWeek, 1)
	assert.Len(t, buckets.Later, 1)
}

func TestRegisterReceivablePayment(t *testing.T) {
	f := newFixture()
	title := &models.ReceivableTitle{
		ID:      primitive.NewObjectID(),
		PlanID:  primitive.NewObjectID(),
		Amount:  40,
		DueDate: tuesday,
		Status:  models.PaymentPending,
	}
	f.receivables.titles[receivableKey(title.PlanID, title.DueDate)] = title

	_, err := f.svc.RegisterReceivablePayment(context.Background(), title.ID.Hex(), time.Time{}, "PIX", "")
	assert.True(t, models.IsValidation(err))

	ok, err := f.svc.RegisterReceivablePayment(context.Background(), title.ID.Hex(), tuesday, "PIX", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.PaymentPaid, title.Status)

	ok, err = f.svc.RegisterReceivablePayment(context.Background(), title.ID.Hex(), tuesday, "PIX", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

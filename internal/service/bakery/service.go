package bakery

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

// CustomerRepository persists bakery customers.
type CustomerRepository interface {
	Insert(ctx context.Context, customer *models.BreadCustomer) error
	ListActive(ctx context.Context) ([]models.BreadCustomer, error)
	GetByID(ctx context.Context, id string) (*models.BreadCustomer, error)
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.BreadCustomer, error)
	Update(ctx context.Context, id primitive.ObjectID, customer models.BreadCustomer) error
}

// PlanRepository persists subscription plans.
type PlanRepository interface {
	Insert(ctx context.Context, plan *models.SubscriptionPlan) error
	List(ctx context.Context) ([]models.SubscriptionPlan, error)
	ListActive(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	Update(ctx context.Context, id primitive.ObjectID, plan models.SubscriptionPlan) error
	Cancel(ctx context.Context, id string) (bool, error)
}

// DeliveryRepository persists generated delivery records.
type DeliveryRepository interface {
	Exists(ctx context.Context, planID primitive.ObjectID, date time.Time) (bool, error)
	Insert(ctx context.Context, delivery *models.DeliveryRecord) error
	ListBetween(ctx context.Context, from, to time.Time) ([]models.DeliveryRecord, error)
	GetByID(ctx context.Context, id string) (*models.DeliveryRecord, error)
	Confirm(ctx context.Context, id string) (bool, error)
}

// ReceivableRepository persists generated receivable titles.
type ReceivableRepository interface {
	Exists(ctx context.Context, planID primitive.ObjectID, dueDate time.Time) (bool, error)
	Insert(ctx context.Context, title *models.ReceivableTitle) error
	ListPending(ctx context.Context) ([]models.ReceivableTitle, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.ReceivableTitle, error)
	GetByID(ctx context.Context, id string) (*models.ReceivableTitle, error)
	RegisterPayment(ctx context.Context, id string, paymentDate time.Time, method, notes string) (bool, error)
	PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// Service runs the bread-subscription side of the business: customers, plans
// and the two idempotent obligation generators that turn plans into scheduled
// deliveries and billing titles.
type Service struct {
	customers   CustomerRepository
	plans       PlanRepository
	deliveries  DeliveryRepository
	receivables ReceivableRepository
	logger      *zap.Logger
}

// NewService wires the bakery module.
func NewService(customers CustomerRepository, plans PlanRepository, deliveries DeliveryRepository, receivables ReceivableRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		customers:   customers,
		plans:       plans,
		deliveries:  deliveries,
		receivables: receivables,
		logger:      logger,
	}
}

// CreateCustomer registers a delivery-route customer.
func (s *Service) CreateCustomer(ctx context.Context, name, phone, address, notes string) (*models.BreadCustomer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("nome do cliente é obrigatório")
	}
	now := time.Now().UTC()
	customer := &models.BreadCustomer{
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Address:   strings.TrimSpace(address),
		Notes:     strings.TrimSpace(notes),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Insert(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers returns active customers ordered by name.
func (s *Service) ListCustomers(ctx context.Context) ([]models.BreadCustomer, error) {
	return s.customers.ListActive(ctx)
}

// GetCustomer returns one customer, or nil when the id does not resolve.
func (s *Service) GetCustomer(ctx context.Context, id string) (*models.BreadCustomer, error) {
	return s.customers.GetByID(ctx, id)
}

// UpdateCustomer rewrites a customer's contact fields.
func (s *Service) UpdateCustomer(ctx context.Context, id string, name, phone, address, notes string) (*models.BreadCustomer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil || customer == nil {
		return customer, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("nome do cliente é obrigatório")
	}
	customer.Name = name
	customer.Phone = strings.TrimSpace(phone)
	customer.Address = strings.TrimSpace(address)
	customer.Notes = strings.TrimSpace(notes)
	if err := s.customers.Update(ctx, customer.ID, *customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// CreatePlanInput is the request to open a subscription plan.
type CreatePlanInput struct {
	CustomerID     string
	Type           models.PlanType
	Weekdays       []string
	DeliveryTime   string
	QuantityPerDay int
	UnitPrice      float64
	PaymentDue     time.Time
}

// CreatePlan validates and stores a subscription plan. The billed total is
// computed once here via PlanTotalValue and stored on the document; the
// generators never recompute it.
func (s *Service) CreatePlan(ctx context.Context, in CreatePlanInput) (*models.SubscriptionPlan, error) {
	customerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.CustomerID))
	if err != nil {
		return nil, models.NewValidationError("cliente inválido")
	}
	customer, err := s.customers.GetByObjectID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, models.NewValidationError("cliente não encontrado")
	}
	if in.Type != models.PlanDaily && in.Type != models.PlanWeekly && in.Type != models.PlanMonthly {
		return nil, models.NewValidationError("tipo_plano deve ser DIARIO, SEMANAL ou MENSAL")
	}
	weekdays, err := normalizeWeekdays(in.Weekdays)
	if err != nil {
		return nil, err
	}
	if in.QuantityPerDay <= 0 {
		return nil, models.NewValidationError("quantidade de pães por dia deve ser maior que zero")
	}
	if in.UnitPrice <= 0 {
		return nil, models.NewValidationError("valor por pão deve ser maior que zero")
	}
	if in.PaymentDue.IsZero() {
		return nil, models.NewValidationError("data de pagamento é obrigatória")
	}

	now := time.Now().UTC()
	plan := &models.SubscriptionPlan{
		CustomerID:     customerID,
		Type:           in.Type,
		Weekdays:       weekdays,
		DeliveryTime:   strings.TrimSpace(in.DeliveryTime),
		QuantityPerDay: in.QuantityPerDay,
		UnitPrice:      models.Round2(in.UnitPrice),
		TotalValue:     models.PlanTotalValue(in.Type, weekdays, in.QuantityPerDay, in.UnitPrice),
		PaymentDue:     models.DateOnly(in.PaymentDue),
		PaymentStatus:  models.PaymentPending,
		Status:         models.PlanActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.plans.Insert(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("subscription plan created",
		zap.String("plan_id", plan.ID.Hex()),
		zap.String("type", string(plan.Type)),
		zap.Float64("total_value", plan.TotalValue))
	s.enrichPlan(ctx, plan, now)
	return plan, nil
}

// UpdatePlanInput carries the editable plan fields.
type UpdatePlanInput struct {
	Weekdays       []string
	QuantityPerDay int
	UnitPrice      float64
	PaymentDue     time.Time
}

// UpdatePlan rewrites a plan's delivery configuration, recomputing its total.
func (s *Service) UpdatePlan(ctx context.Context, id string, in UpdatePlanInput) (*models.SubscriptionPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil || plan == nil {
		return plan, err
	}
	if plan.Status == models.PlanCancelled {
		return nil, models.NewValidationError("plano cancelado não pode ser alterado")
	}
	weekdays, err := normalizeWeekdays(in.Weekdays)
	if err != nil {
		return nil, err
	}
	if in.QuantityPerDay <= 0 {
		return nil, models.NewValidationError("quantidade de pães por dia deve ser maior que zero")
	}
	if in.UnitPrice <= 0 {
		return nil, models.NewValidationError("valor por pão deve ser maior que zero")
	}

	plan.Weekdays = weekdays
	plan.QuantityPerDay = in.QuantityPerDay
	plan.UnitPrice = models.Round2(in.UnitPrice)
	plan.TotalValue = models.PlanTotalValue(plan.Type, weekdays, in.QuantityPerDay, in.UnitPrice)
	if !in.PaymentDue.IsZero() {
		plan.PaymentDue = models.DateOnly(in.PaymentDue)
	}
	if err := s.plans.Update(ctx, plan.ID, *plan); err != nil {
		return nil, err
	}
	s.enrichPlan(ctx, plan, time.Now().UTC())
	return plan, nil
}

// CancelPlan soft-cancels a plan; its history stays intact and the generators
// stop picking it up. Returns false when the plan does not exist.
func (s *Service) CancelPlan(ctx context.Context, id string) (bool, error) {
	return s.plans.Cancel(ctx, id)
}

// ListPlans returns all plans enriched with customer name and the derived
// effective status.
func (s *Service) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range plans {
		s.enrichPlan(ctx, &plans[i], now)
	}
	return plans, nil
}

// GetPlan returns one enriched plan, or nil when the id does not resolve.
func (s *Service) GetPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil || plan == nil {
		return plan, err
	}
	s.enrichPlan(ctx, plan, time.Now().UTC())
	return plan, nil
}

// enrichPlan joins the customer name and recomputes the effective status.
// The effective status is never stored.
func (s *Service) enrichPlan(ctx context.Context, plan *models.SubscriptionPlan, today time.Time) {
	plan.EffectiveStatus = models.EffectivePlanStatus(*plan, today)
	if !plan.CustomerID.IsZero() {
		if customer, err := s.customers.GetByObjectID(ctx, plan.CustomerID); err == nil && customer != nil {
			plan.CustomerName = customer.Name
		}
	}
}

// GenerateDeliveries walks each calendar day in [from, to] and creates the
// missing delivery records for every active plan whose weekday set contains
// that day. Existence is checked before every insert, so the generator is safe
// to call repeatedly over overlapping windows. Returns the number created.
func (s *Service) GenerateDeliveries(ctx context.Context, from, to time.Time) (int, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to)
	if end.Before(start) {
		return 0, models.NewValidationError("período inválido para geração de entregas")
	}
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now().UTC()
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		code := models.WeekdayCode(day)
		for i := range plans {
			plan := &plans[i]
			if !containsWeekday(plan.Weekdays, code) {
				continue
			}
			exists, err := s.deliveries.Exists(ctx, plan.ID, day)
			if err != nil {
				return created, err
			}
			if exists {
				continue
			}
			delivery := &models.DeliveryRecord{
				PlanID:     plan.ID,
				CustomerID: plan.CustomerID,
				Date:       day,
				Weekday:    code,
				Time:       plan.DeliveryTime,
				Quantity:   plan.QuantityPerDay,
				Status:     models.DeliveryPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := s.deliveries.Insert(ctx, delivery); err != nil {
				return created, err
			}
			created++
		}
	}
	if created > 0 {
		s.logger.Info("deliveries generated",
			zap.Time("from", start), zap.Time("to", end), zap.Int("created", created))
	}
	return created, nil
}

// ListDeliveries refreshes the window via the generator and returns its
// deliveries enriched with customer data, ordered by date, then delivery time,
// then customer name.
func (s *Service) ListDeliveries(ctx context.Context, from, to time.Time) ([]models.DeliveryRecord, error) {
	if _, err := s.GenerateDeliveries(ctx, from, to); err != nil {
		return nil, err
	}
	deliveries, err := s.deliveries.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for i := range deliveries {
		s.enrichDelivery(ctx, &deliveries[i])
	}
	sort.SliceStable(deliveries, func(i, j int) bool {
		if !deliveries[i].Date.Equal(deliveries[j].Date) {
			return deliveries[i].Date.Before(deliveries[j].Date)
		}
		if deliveries[i].Time != deliveries[j].Time {
			return deliveries[i].Time < deliveries[j].Time
		}
		return deliveries[i].CustomerName < deliveries[j].CustomerName
	})
	return deliveries, nil
}

func (s *Service) enrichDelivery(ctx context.Context, delivery *models.DeliveryRecord) {
	if !delivery.CustomerID.IsZero() {
		if customer, err := s.customers.GetByObjectID(ctx, delivery.CustomerID); err == nil && customer != nil {
			delivery.CustomerName = customer.Name
			delivery.CustomerAddress = customer.Address
		}
	}
	if !delivery.PlanID.IsZero() {
		if plan, err := s.plans.GetByID(ctx, delivery.PlanID.Hex()); err == nil && plan != nil {
			delivery.PlanType = plan.Type
		}
	}
}

// ConfirmDelivery flips a pending delivery to ENTREGUE. Returns false when the
// record is missing or already confirmed.
func (s *Service) ConfirmDelivery(ctx context.Context, id string) (bool, error) {
	return s.deliveries.Confirm(ctx, id)
}

// ProductionSummary aggregates one day's deliveries for the bakery: one bag
// per delivery, grouped by bag size. The day's window is refreshed first.
func (s *Service) ProductionSummary(ctx context.Context, date time.Time) (models.ProductionSummary, error) {
	summary := models.ProductionSummary{Bags: map[int]int{}}
	if _, err := s.GenerateDeliveries(ctx, date, date); err != nil {
		return summary, err
	}
	deliveries, err := s.deliveries.ListBetween(ctx, date, date)
	if err != nil {
		return summary, err
	}
	for _, delivery := range deliveries {
		summary.Bags[delivery.Quantity]++
		summary.TotalBreads += delivery.Quantity
		summary.TotalDeliveries++
	}
	return summary, nil
}

// GenerateReceivables creates the missing billing titles for every active plan
// over [from, to]. The cadence depends on the plan type; every candidate due
// date is existence-checked before insert, so overlapping invocations never
// duplicate a (plan, due date) title. Returns the number created.
func (s *Service) GenerateReceivables(ctx context.Context, from, to time.Time) (int, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to)
	if end.Before(start) {
		return 0, models.NewValidationError("período inválido para geração de títulos")
	}
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range plans {
		plan := &plans[i]
		var dueDates []time.Time
		switch plan.Type {
		case models.PlanDaily:
			dueDates = dailyDueDates(plan.Weekdays, start, end)
		case models.PlanWeekly:
			dueDates = weeklyDueDates(plan.Weekdays, start, end)
		case models.PlanMonthly:
			dueDates = monthlyDueDates(plan.PaymentDue, start, end)
		default:
			continue
		}
		for _, due := range dueDates {
			n, err := s.createReceivable(ctx, plan, due)
			if err != nil {
				return created, err
			}
			created += n
		}
	}
	if created > 0 {
		s.logger.Info("receivables generated",
			zap.Time("from", start), zap.Time("to", end), zap.Int("created", created))
	}
	return created, nil
}

func (s *Service) createReceivable(ctx context.Context, plan *models.SubscriptionPlan, due time.Time) (int, error) {
	exists, err := s.receivables.Exists(ctx, plan.ID, due)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}
	now := time.Now().UTC()
	title := &models.ReceivableTitle{
		PlanID:     plan.ID,
		CustomerID: plan.CustomerID,
		Amount:     plan.TotalValue,
		DueDate:    due,
		Status:     models.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.receivables.Insert(ctx, title); err != nil {
		return 0, err
	}
	return 1, nil
}

// dailyDueDates: one title per matching weekday, due on the delivery day.
func dailyDueDates(weekdays []string, start, end time.Time) []time.Time {
	var dues []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if containsWeekday(weekdays, models.WeekdayCode(day)) {
			dues = append(dues, day)
		}
	}
	return dues
}

// weeklyDueDates: one title per Monday-aligned week, due on the week's first
// configured weekday.
func weeklyDueDates(weekdays []string, start, end time.Time) []time.Time {
	offset := firstWeekdayOffset(weekdays)
	var dues []time.Time
	for monday := mondayOf(start); !monday.After(end); monday = monday.AddDate(0, 0, 7) {
		due := monday.AddDate(0, 0, offset)
		if due.Before(start) || due.After(end) {
			continue
		}
		dues = append(dues, due)
	}
	return dues
}

// monthlyDueDates: one title per calendar month touched by the range, due on
// min(plan payment day, last day of that month) so short months stay valid.
func monthlyDueDates(paymentDue, start, end time.Time) []time.Time {
	payDay := paymentDue.Day()
	if paymentDue.IsZero() {
		payDay = 1
	}
	var dues []time.Time
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		day := payDay
		if last := lastDayOfMonth(cursor); day > last {
			day = last
		}
		due := time.Date(cursor.Year(), cursor.Month(), day, 0, 0, 0, 0, time.UTC)
		if !due.Before(start) && !due.After(end) {
			dues = append(dues, due)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return dues
}

// ListPendingReceivables refreshes the forward window and returns pending
// titles enriched with customer name, plan type and days overdue.
func (s *Service) ListPendingReceivables(ctx context.Context, today time.Time, horizonDays int) ([]models.ReceivableTitle, error) {
	if horizonDays > 0 {
		if _, err := s.GenerateReceivables(ctx, today, today.AddDate(0, 0, horizonDays)); err != nil {
			return nil, err
		}
	}
	titles, err := s.receivables.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	day := models.DateOnly(today)
	for i := range titles {
		s.enrichReceivable(ctx, &titles[i], day)
	}
	return titles, nil
}

// ListPaidReceivables returns titles paid within [from, to].
func (s *Service) ListPaidReceivables(ctx context.Context, from, to time.Time) ([]models.ReceivableTitle, error) {
	titles, err := s.receivables.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	day := models.DateOnly(time.Now().UTC())
	for i := range titles {
		s.enrichReceivable(ctx, &titles[i], day)
	}
	return titles, nil
}

func (s *Service) enrichReceivable(ctx context.Context, title *models.ReceivableTitle, today time.Time) {
	if title.Status == models.PaymentPending {
		due := models.DateOnly(title.DueDate)
		if due.Before(today) {
			title.DaysOverdue = int(today.Sub(due).Hours() / 24)
		}
	}
	if !title.CustomerID.IsZero() {
		if customer, err := s.customers.GetByObjectID(ctx, title.CustomerID); err == nil && customer != nil {
			title.CustomerName = customer.Name
		}
	}
	if !title.PlanID.IsZero() {
		if plan, err := s.plans.GetByID(ctx, title.PlanID.Hex()); err == nil && plan != nil {
			title.PlanType = plan.Type
		}
	}
}

// DeliveryDay is one date's deliveries, for the route screens.
type DeliveryDay struct {
	Date       time.Time               `json:"data"`
	Weekday    string                  `json:"dia_semana"`
	Deliveries []models.DeliveryRecord `json:"entregas"`
}

// ListDeliveriesByDay groups the window's deliveries by date, preserving the
// per-day time/customer ordering.
func (s *Service) ListDeliveriesByDay(ctx context.Context, from, to time.Time) ([]DeliveryDay, error) {
	deliveries, err := s.ListDeliveries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var days []DeliveryDay
	for _, delivery := range deliveries {
		date := models.DateOnly(delivery.Date)
		if len(days) == 0 || !days[len(days)-1].Date.Equal(date) {
			days = append(days, DeliveryDay{Date: date, Weekday: models.WeekdayCode(date)})
		}
		days[len(days)-1].Deliveries = append(days[len(days)-1].Deliveries, delivery)
	}
	return days, nil
}

// ReceivableBuckets splits pending titles by urgency for the billing screen.
type ReceivableBuckets struct {
	Overdue  []models.ReceivableTitle `json:"em_atraso"`
	ThisWeek []models.ReceivableTitle `json:"esta_semana"`
	NextWeek []models.ReceivableTitle `json:"proxima_semana"`
	Later    []models.ReceivableTitle `json:"futuros"`
}

// GroupPendingReceivables buckets pending titles into overdue, this Monday
// week, next week and later, relative to today.
func (s *Service) GroupPendingReceivables(ctx context.Context, today time.Time, horizonDays int) (ReceivableBuckets, error) {
	var buckets ReceivableBuckets
	titles, err := s.ListPendingReceivables(ctx, today, horizonDays)
	if err != nil {
		return buckets, err
	}
	day := models.DateOnly(today)
	weekStart := mondayOf(day)
	nextWeekStart := weekStart.AddDate(0, 0, 7)
	weekAfterStart := weekStart.AddDate(0, 0, 14)
	for _, title := range titles {
		due := models.DateOnly(title.DueDate)
		switch {
		case due.Before(day):
			buckets.Overdue = append(buckets.Overdue, title)
		case due.Before(nextWeekStart):
			buckets.ThisWeek = append(buckets.ThisWeek, title)
		case due.Before(weekAfterStart):
			buckets.NextWeek = append(buckets.NextWeek, title)
		default:
			buckets.Later = append(buckets.Later, title)
		}
	}
	return buckets, nil
}

// RegisterReceivablePayment flips a pending title to PAGO, recording the
// payment details. Returns false when the title is missing or already paid.
func (s *Service) RegisterReceivablePayment(ctx context.Context, id string, paymentDate time.Time, method, notes string) (bool, error) {
	if paymentDate.IsZero() {
		return false, models.NewValidationError("data de pagamento é obrigatória")
	}
	return s.receivables.RegisterPayment(ctx, id, paymentDate, strings.TrimSpace(method), strings.TrimSpace(notes))
}

// ReceivedTotalBetween sums receivable amounts paid within [from, to].
func (s *Service) ReceivedTotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return s.receivables.PaidTotalBetween(ctx, from, to)
}

func normalizeWeekdays(weekdays []string) ([]string, error) {
	if len(weekdays) == 0 {
		return nil, models.NewValidationError("informe ao menos um dia de entrega")
	}
	seen := make(map[string]struct{}, len(weekdays))
	out := make([]string, 0, len(weekdays))
	for _, code := range weekdays {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !models.ValidWeekdayCode(code) {
			return nil, models.NewValidationError(fmt.Sprintf("dia de entrega inválido: %s", code))
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool {
		return models.WeekdayOffset(out[i]) < models.WeekdayOffset(out[j])
	})
	return out, nil
}

func containsWeekday(weekdays []string, code string) bool {
	for _, c := range weekdays {
		if c == code {
			return true
		}
	}
	return false
}

// firstWeekdayOffset returns the smallest Monday offset among the configured
// weekdays; with none configured the week anchors on Monday itself.
func firstWeekdayOffset(weekdays []string) int {
	offset := -1
	for _, code := range weekdays {
		o := models.WeekdayOffset(code)
		if offset < 0 || o < offset {
			offset = o
		}
	}
	if offset < 0 {
		return 0
	}
	return offset
}

func mondayOf(t time.Time) time.Time {
	d := models.DateOnly(t)
	return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package finance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// PayableRepository is the slice of payable persistence the module reads and
// settles.
type PayableRepository interface {
	ListPending(ctx context.Context) ([]models.PayableTitle, error)
	ListPaid(ctx context.Context, limit int64) ([]models.PayableTitle, error)
	GetByID(ctx context.Context, id string) (*models.PayableTitle, error)
	RegisterPayment(ctx context.Context, id string, paymentDate time.Time) (bool, error)
	PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error)
	PaidByDay(ctx context.Context, from, to time.Time) (map[int]float64, error)
	PaidByMonth(ctx context.Context, from, to time.Time) ([]models.MonthlyTotal, error)
}

// EntryRepository resolves the stock entry a payable originated from.
type EntryRepository interface {
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.StockEntry, error)
}

// SupplierRepository resolves supplier names for enrichment.
type SupplierRepository interface {
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
}

// SettingsRepository persists the operational configuration singleton.
type SettingsRepository interface {
	DefaultSplit(ctx context.Context) (models.ProfitSplit, error)
	SaveDefaultSplit(ctx context.Context, split models.ProfitSplit) error
}

// Service is the supplier-obligation and configuration side of the finance
// module: pending/paid payable views, payment registration and the paid-amount
// aggregations backing the dashboards.
type Service struct {
	payables  PayableRepository
	entries   EntryRepository
	suppliers SupplierRepository
	settings  SettingsRepository
	logger    *zap.Logger
}

// NewService wires the finance module.
func NewService(payables PayableRepository, entries EntryRepository, suppliers SupplierRepository, settings SettingsRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		payables:  payables,
		entries:   entries,
		suppliers: suppliers,
		settings:  settings,
		logger:    logger,
	}
}

// ListPendingPayables returns pending titles, due date ascending, enriched with
// supplier and entry data.
func (s *Service) ListPendingPayables(ctx context.Context) ([]models.PayableTitle, error) {
	titles, err := s.payables.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	for i := range titles {
		s.enrichPayable(ctx, &titles[i])
	}
	return titles, nil
}

// ListPaidPayables returns up to limit settled titles, newest payment first.
func (s *Service) ListPaidPayables(ctx context.Context, limit int64) ([]models.PayableTitle, error) {
	if limit <= 0 {
		limit = 50
	}
	titles, err := s.payables.ListPaid(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range titles {
		s.enrichPayable(ctx, &titles[i])
	}
	return titles, nil
}

// GetPayable returns one enriched title, or nil when the id does not resolve.
func (s *Service) GetPayable(ctx context.Context, id string) (*models.PayableTitle, error) {
	title, err := s.payables.GetByID(ctx, id)
	if err != nil || title == nil {
		return title, err
	}
	s.enrichPayable(ctx, title)
	return title, nil
}

// PayPayable settles a pending title, recording the payment date. Returns
// false when the title is missing or already paid.
func (s *Service) PayPayable(ctx context.Context, id string, paymentDate time.Time) (bool, error) {
	if paymentDate.IsZero() {
		return false, models.NewValidationError("data de pagamento é obrigatória")
	}
	paid, err := s.payables.RegisterPayment(ctx, id, paymentDate)
	if err != nil {
		return false, err
	}
	if paid {
		s.logger.Info("payable settled", zap.String("title_id", id))
	}
	return paid, nil
}

// enrichPayable joins supplier name, entry date and invoice number via the
// title's source entry. Lookup failures leave the fields empty.
func (s *Service) enrichPayable(ctx context.Context, title *models.PayableTitle) {
	if title.EntryID.IsZero() {
		return
	}
	entry, err := s.entries.GetByObjectID(ctx, title.EntryID)
	if err != nil || entry == nil {
		return
	}
	entryDate := entry.EntryDate
	title.EntryDate = &entryDate
	title.InvoiceNumber = entry.Invoice.Number
	if !entry.SupplierID.IsZero() {
		if supplier, err := s.suppliers.GetByObjectID(ctx, entry.SupplierID); err == nil && supplier != nil {
			title.SupplierName = supplier.Name
		}
	}
}

// PaidTotalBetween sums payable amounts settled within [from, to].
func (s *Service) PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return s.payables.PaidTotalBetween(ctx, from, to)
}

// PaidToday sums payable amounts settled on the given day.
func (s *Service) PaidToday(ctx context.Context, today time.Time) (float64, error) {
	return s.payables.PaidTotalBetween(ctx, today, today)
}

// PaidByDayOfMonth aggregates the month's settled amounts per day of month.
func (s *Service) PaidByDayOfMonth(ctx context.Context, anyDayInMonth time.Time) (map[int]float64, error) {
	start := time.Date(anyDayInMonth.Year(), anyDayInMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return s.payables.PaidByDay(ctx, start, end)
}

// PaidByMonth aggregates settled amounts per month over the trailing window.
func (s *Service) PaidByMonth(ctx context.Context, until time.Time, months int) ([]models.MonthlyTotal, error) {
	if months <= 0 {
		months = 6
	}
	end := models.DateOnly(until).AddDate(0, 0, 1).Add(-time.Millisecond)
	start := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	return s.payables.PaidByMonth(ctx, start, end)
}

// DefaultSplit returns the configured default profit split (70/30 when none
// was ever saved).
func (s *Service) DefaultSplit(ctx context.Context) (models.ProfitSplit, error) {
	return s.settings.DefaultSplit(ctx)
}

// SaveDefaultSplit validates and stores the default profit split. Percentages
// must be non-negative and sum to exactly 100.
func (s *Service) SaveDefaultSplit(ctx context.Context, split models.ProfitSplit) error {
	if split.ClientPercent < 0 || split.PartnerPercent < 0 {
		return models.NewValidationError("percentuais não podem ser negativos")
	}
	if split.ClientPercent+split.PartnerPercent != 100 {
		return models.NewValidationError("percentuais devem somar 100")
	}
	if err := s.settings.SaveDefaultSplit(ctx, split); err != nil {
		return err
	}
	s.logger.Info("default profit split saved",
		zap.Int("cliente", split.ClientPercent),
		zap.Int("socio", split.PartnerPercent))
	return nil
}

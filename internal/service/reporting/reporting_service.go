package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	repo "github.com/emporiumprime/estoque/internal/repository/sheets"
)

const (
	dateLayout        = "2006-01-02"
	financialRowRange = "Financeiro!A:H"
)

// BoxSaleRepository provides the box sales feeding the revenue summary.
type BoxSaleRepository interface {
	List(ctx context.Context) ([]models.BoxSale, error)
}

// DerivedSaleRepository provides the derived sales feeding the revenue summary.
type DerivedSaleRepository interface {
	List(ctx context.Context) ([]models.DerivedSale, error)
}

// ReceivableRepository provides the received-amount aggregate.
type ReceivableRepository interface {
	PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// PayableRepository provides the paid-amount aggregate.
type PayableRepository interface {
	PaidTotalBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// DeliveryLister provides the day's deliveries for the WhatsApp summary.
type DeliveryLister interface {
	ListDeliveries(ctx context.Context, from, to time.Time) ([]models.DeliveryRecord, error)
}

// FinancialSummary aggregates one period's money movement for dashboards and
// the spreadsheet export.
type FinancialSummary struct {
	From         time.Time `json:"inicio"`
	To           time.Time `json:"fim"`
	SalesRevenue float64   `json:"receita_vendas"`
	SalesCost    float64   `json:"custo_vendas"`
	SalesProfit  float64   `json:"lucro_vendas"`
	SalesCount   int       `json:"quantidade_vendas"`
	Received     float64   `json:"recebido"`
	Paid         float64   `json:"pago"`
}

// Service is the read-side reporting layer: period summaries over sales and
// titles, plus the append-only Google Sheets export.
type Service struct {
	boxSales     BoxSaleRepository
	derivedSales DerivedSaleRepository
	receivables  ReceivableRepository
	payables     PayableRepository
	sheets       repo.Repository
	logger       *zap.Logger
}

// NewService wires a new reporting service instance. The sheets repository may
// be nil when the export integration is not configured.
func NewService(boxSales BoxSaleRepository, derivedSales DerivedSaleRepository, receivables ReceivableRepository, payables PayableRepository, sheets repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		boxSales:     boxSales,
		derivedSales: derivedSales,
		receivables:  receivables,
		payables:     payables,
		sheets:       sheets,
		logger:       logger,
	}
}

// Summarize aggregates sales totals and paid/received title amounts over
// [from, to].
func (s *Service) Summarize(ctx context.Context, from, to time.Time) (FinancialSummary, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to)
	summary := FinancialSummary{From: start, To: end}

	boxSales, err := s.boxSales.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("load box sales: %w", err)
	}
	for _, sale := range boxSales {
		if outside(sale.Date, start, end) {
			continue
		}
		summary.SalesRevenue += sale.Summary.Revenue
		summary.SalesCost += sale.Summary.Cost
		summary.SalesProfit += sale.Summary.Profit
		summary.SalesCount++
	}

	derivedSales, err := s.derivedSales.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("load derived sales: %w", err)
	}
	for _, sale := range derivedSales {
		if outside(sale.Date, start, end) {
			continue
		}
		summary.SalesRevenue += sale.Summary.Revenue
		summary.SalesCost += sale.Summary.Cost
		summary.SalesProfit += sale.Summary.Profit
		summary.SalesCount++
	}

	received, err := s.receivables.PaidTotalBetween(ctx, start, end)
	if err != nil {
		return summary, fmt.Errorf("sum received titles: %w", err)
	}
	summary.Received = received

	paid, err := s.payables.PaidTotalBetween(ctx, start, end)
	if err != nil {
		return summary, fmt.Errorf("sum paid titles: %w", err)
	}
	summary.Paid = paid

	summary.SalesRevenue = models.Round2(summary.SalesRevenue)
	summary.SalesCost = models.Round2(summary.SalesCost)
	summary.SalesProfit = models.Round2(summary.SalesProfit)
	return summary, nil
}

// ExportSummary appends one summary row to the financial sheet. No-op when the
// sheets integration is not configured.
func (s *Service) ExportSummary(ctx context.Context, summary FinancialSummary) error {
	if s.sheets == nil {
		s.logger.Debug("sheets export skipped: integration not configured")
		return nil
	}
	row := []interface{}{
		summary.From.Format(dateLayout),
		summary.To.Format(dateLayout),
		summary.SalesRevenue,
		summary.SalesCost,
		summary.SalesProfit,
		summary.SalesCount,
		summary.Received,
		summary.Paid,
	}
	if err := s.sheets.AppendRow(ctx, financialRowRange, row); err != nil {
		return fmt.Errorf("export financial summary: %w", err)
	}
	s.logger.Info("financial summary exported",
		zap.String("from", summary.From.Format(dateLayout)),
		zap.String("to", summary.To.Format(dateLayout)))
	return nil
}

// DeliverySummaryMessage renders one day's deliveries as a plain text message
// for the operations WhatsApp number.
func (s *Service) DeliverySummaryMessage(ctx context.Context, bakery DeliveryLister, date time.Time) (string, error) {
	deliveries, err := bakery.ListDeliveries(ctx, date, date)
	if err != nil {
		return "", fmt.Errorf("load deliveries for summary: %w", err)
	}

	day := models.DateOnly(date)
	if len(deliveries) == 0 {
		return fmt.Sprintf("Entregas de %s (%s): nenhuma entrega programada.",
			day.Format("02/01"), models.WeekdayCode(day)), nil
	}

	var b strings.Builder
	totalBreads := 0
	fmt.Fprintf(&b, "Entregas de %s (%s):\n", day.Format("02/01"), models.WeekdayCode(day))
	for _, delivery := range deliveries {
		name := delivery.CustomerName
		if name == "" {
			name = "(cliente sem cadastro)"
		}
		line := fmt.Sprintf("- %s: %d pães", name, delivery.Quantity)
		if delivery.Time != "" {
			line += fmt.Sprintf(" às %s", delivery.Time)
		}
		if delivery.Status == models.DeliveryDelivered {
			line += " (entregue)"
		}
		b.WriteString(line)
		b.WriteString("\n")
		totalBreads += delivery.Quantity
	}
	fmt.Fprintf(&b, "Total: %d pães em %d entregas.", totalBreads, len(deliveries))
	return b.String(), nil
}

func outside(date, start, end time.Time) bool {
	d := models.DateOnly(date)
	return d.Before(start) || d.After(end)
}

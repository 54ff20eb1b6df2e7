package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
)

// BoxRepository is the slice of box persistence the ledger needs.
type BoxRepository interface {
	Insert(ctx context.Context, box *models.Box) error
	List(ctx context.Context, filter models.BoxFilter) ([]models.Box, error)
	GetByID(ctx context.Context, id string) (*models.Box, error)
	GetByCode(ctx context.Context, code string, onlyInStock bool) (*models.Box, error)
	SetCode(ctx context.Context, id primitive.ObjectID, code string) error
	CountByEntry(ctx context.Context, entryID primitive.ObjectID) (int64, error)
}

// EntryRepository is the slice of entry persistence the ledger needs.
type EntryRepository interface {
	Insert(ctx context.Context, entry *models.StockEntry) error
	List(ctx context.Context) ([]models.StockEntry, error)
	GetByID(ctx context.Context, id string) (*models.StockEntry, error)
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.StockEntry, error)
}

// SupplierRepository resolves supplier reference data.
type SupplierRepository interface {
	Insert(ctx context.Context, supplier *models.Supplier) error
	ListActive(ctx context.Context) ([]models.Supplier, error)
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
}

// PayableRepository creates the obligation title generated by each entry.
type PayableRepository interface {
	Insert(ctx context.Context, title *models.PayableTitle) error
}

// CounterRepository hands out the sequential box codes.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

const boxCodeCounter = "caixa_codigo"

// Service is the lot inventory ledger: it creates boxes from stock entries,
// issues their sequential codes and answers enriched box queries.
type Service struct {
	boxes     BoxRepository
	entries   EntryRepository
	suppliers SupplierRepository
	payables  PayableRepository
	counters  CounterRepository
	logger    *zap.Logger
}

// NewService wires the ledger with its repositories.
func NewService(boxes BoxRepository, entries EntryRepository, suppliers SupplierRepository, payables PayableRepository, counters CounterRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		boxes:     boxes,
		entries:   entries,
		suppliers: suppliers,
		payables:  payables,
		counters:  counters,
		logger:    logger,
	}
}

// NextBoxCode issues the next CX-%04d code from the atomic counter.
func (s *Service) NextBoxCode(ctx context.Context) (string, error) {
	n, err := s.counters.Next(ctx, boxCodeCounter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CX-%04d", n), nil
}

// ListBoxes returns boxes matching the filter, enriched with supplier name and
// entry metadata. Any box found without a code gets one assigned and persisted
// on the spot; legacy records are migrated lazily, never treated as errors.
func (s *Service) ListBoxes(ctx context.Context, filter models.BoxFilter) ([]models.Box, error) {
	boxes, err := s.boxes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range boxes {
		if err := s.backfillCode(ctx, &boxes[i]); err != nil {
			return nil, err
		}
		s.enrichBox(ctx, &boxes[i])
	}
	return boxes, nil
}

// GetBox returns one enriched box, or nil when the id does not resolve.
func (s *Service) GetBox(ctx context.Context, id string) (*models.Box, error) {
	box, err := s.boxes.GetByID(ctx, id)
	if err != nil || box == nil {
		return box, err
	}
	if err := s.backfillCode(ctx, box); err != nil {
		return nil, err
	}
	s.enrichBox(ctx, box)
	return box, nil
}

// GetBoxByCode returns one enriched box by its human-readable code. With
// onlyInStock set, boxes already finished or sold are not returned.
func (s *Service) GetBoxByCode(ctx context.Context, code string, onlyInStock bool) (*models.Box, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	box, err := s.boxes.GetByCode(ctx, code, onlyInStock)
	if err != nil || box == nil {
		return box, err
	}
	s.enrichBox(ctx, box)
	return box, nil
}

func (s *Service) backfillCode(ctx context.Context, box *models.Box) error {
	if box.Code != "" {
		return nil
	}
	code, err := s.NextBoxCode(ctx)
	if err != nil {
		return err
	}
	if err := s.boxes.SetCode(ctx, box.ID, code); err != nil {
		return err
	}
	box.Code = code
	s.logger.Info("backfilled box code",
		zap.String("box_id", box.ID.Hex()),
		zap.String("code", code))
	return nil
}

// enrichBox joins supplier name and entry metadata onto a box. Lookup failures
// leave the enrichment fields empty rather than failing the read.
func (s *Service) enrichBox(ctx context.Context, box *models.Box) {
	if !box.SupplierID.IsZero() {
		if supplier, err := s.suppliers.GetByObjectID(ctx, box.SupplierID); err == nil && supplier != nil {
			box.SupplierName = supplier.Name
		}
	}
	if !box.EntryID.IsZero() {
		if entry, err := s.entries.GetByObjectID(ctx, box.EntryID); err == nil && entry != nil {
			entryDate := entry.EntryDate
			box.EntryDate = &entryDate
			box.InvoiceNumber = entry.Invoice.Number
		}
	}
}

// CreateEntryInput is the request to register a purchase.
type CreateEntryInput struct {
	SupplierID    string
	EntryDate     time.Time
	TotalValue    float64
	PaymentDate   *time.Time
	PaymentStatus models.PaymentStatus
	PaymentMethod string
	Installments  int
	InvoiceNumber string
	InvoiceFile   string
	Notes         string
	Products      []models.EntryProductLine
}

// CreateEntry registers a stock entry, fans out one Box document per purchased
// unit (with sequential codes and per-kg cost derived from the line totals)
// and creates the PENDING payable title for the supplier obligation.
func (s *Service) CreateEntry(ctx context.Context, in CreateEntryInput) (*models.StockEntry, error) {
	supplierID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.SupplierID))
	if err != nil {
		return nil, models.NewValidationError("fornecedor inválido")
	}
	if in.EntryDate.IsZero() {
		return nil, models.NewValidationError("data da entrada é obrigatória")
	}
	if in.TotalValue < 0 {
		return nil, models.NewValidationError("valor total inválido")
	}

	status := in.PaymentStatus
	if status == "" {
		status = models.PaymentPending
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = "BOLETO"
	}
	installments := in.Installments
	if installments <= 0 {
		installments = 1
	}

	now := time.Now().UTC()
	entry := &models.StockEntry{
		SupplierID: supplierID,
		EntryType:  "COMPRA_CARNE",
		EntryDate:  models.DateOnly(in.EntryDate),
		Financials: models.EntryFinancials{
			TotalValue:    models.Round2(in.TotalValue),
			PaymentDate:   normalizeDate(in.PaymentDate),
			PaymentStatus: status,
			PaymentMethod: method,
			Installments:  installments,
		},
		Invoice: models.EntryInvoice{
			Number: strings.TrimSpace(in.InvoiceNumber),
			File:   strings.TrimSpace(in.InvoiceFile),
		},
		Products:  in.Products,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}

	// The obligation title carries the entry's due date only while the entry
	// is still pending.
	var dueDate *time.Time
	if status == models.PaymentPending {
		dueDate = entry.Financials.PaymentDate
	}
	title := &models.PayableTitle{
		EntryID:   entry.ID,
		Amount:    models.Round2(in.TotalValue),
		Status:    models.PaymentPending,
		DueDate:   dueDate,
		CreatedAt: now,
	}
	if err := s.payables.Insert(ctx, title); err != nil {
		s.logger.Error("failed creating payable title for entry",
			zap.String("entry_id", entry.ID.Hex()), zap.Error(err))
	}

	for _, line := range in.Products {
		baseProduct := strings.TrimSpace(line.BaseProduct)
		if line.QuantityBoxes <= 0 || line.KGPerBox <= 0 {
			continue
		}
		valuePerBox := line.LineTotal / float64(line.QuantityBoxes)
		costPerKG := valuePerBox / line.KGPerBox
		for i := 0; i < line.QuantityBoxes; i++ {
			code, err := s.NextBoxCode(ctx)
			if err != nil {
				return nil, err
			}
			box := &models.Box{
				EntryID:     entry.ID,
				SupplierID:  supplierID,
				BaseProduct: baseProduct,
				Code:        code,
				InitialKG:   models.Round3(line.KGPerBox),
				CurrentKG:   models.Round3(line.KGPerBox),
				TotalCost:   models.Round2(valuePerBox),
				CostPerKG:   models.Round2(costPerKG),
				Status:      models.BoxStatusInStock,
				CreatedAt:   now,
			}
			if err := s.boxes.Insert(ctx, box); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("stock entry created",
		zap.String("entry_id", entry.ID.Hex()),
		zap.Float64("total_value", entry.Financials.TotalValue),
		zap.Int("product_lines", len(in.Products)))
	return entry, nil
}

// ListEntries returns all entries enriched with supplier name and box count.
func (s *Service) ListEntries(ctx context.Context) ([]models.StockEntry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		s.enrichEntry(ctx, &entries[i])
	}
	return entries, nil
}

// GetEntry returns one enriched entry, or nil when the id does not resolve.
func (s *Service) GetEntry(ctx context.Context, id string) (*models.StockEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil || entry == nil {
		return entry, err
	}
	s.enrichEntry(ctx, entry)
	return entry, nil
}

func (s *Service) enrichEntry(ctx context.Context, entry *models.StockEntry) {
	if !entry.SupplierID.IsZero() {
		if supplier, err := s.suppliers.GetByObjectID(ctx, entry.SupplierID); err == nil && supplier != nil {
			entry.SupplierName = supplier.Name
		}
	}
	if count, err := s.boxes.CountByEntry(ctx, entry.ID); err == nil {
		entry.BoxCount = count
	}
}

// CreateSupplier registers a supplier.
func (s *Service) CreateSupplier(ctx context.Context, name, phone, notes string) (*models.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("nome do fornecedor é obrigatório")
	}
	supplier := &models.Supplier{
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Notes:     strings.TrimSpace(notes),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.suppliers.Insert(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// ListSuppliers returns active suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.suppliers.ListActive(ctx)
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := models.DateOnly(*t)
	return &d
}

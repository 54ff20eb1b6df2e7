package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/config"
	"github.com/emporiumprime/estoque/internal/service/bakery"
	"github.com/emporiumprime/estoque/internal/service/reporting"
	"github.com/emporiumprime/estoque/pkg/clients/whatsapp"
)

// generatorWindowDays is the forward window the background refresh keeps
// populated. Demand-driven generation on reads covers anything beyond it.
const generatorWindowDays = 13

// Scheduler manages the background jobs: the rolling-window obligation
// refresh, the daily delivery summary and the weekly financial export.
type Scheduler struct {
	cron         *cron.Cron
	bakerySvc    *bakery.Service
	reportingSvc *reporting.Service
	waClient     whatsapp.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The WhatsApp client may be
// nil when the integration is not configured.
func NewScheduler(cfg config.Config, bakerySvc *bakery.Service, reportingSvc *reporting.Service, waClient whatsapp.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warn("invalid scheduler timezone, using local",
			zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:         c,
		bakerySvc:    bakerySvc,
		reportingSvc: reportingSvc,
		waClient:     waClient,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.GeneratorSchedule, s.refreshObligations); err != nil {
		s.logger.Error("failed to schedule obligation refresh", zap.Error(err))
	}

	if s.waClient != nil && s.cfg.WhatsApp.Enabled() {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.SummarySchedule, s.sendDeliverySummary); err != nil {
			s.logger.Error("failed to schedule delivery summary", zap.Error(err))
		}
	}

	if s.cfg.Sheets.Enabled() {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.ExportSchedule, s.exportWeeklySummary); err != nil {
			s.logger.Error("failed to schedule financial export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// refreshObligations runs both generators over the rolling window. Generation
// is existence-keyed, so overlapping with demand-driven runs is harmless.
func (s *Scheduler) refreshObligations() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	today := time.Now().UTC()
	horizon := today.AddDate(0, 0, generatorWindowDays)

	deliveries, err := s.bakerySvc.GenerateDeliveries(ctx, today, horizon)
	if err != nil {
		s.logger.Error("scheduled delivery generation failed", zap.Error(err))
	}
	titles, err := s.bakerySvc.GenerateReceivables(ctx, today, horizon)
	if err != nil {
		s.logger.Error("scheduled receivable generation failed", zap.Error(err))
	}
	if deliveries > 0 || titles > 0 {
		s.logger.Info("obligation windows refreshed",
			zap.Int("deliveries_created", deliveries),
			zap.Int("titles_created", titles))
	}
}

// sendDeliverySummary sends the day's delivery route to the operations number.
func (s *Scheduler) sendDeliverySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	message, err := s.reportingSvc.DeliverySummaryMessage(ctx, s.bakerySvc, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed building delivery summary", zap.Error(err))
		return
	}

	_, err = s.waClient.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{
		To:   s.cfg.WhatsApp.OperationsNumber,
		Body: message,
	})
	if err != nil {
		s.logger.Error("failed sending delivery summary", zap.Error(err))
		return
	}
	s.logger.Info("delivery summary sent")
}

// exportWeeklySummary appends last week's financial summary to the sheet.
func (s *Scheduler) exportWeeklySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	today := time.Now().UTC()
	summary, err := s.reportingSvc.Summarize(ctx, today.AddDate(0, 0, -7), today.AddDate(0, 0, -1))
	if err != nil {
		s.logger.Error("failed building weekly financial summary", zap.Error(err))
		return
	}
	if err := s.reportingSvc.ExportSummary(ctx, summary); err != nil {
		s.logger.Error("failed exporting weekly financial summary", zap.Error(err))
	}
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"nbrb-rates/internal/entity"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Importer interface {
	ImportRates(ctx context.Context, date time.Time) (*entity.ImportResult, error)
}

// Scheduler imports the rates of the current day on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	importer Importer
	logger   *logrus.Logger
	timeout  time.Duration
	now      func() time.Time
}

func New(spec string, importer Importer, timeout time.Duration, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		importer: importer,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}

	if _, err := s.cron.AddFunc(spec, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("add import task %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce imports today's rates. Errors are logged and returned.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	date := entity.TruncateDay(s.now())
	log := s.logger.WithField("date", date.Format(entity.DateLayout))
	log.Info("Auto updating rates...")

	result, err := s.importer.ImportRates(ctx, date)
	if err != nil {
		log.WithError(err).Error("Scheduled import failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"status":   result.Status.String(),
		"inserted": result.Inserted,
	}).Info("Scheduled import finished")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the cron and waits for a running import to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}

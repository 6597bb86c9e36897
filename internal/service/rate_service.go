package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/adapter/postgres"
	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/metrics"

	"github.com/sirupsen/logrus"
)

type RateService struct {
	nbrb     nbrb.NbrbClient
	dbRepo   postgres.PostgresRepository
	catalog  CatalogLoader
	notifier ImportNotifier
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

// NewRateService builds the rate loader. notifier may be nil.
func NewRateService(
	client nbrb.NbrbClient,
	dbRepo postgres.PostgresRepository,
	catalog CatalogLoader,
	notifier ImportNotifier,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *RateService {
	return &RateService{
		nbrb:     client,
		dbRepo:   dbRepo,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// ImportRates loads the NBRB daily rates for date. Already loaded dates are
// reported as a conflict without calling NBRB.
func (r *RateService) ImportRates(ctx context.Context, date time.Time) (*entity.ImportResult, error) {
	date = entity.TruncateDay(date)
	log := r.logger.WithField("date", date.Format(entity.DateLayout))
	log.Info("Rate import: START")

	result := &entity.ImportResult{Date: date}

	exists, err := r.dbRepo.HasRatesOnDate(ctx, date)
	if err != nil {
		log.Errorf("Failed to check existing rates: %v", err)
		return nil, fmt.Errorf("check existing rates: %w", err)
	}
	if exists {
		result.Status = entity.ImportConflict
		r.finish(log, result)
		return result, nil
	}

	upstream, err := r.nbrb.FetchRates(ctx, date)
	if err != nil {
		log.Errorf("Failed to fetch rates from NBRB: %v", err)
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	if len(upstream) == 0 {
		result.Status = entity.ImportNotAcceptable
		r.finish(log, result)
		return result, nil
	}

	count, err := r.dbRepo.CountCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count currencies: %w", err)
	}
	if count == 0 {
		log.Info("Currency catalog is empty, bootstrapping")
		loaded, err := r.catalog.Load(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("bootstrap catalog: %w", err)
		}
		result.CatalogLoaded += loaded
	}

	rows, err := r.resolveRates(ctx, log, upstream, result)
	if err != nil {
		return nil, err
	}

	inserted, err := r.dbRepo.StoreRates(ctx, date, rows)
	if err != nil {
		log.Errorf("Failed to store rates: %v", err)
		return nil, fmt.Errorf("store rates: %w", err)
	}

	result.Status = entity.ImportCreated
	result.Inserted = inserted
	r.notify(ctx, log, result)
	r.finish(log, result)
	return result, nil
}

// resolveRates attaches every upstream rate to a stored currency. Unknown ids
// trigger one catalog repair; ids still unknown after it abort the import.
func (r *RateService) resolveRates(ctx context.Context, log *logrus.Entry, upstream []nbrb.Rate, result *entity.ImportResult) ([]entity.Rate, error) {
	known, err := r.knownIDs(ctx)
	if err != nil {
		return nil, err
	}
	rows, missing, err := convertRates(upstream, known)
	if err != nil {
		return nil, fmt.Errorf("convert rates: %w", err)
	}
	if len(missing) == 0 {
		return rows, nil
	}

	log.WithField("missing", missing).Warn("Rates reference unknown currencies, repairing catalog")
	loaded, err := r.catalog.Repair(ctx, upstream)
	if err != nil {
		return nil, fmt.Errorf("repair catalog: %w", err)
	}
	result.CatalogLoaded += loaded

	known, err = r.knownIDs(ctx)
	if err != nil {
		return nil, err
	}
	rows, missing, err = convertRates(upstream, known)
	if err != nil {
		return nil, fmt.Errorf("convert rates: %w", err)
	}
	if len(missing) > 0 {
		log.WithField("missing", missing).Error("Currencies still unknown after catalog repair")
		return nil, fmt.Errorf("%w: ids %v", ErrUnresolvedCurrency, missing)
	}
	return rows, nil
}

func (r *RateService) knownIDs(ctx context.Context) (map[int]struct{}, error) {
	ids, err := r.dbRepo.ListCurrencyIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currency ids: %w", err)
	}
	return idSet(ids), nil
}

func (r *RateService) notify(ctx context.Context, log *logrus.Entry, result *entity.ImportResult) {
	if r.notifier == nil {
		return
	}
	event := entity.ImportEvent{
		Date:     result.Date.Format(entity.DateLayout),
		Inserted: result.Inserted,
	}
	if err := r.notifier.NotifyImported(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish import event")
	}
}

func (r *RateService) finish(log *logrus.Entry, result *entity.ImportResult) {
	r.metrics.ObserveImport(result.Status.String(), result.Inserted)
	log.WithFields(logrus.Fields{
		"status":         result.Status.String(),
		"inserted":       result.Inserted,
		"catalog_loaded": result.CatalogLoaded,
	}).Info("Rate import: FINISH")
}

// GetRate returns the rate of code on date with its change against the day before.
func (r *RateService) GetRate(ctx context.Context, code string, date time.Time) (*entity.RateDelta, error) {
	code = strings.ToUpper(code)
	date = entity.TruncateDay(date)

	current, err := r.dbRepo.GetRateByCodeAndDate(ctx, code, date)
	if err != nil {
		if !errors.Is(err, postgres.ErrNotFound) {
			r.logger.Errorf("Failed to get rate for %s on %s: %v", code, date.Format(entity.DateLayout), err)
		}
		return nil, fmt.Errorf("get rate: %w", err)
	}

	var previous *entity.Rate
	prev, err := r.dbRepo.GetRateByCodeAndDate(ctx, code, date.AddDate(0, 0, -1))
	switch {
	case err == nil:
		previous = &prev.Rate
	case errors.Is(err, postgres.ErrNotFound):
		r.logger.Debugf("No previous day rate for %s, delta is zero", code)
	default:
		return nil, fmt.Errorf("get previous rate: %w", err)
	}

	delta := entity.NewRateDelta(*current, previous)
	r.logger.Infof("Found rate for %s on %s: %s (%s)", code, date.Format(entity.DateLayout), delta.OfficialString(), delta.DeltaString())
	return &delta, nil
}

func (r *RateService) CurrencyCodes(ctx context.Context) ([]string, error) {
	codes, err := r.dbRepo.ListCurrencyCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currency codes: %w", err)
	}
	return codes, nil
}

func (r *RateService) ListCurrencies(ctx context.Context) ([]entity.Currency, error) {
	currencies, err := r.dbRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return currencies, nil
}

func (r *RateService) LoadCatalog(ctx context.Context, filterIDs []int) (int64, error) {
	return r.catalog.Load(ctx, filterIDs)
}

func (r *RateService) Ping(ctx context.Context) error {
	return r.dbRepo.Ping(ctx)
}

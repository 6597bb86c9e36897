package service

import (
	"context"
	"fmt"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/adapter/postgres"
	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/metrics"

	"github.com/sirupsen/logrus"
)

type CatalogService struct {
	nbrb    nbrb.NbrbClient
	dbRepo  postgres.PostgresRepository
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

func NewCatalogService(client nbrb.NbrbClient, dbRepo postgres.PostgresRepository, logger *logrus.Logger, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		nbrb:    client,
		dbRepo:  dbRepo,
		logger:  logger,
		metrics: m,
	}
}

// Load fetches the NBRB catalog and stores it. A non-empty filterIDs restricts
// the load to those currency ids. Currencies already stored are left as is.
func (s *CatalogService) Load(ctx context.Context, filterIDs []int) (int64, error) {
	s.logger.Info("Catalog load: START")

	upstream, err := s.nbrb.FetchCurrencies(ctx)
	if err != nil {
		s.logger.Errorf("Failed to fetch currencies from NBRB: %v", err)
		return 0, fmt.Errorf("fetch currencies: %w", err)
	}
	if len(upstream) == 0 {
		s.logger.Warn("Catalog load: FINISH, NBRB returned no currencies")
		return 0, nil
	}

	filter := idSet(filterIDs)
	rows := make([]entity.Currency, 0, len(upstream))
	for _, c := range upstream {
		if len(filter) > 0 {
			if _, ok := filter[c.ID]; !ok {
				continue
			}
		}
		currency, err := convertCurrency(c)
		if err != nil {
			s.logger.WithError(err).Warnf("Skipped currency %d (%s)", c.ID, c.Abbreviation)
			continue
		}
		rows = append(rows, currency)
		if len(filter) > 0 {
			s.logger.WithFields(logrus.Fields{"cur_id": currency.ID, "code": currency.Code}).Info("Catalog load: currency added")
		}
	}

	inserted, err := s.dbRepo.StoreCurrencies(ctx, rows)
	if err != nil {
		s.logger.Errorf("Failed to store currencies: %v", err)
		return 0, fmt.Errorf("store currencies: %w", err)
	}
	s.metrics.ObserveCatalog(inserted, false)

	s.logger.Infof("Catalog load: %d loaded FINISH", inserted)
	return inserted, nil
}

// Repair loads the currencies referenced by rates that the store does not know yet.
func (s *CatalogService) Repair(ctx context.Context, rates []nbrb.Rate) (int64, error) {
	s.logger.Info("Catalog repair: START")

	ids, err := s.dbRepo.ListCurrencyIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list currency ids: %w", err)
	}

	missing := missingCurrencyIDs(rates, idSet(ids))
	if len(missing) == 0 {
		s.logger.Info("Catalog repair: FINISH, nothing missing")
		return 0, nil
	}

	s.metrics.ObserveCatalog(0, true)
	s.logger.WithField("missing", missing).Info("Catalog repair: loading missing currencies")

	loaded, err := s.Load(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("repair catalog: %w", err)
	}

	s.logger.Infof("Catalog repair: %d added FINISH", loaded)
	return loaded, nil
}

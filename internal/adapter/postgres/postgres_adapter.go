package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nbrb-rates/internal/entity"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	currenciesTable = "currencies"
	ratesTable      = "rates"
)

var (
	psql        = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	ErrNotFound = errors.New("not found")
)

var currencyColumns = []string{
	"cur_id", "cur_parent_id", "numeric_code", "code",
	"name", "name_bel", "name_eng",
	"quot_name", "quot_name_bel", "quot_name_eng",
	"name_multi", "name_multi_bel", "name_multi_eng",
	"scale", "periodicity", "date_start", "date_end",
}

type PostgresRepo struct {
	pool   Pool
	logger *logrus.Logger
}

func NewPostgresRepo(pool Pool, logger *logrus.Logger) *PostgresRepo {
	return &PostgresRepo{
		pool:   pool,
		logger: logger,
	}
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func insertCurrencyQuery(c entity.Currency) sq.InsertBuilder {
	return psql.Insert(currenciesTable).
		Columns(currencyColumns...).
		Values(
			c.ID, c.ParentID, c.NumericCode, c.Code,
			c.Name, c.NameBel, c.NameEng,
			c.QuotName, c.QuotNameBel, c.QuotNameEng,
			c.NameMulti, c.NameMultiBel, c.NameMultiEng,
			c.Scale, int(c.Periodicity), c.DateStart, c.DateEnd,
		).
		Suffix("ON CONFLICT (cur_id) DO NOTHING")
}

func insertRateQuery(rate entity.Rate) sq.InsertBuilder {
	return psql.Insert(ratesTable).
		Columns("currency_id", "date", "official").
		Values(rate.CurrencyID, rate.Date, rate.Official).
		Suffix("ON CONFLICT (currency_id, date) DO NOTHING")
}

func (r *PostgresRepo) CountCurrencies(ctx context.Context) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").From(currenciesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.logger.WithError(err).Error("Failed to count currencies")
		return 0, fmt.Errorf("count currencies: %w", err)
	}
	return count, nil
}

func (r *PostgresRepo) ListCurrencyIDs(ctx context.Context) ([]int, error) {
	query, args, err := psql.Select("cur_id").From(currenciesTable).OrderBy("cur_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query currency ids")
		return nil, fmt.Errorf("query currency ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan currency id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currency ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepo) StoreCurrencies(ctx context.Context, currencies []entity.Currency) (int64, error) {
	r.logger.Infof("Start storing %d currencies", len(currencies))
	if len(currencies) == 0 {
		return 0, nil
	}

	queries := make([]sq.InsertBuilder, 0, len(currencies))
	for _, c := range currencies {
		queries = append(queries, insertCurrencyQuery(c))
	}

	inserted, err := r.execBatch(ctx, "currencies", queries)
	if err != nil {
		return 0, err
	}

	r.logger.Infof("Successfully stored %d currencies", inserted)
	return inserted, nil
}

func (r *PostgresRepo) ListCurrencies(ctx context.Context) ([]entity.Currency, error) {
	query, args, err := psql.Select(currencyColumns...).
		From(currenciesTable).
		OrderBy("code", "cur_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query currencies")
		return nil, fmt.Errorf("query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []entity.Currency
	for rows.Next() {
		var (
			c           entity.Currency
			periodicity int
		)
		err := rows.Scan(
			&c.ID, &c.ParentID, &c.NumericCode, &c.Code,
			&c.Name, &c.NameBel, &c.NameEng,
			&c.QuotName, &c.QuotNameBel, &c.QuotNameEng,
			&c.NameMulti, &c.NameMultiBel, &c.NameMultiEng,
			&c.Scale, &periodicity, &c.DateStart, &c.DateEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		c.Periodicity = entity.Periodicity(periodicity)
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currencies: %w", err)
	}
	return currencies, nil
}

func (r *PostgresRepo) ListCurrencyCodes(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("code").Distinct().
		From(currenciesTable).
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query currency codes")
		return nil, fmt.Errorf("query currency codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan currency code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currency codes: %w", err)
	}
	return codes, nil
}

func (r *PostgresRepo) HasRatesOnDate(ctx context.Context, date time.Time) (bool, error) {
	query, args, err := psql.Select("1").
		From(ratesTable).
		Where(sq.Eq{"date": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.logger.WithError(err).WithField("date", date.Format(entity.DateLayout)).Error("Failed to check rates on date")
		return false, fmt.Errorf("check rates on date: %w", err)
	}
	return true, nil
}

func (r *PostgresRepo) StoreRates(ctx context.Context, date time.Time, rates []entity.Rate) (int64, error) {
	log := r.logger.WithField("date", date.Format(entity.DateLayout))
	log.Info("Start storing currency rates")

	if len(rates) == 0 {
		return 0, nil
	}

	queries := make([]sq.InsertBuilder, 0, len(rates))
	for _, rate := range rates {
		queries = append(queries, insertRateQuery(rate))
	}

	inserted, err := r.execBatch(ctx, "rates", queries)
	if err != nil {
		return 0, err
	}

	log.Infof("Successfully stored %d rates", inserted)
	return inserted, nil
}

func rateByCodeAndDateQuery(code string, date time.Time) sq.SelectBuilder {
	return psql.
		Select(
			"r.id", "r.currency_id", "r.date", "r.official::text",
			"c.cur_id", "c.numeric_code", "c.code", "c.name", "c.name_multi", "c.scale",
		).
		From(ratesTable + " r").
		Join(currenciesTable + " c ON c.cur_id = r.currency_id").
		Where(sq.Eq{"c.code": strings.ToUpper(code), "r.date": date}).
		OrderBy("r.id").
		Limit(1)
}

func (r *PostgresRepo) GetRateByCodeAndDate(ctx context.Context, code string, date time.Time) (*entity.CurrencyRate, error) {
	fields := logrus.Fields{"code": code, "date": date.Format(entity.DateLayout)}
	r.logger.WithFields(fields).Debug("Getting currency rate by code and date")

	query, args, err := rateByCodeAndDateQuery(code, date).ToSql()
	if err != nil {
		r.logger.WithError(err).Error("Failed to build select query for rate")
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		rate     entity.CurrencyRate
		official string
	)
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&rate.ID,
		&rate.CurrencyID,
		&rate.Date,
		&official,
		&rate.Currency.ID,
		&rate.Currency.NumericCode,
		&rate.Currency.Code,
		&rate.Currency.Name,
		&rate.Currency.NameMulti,
		&rate.Currency.Scale,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithFields(fields).Debug("Rate not found in DB")
			return nil, ErrNotFound
		}
		r.logger.WithError(err).WithFields(fields).Error("Failed to query rate")
		return nil, fmt.Errorf("query scan: %w", err)
	}

	rate.Official, err = decimal.NewFromString(official)
	if err != nil {
		return nil, fmt.Errorf("parse official rate %q: %w", official, err)
	}

	r.logger.WithFields(logrus.Fields{
		"code":     rate.Currency.Code,
		"date":     rate.Date.Format(entity.DateLayout),
		"official": official,
	}).Info("Successfully retrieved currency rate")
	return &rate, nil
}

// execBatch runs every insert in one transaction and returns the number of
// rows actually written. Any failed statement rolls the whole batch back.
func (r *PostgresRepo) execBatch(ctx context.Context, what string, queries []sq.InsertBuilder) (int64, error) {
	batch := &pgx.Batch{}
	for i, q := range queries {
		query, args, err := q.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert %d for %s: %w", i, what, err)
		}
		batch.Queue(query, args...)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to begin transaction for %s", what)
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	br := tx.SendBatch(ctx, batch)

	var batchErrs error
	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			batchErrs = multierr.Append(batchErrs, err)
			r.logger.WithError(err).Errorf("Failed batch exec for %s %d", what, i)
		} else {
			inserted += ct.RowsAffected()
		}
	}

	if err := br.Close(); err != nil {
		batchErrs = multierr.Append(batchErrs, err)
		r.logger.WithError(err).Errorf("Failed to close batch results for %s", what)
	}

	if batchErrs != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.logger.WithError(rbErr).Errorf("Failed to rollback %s tx after batch errors", what)
		}
		return 0, fmt.Errorf("batch exec/close errors for %s: %w", what, batchErrs)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithError(err).Errorf("Failed to commit %s tx", what)
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return inserted, nil
}

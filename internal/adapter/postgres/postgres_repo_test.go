package postgres

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"nbrb-rates/internal/entity"

	sq "github.com/Masterminds/squirrel"
	"github.com/bxcodec/faker/v3"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := NewPostgresRepo(mock, logger)
	return repo, mock
}

var testDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func testCurrencies() []entity.Currency {
	start := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC)
	return []entity.Currency{
		{ID: 431, ParentID: 145, NumericCode: "840", Code: "USD", Name: faker.Word(), Scale: 1, DateStart: start, DateEnd: end},
		{ID: 451, ParentID: 292, NumericCode: "978", Code: "EUR", Name: faker.Word(), Scale: 1, DateStart: start, DateEnd: end},
	}
}

func testRates() []entity.Rate {
	return []entity.Rate{
		{CurrencyID: 431, Date: testDate, Official: decimal.RequireFromString("3.1533")},
		{CurrencyID: 451, Date: testDate, Official: decimal.RequireFromString("3.4562")},
	}
}

func TestCountCurrencies(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, _, err := psql.Select("COUNT(*)").From("currencies").ToSql()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(180)))

	count, err := repo.CountCurrencies(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(180), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrencyIDs(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, _, err := psql.Select("cur_id").From("currencies").OrderBy("cur_id").ToSql()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"cur_id"}).AddRow(431).AddRow(451))

	ids, err := repo.ListCurrencyIDs(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []int{431, 451}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrencyIDs_Error(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, _, err := psql.Select("cur_id").From("currencies").OrderBy("cur_id").ToSql()
	require.NoError(t, err)

	expectedErr := errors.New("database error")
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(expectedErr)

	ids, err := repo.ListCurrencyIDs(context.Background())
	assert.Nil(t, ids)
	assert.ErrorContains(t, err, expectedErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCurrencies(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	currencies := testCurrencies()

	mock.ExpectBegin()
	eb := mock.ExpectBatch()
	for _, c := range currencies {
		query, args, err := insertCurrencyQuery(c).ToSql()
		require.NoError(t, err)
		eb.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(args...).
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
	}
	mock.ExpectCommit()

	inserted, err := repo.StoreCurrencies(context.Background(), currencies)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCurrencies_AlreadyPresentIsSkipped(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	currencies := testCurrencies()

	mock.ExpectBegin()
	eb := mock.ExpectBatch()
	q1, a1, err := insertCurrencyQuery(currencies[0]).ToSql()
	require.NoError(t, err)
	eb.ExpectExec(regexp.QuoteMeta(q1)).WithArgs(a1...).WillReturnResult(pgconn.NewCommandTag("INSERT 0 0"))
	q2, a2, err := insertCurrencyQuery(currencies[1]).ToSql()
	require.NoError(t, err)
	eb.ExpectExec(regexp.QuoteMeta(q2)).WithArgs(a2...).WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
	mock.ExpectCommit()

	inserted, err := repo.StoreCurrencies(context.Background(), currencies)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCurrencies_Empty(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	inserted, err := repo.StoreCurrencies(context.Background(), nil)
	assert.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrencies(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, _, err := psql.Select(currencyColumns...).From("currencies").OrderBy("code", "cur_id").ToSql()
	require.NoError(t, err)

	c := testCurrencies()[0]
	c.Periodicity = entity.PeriodicityMonthly
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows(currencyColumns).AddRow(
			c.ID, c.ParentID, c.NumericCode, c.Code,
			c.Name, c.NameBel, c.NameEng,
			c.QuotName, c.QuotNameBel, c.QuotNameEng,
			c.NameMulti, c.NameMultiBel, c.NameMultiEng,
			c.Scale, 1, c.DateStart, c.DateEnd,
		))

	currencies, err := repo.ListCurrencies(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []entity.Currency{c}, currencies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCurrencyCodes(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, _, err := psql.Select("code").Distinct().From("currencies").OrderBy("code").ToSql()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"code"}).AddRow("EUR").AddRow("USD"))

	codes, err := repo.ListCurrencyCodes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"EUR", "USD"}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func hasRatesQuery(t *testing.T) (string, []any) {
	query, args, err := psql.Select("1").From("rates").Where(sq.Eq{"date": testDate}).Limit(1).ToSql()
	require.NoError(t, err)
	return query, args
}

func TestHasRatesOnDate(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args := hasRatesQuery(t)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.HasRatesOnDate(context.Background(), testDate)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasRatesOnDate_None(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args := hasRatesQuery(t)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnError(pgx.ErrNoRows)

	exists, err := repo.HasRatesOnDate(context.Background(), testDate)
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasRatesOnDate_Error(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args := hasRatesQuery(t)
	expectedErr := errors.New("database error")
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnError(expectedErr)

	exists, err := repo.HasRatesOnDate(context.Background(), testDate)
	assert.False(t, exists)
	assert.ErrorContains(t, err, expectedErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRates(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	rates := testRates()

	mock.ExpectBegin()
	eb := mock.ExpectBatch()
	for _, rate := range rates {
		query, args, err := insertRateQuery(rate).ToSql()
		require.NoError(t, err)
		eb.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs(args...).
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
	}
	mock.ExpectCommit()

	inserted, err := repo.StoreRates(context.Background(), testDate, rates)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRates_ErrorInBatch(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	rates := testRates()

	mock.ExpectBegin()
	eb := mock.ExpectBatch()

	// First insert succeeds
	q1, a1, err := insertRateQuery(rates[0]).ToSql()
	require.NoError(t, err)
	eb.ExpectExec(regexp.QuoteMeta(q1)).WithArgs(a1...).WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))

	// Second insert fails
	q2, a2, err := insertRateQuery(rates[1]).ToSql()
	require.NoError(t, err)
	expectedErr := errors.New("insert error")
	eb.ExpectExec(regexp.QuoteMeta(q2)).WithArgs(a2...).WillReturnError(expectedErr)

	mock.ExpectRollback()

	inserted, err := repo.StoreRates(context.Background(), testDate, rates)
	assert.Zero(t, inserted)
	assert.ErrorContains(t, err, expectedErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRates_BeginError(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	_, err := repo.StoreRates(context.Background(), testDate, testRates())
	assert.ErrorContains(t, err, "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRates_Empty(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	inserted, err := repo.StoreRates(context.Background(), testDate, []entity.Rate{})
	assert.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var rateColumns = []string{"id", "currency_id", "date", "official", "cur_id", "numeric_code", "code", "name", "name_multi", "scale"}

func TestGetRateByCodeAndDate(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args, err := rateByCodeAndDateQuery("USD", testDate).ToSql()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows(rateColumns).
			AddRow(int64(7), 431, testDate, "3.1533", 431, "840", "USD", "Доллар США", "Долларов США", 1))

	rate, err := repo.GetRateByCodeAndDate(context.Background(), "usd", testDate)
	require.NoError(t, err)

	assert.Equal(t, int64(7), rate.ID)
	assert.Equal(t, 431, rate.CurrencyID)
	assert.Equal(t, testDate, rate.Date)
	assert.True(t, rate.Official.Equal(decimal.RequireFromString("3.1533")))
	assert.Equal(t, entity.Currency{ID: 431, NumericCode: "840", Code: "USD", Name: "Доллар США", NameMulti: "Долларов США", Scale: 1}, rate.Currency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRateByCodeAndDate_NotFound(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args, err := rateByCodeAndDateQuery("USD", testDate).ToSql()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnError(pgx.ErrNoRows)

	rate, err := repo.GetRateByCodeAndDate(context.Background(), "USD", testDate)
	assert.Nil(t, rate)
	assert.Equal(t, ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRateByCodeAndDate_Error(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	query, args, err := rateByCodeAndDateQuery("USD", testDate).ToSql()
	require.NoError(t, err)

	expectedErr := errors.New("database error")
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(args...).
		WillReturnError(expectedErr)

	rate, err := repo.GetRateByCodeAndDate(context.Background(), "USD", testDate)
	assert.Nil(t, rate)
	assert.ErrorContains(t, err, expectedErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	repo, mock := setupTestRepo(t)
	defer mock.Close()

	mock.ExpectPing()

	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

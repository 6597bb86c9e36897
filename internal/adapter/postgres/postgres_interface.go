package postgres

import (
	"context"
	"time"

	"nbrb-rates/internal/entity"

	"github.com/jackc/pgx/v5"
)

type PostgresRepository interface {
	CountCurrencies(ctx context.Context) (int64, error)
	ListCurrencyIDs(ctx context.Context) ([]int, error)
	StoreCurrencies(ctx context.Context, currencies []entity.Currency) (int64, error)
	ListCurrencies(ctx context.Context) ([]entity.Currency, error)
	ListCurrencyCodes(ctx context.Context) ([]string, error)

	HasRatesOnDate(ctx context.Context, date time.Time) (bool, error)
	StoreRates(ctx context.Context, date time.Time, rates []entity.Rate) (int64, error)
	GetRateByCodeAndDate(ctx context.Context, code string, date time.Time) (*entity.CurrencyRate, error)

	Ping(ctx context.Context) error
}

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

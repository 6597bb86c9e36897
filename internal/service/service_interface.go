package service

import (
	"context"
	"errors"
	"time"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/entity"
)

// ErrUnresolvedCurrency is returned when NBRB rates still reference unknown
// currency ids after the catalog was repaired.
var ErrUnresolvedCurrency = errors.New("unresolved currency")

type CurrencyService interface {
	ImportRates(ctx context.Context, date time.Time) (*entity.ImportResult, error)
	GetRate(ctx context.Context, code string, date time.Time) (*entity.RateDelta, error)
	CurrencyCodes(ctx context.Context) ([]string, error)
	ListCurrencies(ctx context.Context) ([]entity.Currency, error)
	LoadCatalog(ctx context.Context, filterIDs []int) (int64, error)
	Ping(ctx context.Context) error
}

type CatalogLoader interface {
	Load(ctx context.Context, filterIDs []int) (int64, error)
	Repair(ctx context.Context, rates []nbrb.Rate) (int64, error)
}

// ImportNotifier is told about every successful rate import.
type ImportNotifier interface {
	NotifyImported(ctx context.Context, event entity.ImportEvent) error
}

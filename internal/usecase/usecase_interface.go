package usecase

import (
	"context"

	"nbrb-rates/internal/entity"
)

type RateUsecase interface {
	SelectDate(ctx context.Context) *SelectDateResponse
	RateForm(ctx context.Context) (*RateFormResponse, error)
	GetRate(ctx context.Context, dateStr, code string) (*RateResponse, error)
	ImportRates(ctx context.Context, dateStr string) (*ImportResponse, error)
	ListCurrencies(ctx context.Context) ([]entity.Currency, error)
	LoadCatalog(ctx context.Context, filterIDs []int) (*CatalogResponse, error)
	Ping(ctx context.Context) error
}

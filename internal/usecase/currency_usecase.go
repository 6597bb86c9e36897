package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nbrb-rates/internal/adapter/postgres"
	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/service"

	"github.com/sirupsen/logrus"
)

type CurrencyUsecase struct {
	service service.CurrencyService
	logger  *logrus.Logger
	now     func() time.Time
}

func NewCurrencyUsecase(service service.CurrencyService, logger *logrus.Logger) *CurrencyUsecase {
	return &CurrencyUsecase{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

var charCodeRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

func (uc *CurrencyUsecase) today() string {
	return uc.now().Format(entity.DateLayout)
}

func parseDate(dateStr string) (time.Time, error) {
	date, err := time.Parse(entity.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, InvalidDateError(dateStr)
	}
	return date, nil
}

func (uc *CurrencyUsecase) SelectDate(ctx context.Context) *SelectDateResponse {
	return &SelectDateResponse{DateDefault: uc.today()}
}

func (uc *CurrencyUsecase) RateForm(ctx context.Context) (*RateFormResponse, error) {
	codes, err := uc.service.CurrencyCodes(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to list currency codes")
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return &RateFormResponse{DateDefault: uc.today(), CurrencyList: codes}, nil
}

func (uc *CurrencyUsecase) GetRate(ctx context.Context, dateStr, code string) (*RateResponse, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		uc.logger.Warnf("Bad rate date %q", dateStr)
		return nil, err
	}

	upper := strings.ToUpper(code)
	if !charCodeRegexp.MatchString(upper) {
		uc.logger.Warnf("Bad currency code format %q", code)
		return nil, InvalidCodeError(code)
	}

	rate, err := uc.service.GetRate(ctx, upper, date)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, &RequestError{
				Err:     err,
				Message: fmt.Sprintf(`Data on the currency "%s" for the date %s is not loaded.`, code, date.Format(entity.DateLayout)),
			}
		}
		uc.logger.WithError(err).Errorf("Failed to get rate for %s on %s", upper, dateStr)
		return nil, err
	}

	official := rate.OfficialString()
	delta := rate.DeltaString()
	return &RateResponse{
		Rate:  official,
		Delta: delta,
		Currency: CurrencyResponse{
			NumericCode: rate.Currency.NumericCode,
			Code:        rate.Currency.Code,
			Name:        rate.Currency.Name,
			NameMulti:   rate.Currency.NameMulti,
			Scale:       rate.Currency.Scale,
		},
		Message: fmt.Sprintf("%s (%d) %s %s(%s)", rate.Currency.Name, rate.Currency.Scale, rate.Currency.Code, official, delta),
	}, nil
}

func (uc *CurrencyUsecase) ImportRates(ctx context.Context, dateStr string) (*ImportResponse, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		uc.logger.Warnf("Bad import date %q", dateStr)
		return nil, err
	}
	day := date.Format(entity.DateLayout)

	result, err := uc.service.ImportRates(ctx, date)
	if err != nil {
		if errors.Is(err, service.ErrUnresolvedCurrency) {
			return nil, &RequestError{
				Err:     err,
				Message: fmt.Sprintf("Currency data for the date %s references currencies missing from the NBRB catalog.", day),
			}
		}
		uc.logger.WithError(err).Errorf("Failed to import rates for %s", day)
		return nil, err
	}

	resp := &ImportResponse{Status: result.Status, Date: day, Inserted: result.Inserted}
	switch result.Status {
	case entity.ImportCreated:
		resp.Message = fmt.Sprintf("Currency data for date %s loaded successfully.", day)
	case entity.ImportConflict:
		resp.Message = fmt.Sprintf("Currency data for the date %s already exists in the system.", day)
	default:
		resp.Status = entity.ImportNotAcceptable
		resp.Message = fmt.Sprintf("Currency data for the date %s is not available in the NBRB system.", day)
	}
	return resp, nil
}

func (uc *CurrencyUsecase) ListCurrencies(ctx context.Context) ([]entity.Currency, error) {
	currencies, err := uc.service.ListCurrencies(ctx)
	if err != nil {
		uc.logger.WithError(err).Error("Failed to list currencies")
		return nil, err
	}
	if currencies == nil {
		currencies = []entity.Currency{}
	}
	return currencies, nil
}

// LoadCatalog loads the NBRB catalog, restricted to filterIDs when given.
func (uc *CurrencyUsecase) LoadCatalog(ctx context.Context, filterIDs []int) (*CatalogResponse, error) {
	uc.logger.Info("Loading currency catalog from NBRB...")
	loaded, err := uc.service.LoadCatalog(ctx, filterIDs)
	if err != nil {
		return nil, err
	}
	return &CatalogResponse{Loaded: loaded}, nil
}

func (uc *CurrencyUsecase) Ping(ctx context.Context) error {
	return uc.service.Ping(ctx)
}

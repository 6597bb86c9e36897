package usecase

import "nbrb-rates/internal/entity"

type SelectDateResponse struct {
	DateDefault string `json:"date_default"`
}

type RateFormResponse struct {
	DateDefault  string   `json:"date_default"`
	CurrencyList []string `json:"currency_list"`
}

type CurrencyResponse struct {
	NumericCode string `json:"numeric_code"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	NameMulti   string `json:"name_multi"`
	Scale       int    `json:"scale"`
}

type RateResponse struct {
	Rate     string           `json:"rate"`
	Delta    string           `json:"delta"`
	Currency CurrencyResponse `json:"currency"`
	Message  string           `json:"message"`
}

// ImportResponse only serializes the message; the rest drives the status code.
type ImportResponse struct {
	Message  string              `json:"message"`
	Status   entity.ImportStatus `json:"-"`
	Date     string              `json:"-"`
	Inserted int64               `json:"-"`
}

type CatalogResponse struct {
	Loaded int64 `json:"loaded"`
}

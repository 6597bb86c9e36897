package nbrb

import (
	"context"
	"time"
)

// NbrbClient reads the NBRB exchange rates API. A non-success upstream status
// is not an error: the result is simply empty.
type NbrbClient interface {
	FetchCurrencies(ctx context.Context) ([]Currency, error)
	FetchRates(ctx context.Context, date time.Time) ([]Rate, error)
}

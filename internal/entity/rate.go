package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"

	// RateScale is the number of fraction digits NBRB publishes.
	RateScale = 4
)

type Rate struct {
	ID         int64           `db:"id" json:"id,omitempty"`
	CurrencyID int             `db:"currency_id" json:"currency_id"`
	Date       time.Time       `db:"date" json:"date"`
	Official   decimal.Decimal `db:"official" json:"official"`
}

// CurrencyRate is a stored rate joined with its currency.
type CurrencyRate struct {
	Rate
	Currency Currency
}

// RateDelta is a rate together with its change against the previous day.
type RateDelta struct {
	CurrencyRate
	Delta decimal.Decimal
	// HasPrevious is false when no rate was loaded for the day before.
	HasPrevious bool
}

func NewRateDelta(current CurrencyRate, previous *Rate) RateDelta {
	if previous == nil {
		return RateDelta{CurrencyRate: current, Delta: decimal.Zero}
	}
	return RateDelta{
		CurrencyRate: current,
		Delta:        current.Official.Sub(previous.Official),
		HasPrevious:  true,
	}
}

// DeltaString renders the delta with an explicit plus sign for growth.
func (d RateDelta) DeltaString() string {
	if !d.HasPrevious {
		return "0"
	}
	s := d.Delta.StringFixed(RateScale)
	if d.Delta.IsPositive() {
		return "+" + s
	}
	return s
}

func (d RateDelta) OfficialString() string {
	return d.Official.StringFixed(RateScale)
}

// TruncateDay drops the clock part, keeping the calendar day in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

package service

import (
	"testing"
	"time"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCurrency(t *testing.T) {
	c := upstreamCurrency(431, "USD", "840")
	c.Periodicity = 1

	got, err := convertCurrency(c)
	require.NoError(t, err)
	assert.Equal(t, 431, got.ID)
	assert.Equal(t, "USD", got.Code)
	assert.Equal(t, "840", got.NumericCode)
	assert.Equal(t, c.NameBelMulti, got.NameMultiBel)
	assert.Equal(t, c.NameEngMulti, got.NameMultiEng)
	assert.Equal(t, entity.PeriodicityMonthly, got.Periodicity)
	assert.Equal(t, time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), got.DateStart)
	assert.Equal(t, time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC), got.DateEnd)
}

func TestConvertCurrency_BadDate(t *testing.T) {
	c := upstreamCurrency(431, "USD", "840")
	c.DateStart = "01.01.1991"

	_, err := convertCurrency(c)
	assert.ErrorContains(t, err, "date start")
}

func TestConvertRates(t *testing.T) {
	rows, missing, err := convertRates(sampleRates(), idSet([]int{431, 451}))
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, expectedRows(), rows)
}

func TestConvertRates_Missing(t *testing.T) {
	rates := append(sampleRates(), nbrb.Rate{ID: 451, Date: "2024-03-01T00:00:00"}, nbrb.Rate{ID: 300, Date: "2024-03-01T00:00:00"})

	rows, missing, err := convertRates(rates, idSet([]int{431}))
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, []int{300, 451}, missing)
}

func TestConvertRates_BadDate(t *testing.T) {
	rates := []nbrb.Rate{{ID: 431, Date: "2024/03/01", OfficialRate: decimal.NewFromInt(3)}}

	_, _, err := convertRates(rates, idSet([]int{431}))
	assert.ErrorContains(t, err, "2024/03/01")
}

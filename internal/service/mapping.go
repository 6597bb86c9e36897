package service

import (
	"fmt"
	"sort"

	"nbrb-rates/internal/adapter/nbrb"
	"nbrb-rates/internal/entity"
)

func convertCurrency(c nbrb.Currency) (entity.Currency, error) {
	start, end, err := c.ValidityRange()
	if err != nil {
		return entity.Currency{}, err
	}
	return entity.Currency{
		ID:           c.ID,
		ParentID:     c.ParentID,
		NumericCode:  c.Code,
		Code:         c.Abbreviation,
		Name:         c.Name,
		NameBel:      c.NameBel,
		NameEng:      c.NameEng,
		QuotName:     c.QuotName,
		QuotNameBel:  c.QuotNameBel,
		QuotNameEng:  c.QuotNameEng,
		NameMulti:    c.NameMulti,
		NameMultiBel: c.NameBelMulti,
		NameMultiEng: c.NameEngMulti,
		Scale:        c.Scale,
		Periodicity:  entity.Periodicity(c.Periodicity),
		DateStart:    start,
		DateEnd:      end,
	}, nil
}

// convertRates maps upstream rates onto known currencies. Ids absent from
// known come back in missing and no rows are built for them.
func convertRates(rates []nbrb.Rate, known map[int]struct{}) (rows []entity.Rate, missing []int, err error) {
	missing = missingCurrencyIDs(rates, known)
	if len(missing) > 0 {
		return nil, missing, nil
	}

	rows = make([]entity.Rate, 0, len(rates))
	for _, r := range rates {
		date, err := r.ParsedDate()
		if err != nil {
			return nil, nil, fmt.Errorf("rate %d (%s) date %q: %w", r.ID, r.Abbreviation, r.Date, err)
		}
		rows = append(rows, entity.Rate{
			CurrencyID: r.ID,
			Date:       date,
			Official:   r.OfficialRate,
		})
	}
	return rows, nil, nil
}

// missingCurrencyIDs returns the sorted distinct ids of rates not in known.
func missingCurrencyIDs(rates []nbrb.Rate, known map[int]struct{}) []int {
	seen := make(map[int]struct{})
	var missing []int
	for _, r := range rates {
		if _, ok := known[r.ID]; ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		missing = append(missing, r.ID)
	}
	sort.Ints(missing)
	return missing
}

func idSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

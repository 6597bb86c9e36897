package entity

import "time"

// Periodicity tells how often NBRB publishes the rate of a currency.
type Periodicity int

const (
	PeriodicityDaily   Periodicity = 0
	PeriodicityMonthly Periodicity = 1
)

func (p Periodicity) String() string {
	switch p {
	case PeriodicityDaily:
		return "daily"
	case PeriodicityMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Currency is one entry of the NBRB currency catalog. ID is the NBRB internal
// identifier (Cur_ID); one alphabetic code can map to several IDs over time.
type Currency struct {
	ID           int         `db:"cur_id" json:"cur_id"`
	ParentID     int         `db:"cur_parent_id" json:"cur_parent_id"`
	NumericCode  string      `db:"numeric_code" json:"numeric_code"`
	Code         string      `db:"code" json:"code"`
	Name         string      `db:"name" json:"name"`
	NameBel      string      `db:"name_bel" json:"name_bel,omitempty"`
	NameEng      string      `db:"name_eng" json:"name_eng,omitempty"`
	QuotName     string      `db:"quot_name" json:"quot_name,omitempty"`
	QuotNameBel  string      `db:"quot_name_bel" json:"quot_name_bel,omitempty"`
	QuotNameEng  string      `db:"quot_name_eng" json:"quot_name_eng,omitempty"`
	NameMulti    string      `db:"name_multi" json:"name_multi,omitempty"`
	NameMultiBel string      `db:"name_multi_bel" json:"name_multi_bel,omitempty"`
	NameMultiEng string      `db:"name_multi_eng" json:"name_multi_eng,omitempty"`
	Scale        int         `db:"scale" json:"scale"`
	Periodicity  Periodicity `db:"periodicity" json:"periodicity"`
	DateStart    time.Time   `db:"date_start" json:"date_start"`
	DateEnd      time.Time   `db:"date_end" json:"date_end"`
}

func (c Currency) String() string {
	return c.Code + "(" + c.NumericCode + ") " + c.Name
}

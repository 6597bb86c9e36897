package nbrb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the format of every date NBRB embeds in its payloads.
const TimestampLayout = "2006-01-02T15:04:05"

type Currency struct {
	ID           int    `json:"Cur_ID"`
	ParentID     int    `json:"Cur_ParentID"`
	Code         string `json:"Cur_Code"`
	Abbreviation string `json:"Cur_Abbreviation"`
	Name         string `json:"Cur_Name"`
	NameBel      string `json:"Cur_Name_Bel"`
	NameEng      string `json:"Cur_Name_Eng"`
	QuotName     string `json:"Cur_QuotName"`
	QuotNameBel  string `json:"Cur_QuotName_Bel"`
	QuotNameEng  string `json:"Cur_QuotName_Eng"`
	NameMulti    string `json:"Cur_NameMulti"`
	NameBelMulti string `json:"Cur_Name_BelMulti"`
	NameEngMulti string `json:"Cur_Name_EngMulti"`
	Scale        int    `json:"Cur_Scale"`
	Periodicity  int    `json:"Cur_Periodicity"`
	DateStart    string `json:"Cur_DateStart"`
	DateEnd      string `json:"Cur_DateEnd"`
}

func (c Currency) ValidityRange() (start, end time.Time, err error) {
	start, err = ParseTimestamp(c.DateStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("currency %d date start: %w", c.ID, err)
	}
	end, err = ParseTimestamp(c.DateEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("currency %d date end: %w", c.ID, err)
	}
	return start, end, nil
}

type Rate struct {
	ID           int             `json:"Cur_ID"`
	Date         string          `json:"Date"`
	Abbreviation string          `json:"Cur_Abbreviation"`
	Scale        int             `json:"Cur_Scale"`
	Name         string          `json:"Cur_Name"`
	OfficialRate decimal.Decimal `json:"Cur_OfficialRate"`
}

func (r Rate) ParsedDate() (time.Time, error) {
	return ParseTimestamp(r.Date)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

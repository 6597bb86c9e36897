package entity

import "time"

type ImportStatus int

const (
	ImportCreated ImportStatus = iota + 1
	// ImportConflict means rates for the date were already loaded.
	ImportConflict
	// ImportNotAcceptable means NBRB returned no rates for the date.
	ImportNotAcceptable
)

func (s ImportStatus) String() string {
	switch s {
	case ImportCreated:
		return "created"
	case ImportConflict:
		return "conflict"
	case ImportNotAcceptable:
		return "not_acceptable"
	default:
		return "unknown"
	}
}

type ImportResult struct {
	Date     time.Time
	Status   ImportStatus
	Inserted int64
	// CatalogLoaded counts currencies added by bootstrap or repair.
	CatalogLoaded int64
}

// ImportEvent is published after rates for a date have been stored.
type ImportEvent struct {
	Date     string `json:"date"`
	Inserted int64  `json:"inserted"`
}

package appointment

import (
	"sync"
)

// Saver persists the full collection on every mutation. Implemented by
// ledger.Ledger.
type Saver interface {
	Save(records []Appointment) error
	Path() string
}

// Store owns the authoritative in-memory collection. Mutations and saves
// share one write lock so a save never iterates a torn slice.
type Store struct {
	mu         sync.RWMutex
	records    []Appointment
	saver      Saver
	maxPerHour int
	format     string
}

func NewStore(saver Saver, maxPerHour int, format string, records []Appointment) *Store {
	if maxPerHour <= 0 {
		maxPerHour = 4
	}
	if format == "" {
		format = Format
	}
	return &Store{
		records:    records,
		saver:      saver,
		maxPerHour: maxPerHour,
		format:     format,
	}
}

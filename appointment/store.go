package appointment

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// List returns a copy of the collection sorted ascending by schedule,
// ties in insertion order.
func (s *Store) List() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Appointment, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledAt < out[j].ScheduledAt
	})
	return out
}

// Search returns the sorted collection filtered by a case-insensitive
// substring match on the patient name. An empty query matches everything.
func (s *Store) Search(name string) []Appointment {
	all := s.List()
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return all
	}
	out := make([]Appointment, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}

// CountInBucket reports how many records share the candidate's
// (year, month, day, hour) bucket. Stored values that no longer parse are
// skipped; an unparsable candidate counts as zero rather than failing.
func (s *Store) CountInBucket(scheduledAt string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked(scheduledAt)
}

func (s *Store) countLocked(scheduledAt string) int {
	dt, err := time.Parse(s.format, scheduledAt)
	if err != nil {
		return 0
	}
	want := bucketOf(dt)

	n := 0
	for _, a := range s.records {
		adt, err := time.Parse(s.format, a.ScheduledAt)
		if err != nil {
			continue
		}
		if bucketOf(adt) == want {
			n++
		}
	}
	return n
}

// Insert validates the input, enforces the per-hour capacity limit, appends
// a new record and persists the full collection before returning. A failed
// save rolls the append back so memory never runs ahead of disk.
func (s *Store) Insert(name, address, reason, scheduledAt string) (Appointment, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	reason = strings.TrimSpace(reason)
	scheduledAt = strings.TrimSpace(scheduledAt)

	if name == "" || scheduledAt == "" {
		return Appointment{}, errRequired
	}
	if _, err := time.Parse(s.format, scheduledAt); err != nil {
		return Appointment{}, errInvalidDatetime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countLocked(scheduledAt) >= s.maxPerHour {
		return Appointment{}, &CapacityError{Max: s.maxPerHour}
	}

	appt := Appointment{
		ID:          uuid.NewString(),
		Name:        name,
		Address:     address,
		Reason:      reason,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.records = append(s.records, appt)
	if err := s.saver.Save(s.records); err != nil {
		s.records = s.records[:len(s.records)-1]
		return Appointment{}, err
	}
	return appt, nil
}

// Delete removes the record with the given id and persists. ErrNotFound is
// returned when the id is absent; nothing is written in that case. A failed
// save restores the record at its original index.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.records, func(a Appointment) bool { return a.ID == id })
	if idx < 0 {
		return ErrNotFound
	}

	removed := s.records[idx]
	s.records = slices.Delete(s.records, idx, idx+1)
	if err := s.saver.Save(s.records); err != nil {
		s.records = slices.Insert(s.records, idx, removed)
		return err
	}
	return nil
}

// ExportPath persists the current collection and returns the ledger path
// for the caller to stream back as a download.
func (s *Store) ExportPath() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saver.Save(s.records); err != nil {
		return "", err
	}
	return s.saver.Path(), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

package appointment

import (
	"errors"
	"fmt"
	"time"
)

// Format is the fixed minute-precision layout schedule values must parse
// under. It is zero-padded and fixed-width, so lexicographic order on the
// raw strings equals chronological order.
const Format = "2006-01-02T15:04"

type Appointment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Reason      string `json:"reason"`
	ScheduledAt string `json:"datetime"`
	CreatedAt   string `json:"created_at"`
}

// ErrNotFound is returned by Delete when no record has the given id.
var ErrNotFound = errors.New("appointment not found")

// ValidationError rejects malformed or missing input. The message is
// written to the client verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	errRequired        = &ValidationError{msg: "Name and datetime are required."}
	errInvalidDatetime = &ValidationError{msg: "Invalid datetime format."}
)

// CapacityError rejects an insert into an hour bucket that already holds
// the maximum number of appointments.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string { return fmt.Sprintf("Hour full (max %d).", e.Max) }

// bucket is the (year, month, day, hour) grouping key capacity is
// enforced on.
type bucket struct {
	year  int
	month time.Month
	day   int
	hour  int
}

func bucketOf(t time.Time) bucket {
	return bucket{year: t.Year(), month: t.Month(), day: t.Day(), hour: t.Hour()}
}

// Package id generates time-sortable identifiers for journal rows.
package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// entropy is monotonic within a millisecond and safe for concurrent use.
var entropy = ulid.DefaultEntropy()

// New returns a ULID stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID stamped with t. Risk events use the event time so
// their IDs sort with the log.
func NewAt(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		// Monotonic entropy overflowed inside one millisecond.
		id = ulid.MustNew(ulid.Timestamp(t), rand.Reader)
	}
	return id.String()
}

// Time extracts the timestamp from an ID produced by New or NewAt.
func Time(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}

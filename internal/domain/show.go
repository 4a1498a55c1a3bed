package domain

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SeatMap records which seats of a show are taken and by whom. Keys are seat
// labels ("A1", "B12"), values are the holding user's id. An absent label
// means the seat is free.
type SeatMap map[string]int

func (m SeatMap) Held(label string) bool {
	_, ok := m[label]
	return ok
}

// AnyHeld reports whether at least one of the given labels is already taken.
func (m SeatMap) AnyHeld(labels []string) bool {
	for _, label := range labels {
		if _, ok := m[label]; ok {
			return true
		}
	}

	return false
}

// Labels returns the taken seat labels in lexical order.
func (m SeatMap) Labels() []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	return labels
}

type Show struct {
	ID            int
	MovieID       int
	StartTime     time.Time
	BasePrice     decimal.Decimal
	OccupiedSeats SeatMap
	Version       int
	CreatedAt     time.Time
}

// CancellableAt reports whether bookings for the show can still be cancelled
// at the given time. Cancellation requires at least cutoff lead before
// showtime.
func (s *Show) CancellableAt(now time.Time, cutoff time.Duration) error {
	if s.StartTime.Sub(now) <= cutoff {
		return ErrCancellationWindowClosed
	}

	return nil
}

type ShowRepository interface {
	GetById(ctx context.Context, id int) (*Show, error)
}

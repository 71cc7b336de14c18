package schedule

import (
	"context"
	"time"
)

// Repository defines persistence operations for one schedule collection.
// Golf and mahjong schedules use separate instances of the same
// implementation, parametrized by collection.
type Repository interface {
	Insert(ctx context.Context, s *Schedule) (string, error)
	// FindByMonth returns both variants for the given YYYY-MM key, ordered by
	// dateStr ascending then creation order.
	FindByMonth(ctx context.Context, monthKey string) ([]*Schedule, error)
	FindByID(ctx context.Context, id string) (*Schedule, error)
	UpdateRecruit(ctx context.Context, id string, upd *RecruitUpdate) error
	Delete(ctx context.Context, id string) error
	// SwapParticipants atomically replaces the participant list and remaining
	// count, but only when the stored document still holds exactly the
	// participants the caller's decision was computed from. Returns
	// ErrConflict when the precondition no longer holds.
	SwapParticipants(ctx context.Context, id string, expected []string, participants []string, recruitCount int) error
}

// entrySliceEqual compares stored participant arrays for CAS preconditions.
func entrySliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// parseDateTime combines a YYYY-MM-DD date and an HH:mm start time into a
// single point in time for sorting and range queries. A missing or malformed
// time falls back to midnight, matching what the forms have always produced.
func parseDateTime(dateStr, startTime string) time.Time {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return d
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golfmatch/go-services/pkg/metrics"
)

// maxJoinRetries bounds the CAS loop around joins. Contention on a single
// post is human-scale, so a handful of retries is plenty.
const maxJoinRetries = 5

// Service encapsulates schedule business logic for one collection; the app
// runs two instances, one for golf and one for mahjong.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Create validates the form, stamps the derived month key and date-time, and
// persists the new post.
func (s *Service) Create(ctx context.Context, posterID string, form *Form) (string, error) {
	if posterID == "" {
		return "", fmt.Errorf("%w: posterId is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", form.DateStr); err != nil {
		return "", fmt.Errorf("%w: dateStr must be YYYY-MM-DD", ErrValidation)
	}

	doc := &Schedule{
		Type:      form.Type,
		PosterID:  posterID,
		DateStr:   form.DateStr,
		MonthKey:  MonthKey(form.DateStr),
		CreatedAt: time.Now().UTC(),
	}

	switch form.Type {
	case TypeRecruit:
		venue := strings.TrimSpace(form.VenueName)
		if venue == "" {
			return "", fmt.Errorf("%w: venueName is required for recruit posts", ErrValidation)
		}
		if form.RecruitCount < 0 {
			return "", fmt.Errorf("%w: recruitCount must not be negative", ErrValidation)
		}
		doc.StartTime = form.StartTime
		doc.PlayTimeSlot = form.PlayTimeSlot
		doc.ExpectedPlayTime = form.ExpectedPlayTime
		doc.DateTime = parseDateTime(form.DateStr, form.StartTime)
		doc.VenueName = venue
		doc.PlayFee = form.PlayFee
		doc.RecruitCount = form.RecruitCount
		doc.Participants = form.Participants
		if doc.Participants == nil {
			doc.Participants = []string{}
		}
		doc.IsCompetition = form.IsCompetition
		doc.CompetitionName = strings.TrimSpace(form.CompetitionName)
	case TypeWish:
		doc.WishDateStart = parseDateTime(form.DateStr, "")
		doc.WishVenueName = strings.TrimSpace(form.WishVenueName)
		doc.WishArea = strings.TrimSpace(form.WishArea)
		doc.MaxPlayFee = form.MaxPlayFee
	default:
		return "", fmt.Errorf("%w: unknown schedule type %q", ErrValidation, form.Type)
	}

	return s.repo.Insert(ctx, doc)
}

// ListByMonth returns all posts whose partition key equals the argument,
// ordered by date then creation order.
func (s *Service) ListByMonth(ctx context.Context, monthKey string) ([]*Schedule, error) {
	if monthKey == "" {
		return nil, fmt.Errorf("%w: month key is required", ErrValidation)
	}
	return s.repo.FindByMonth(ctx, monthKey)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Schedule, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateRecruit applies an owner edit to a recruit post. The month partition
// key and sortable date-time are recomputed here from the submitted date.
func (s *Service) UpdateRecruit(ctx context.Context, id string, upd *RecruitUpdate) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Type != TypeRecruit {
		return ErrInvalidType
	}
	if _, err := time.Parse("2006-01-02", upd.DateStr); err != nil {
		return fmt.Errorf("%w: dateStr must be YYYY-MM-DD", ErrValidation)
	}
	venue := strings.TrimSpace(upd.VenueName)
	if venue == "" {
		return fmt.Errorf("%w: venueName is required for recruit posts", ErrValidation)
	}
	if upd.RecruitCount < 0 {
		return fmt.Errorf("%w: recruitCount must not be negative", ErrValidation)
	}
	upd.VenueName = venue
	upd.CompetitionName = strings.TrimSpace(upd.CompetitionName)
	if upd.Participants == nil {
		upd.Participants = []string{}
	}
	upd.monthKey = MonthKey(upd.DateStr)
	upd.dateTime = parseDateTime(upd.DateStr, upd.StartTime)
	return s.repo.UpdateRecruit(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Join admits one person to a recruit post: dedupe against the existing
// entries, check capacity, then append the encoded entry and decrement the
// remaining count in a single CAS write. Returns the new remaining count.
func (s *Service) Join(ctx context.Context, id, displayName, userID string) (int, error) {
	if strings.TrimSpace(displayName) == "" {
		return 0, fmt.Errorf("%w: displayName is required", ErrValidation)
	}
	candidate := Participant{UserID: userID, DisplayName: displayName}

	for attempt := 0; attempt < maxJoinRetries; attempt++ {
		doc, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if doc.Type != TypeRecruit {
			return 0, ErrInvalidType
		}
		for _, raw := range doc.Participants {
			if ParseParticipant(raw).Same(candidate) {
				metrics.ScheduleJoins.WithLabelValues("duplicate").Inc()
				return 0, ErrAlreadyJoined
			}
		}
		if doc.RecruitCount <= 0 {
			metrics.ScheduleJoins.WithLabelValues("full").Inc()
			return 0, ErrCapacityExhausted
		}

		next := append(append([]string(nil), doc.Participants...), candidate.Encode())
		remaining := doc.RecruitCount - 1
		err = s.repo.SwapParticipants(ctx, id, doc.Participants, next, remaining)
		if err == ErrConflict {
			continue
		}
		if err != nil {
			return 0, err
		}
		metrics.ScheduleJoins.WithLabelValues("joined").Inc()
		return remaining, nil
	}
	metrics.ScheduleJoins.WithLabelValues("conflict").Inc()
	return 0, ErrConflict
}

// RemoveParticipant removes the entry at the given position during an owner
// edit and gives the slot back. The remaining count stays at or above zero.
func (s *Service) RemoveParticipant(ctx context.Context, id string, index int) (int, error) {
	for attempt := 0; attempt < maxJoinRetries; attempt++ {
		doc, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if doc.Type != TypeRecruit {
			return 0, ErrInvalidType
		}
		if index < 0 || index >= len(doc.Participants) {
			return 0, fmt.Errorf("%w: participant index out of range", ErrValidation)
		}

		next := append([]string(nil), doc.Participants[:index]...)
		next = append(next, doc.Participants[index+1:]...)
		remaining := doc.RecruitCount + 1
		if remaining < 0 {
			remaining = 0
		}
		err = s.repo.SwapParticipants(ctx, id, doc.Participants, next, remaining)
		if err == ErrConflict {
			continue
		}
		if err != nil {
			return 0, err
		}
		return remaining, nil
	}
	return 0, ErrConflict
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golfmatch/go-services/internal/profile"
	"github.com/golfmatch/go-services/pkg/logger"
	"github.com/golfmatch/go-services/pkg/metrics"
)

// MaxBatchSize is the LINE multicast per-call recipient limit.
const MaxBatchSize = 500

// ErrInvalidRequest indicates a notify request with no satisfiable targeting
// mode or missing message payload.
var ErrInvalidRequest = errors.New("invalid notify request")

// Result is the partial-failure accounting for one delivery attempt.
// "Partial success" is a first-class outcome: Success stays true while
// Errors records the batches that failed.
type Result struct {
	Success      bool     `json:"success"`
	Sent         bool     `json:"sent"`
	SentCount    int      `json:"sentCount"`
	TotalTargets int      `json:"totalTargets,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// Service resolves notification recipients and delivers batched text
// messages through the LINE client.
type Service struct {
	client   Client
	profiles *profile.Service
	appURL   string
}

func NewService(client Client, profiles *profile.Service, appURL string) *Service {
	return &Service{client: client, profiles: profiles, appURL: appURL}
}

func notConfiguredResult() *Result {
	return &Result{Success: true, Sent: false, SentCount: 0, Message: "LINE notify is not configured"}
}

// Bulk resolves recipients by notification tags, or by the mahjong recruiting
// opt-in flag when mahjongMode is set, and broadcasts one rendered message.
// Exactly one targeting mode applies per call; tags win when both are given.
func (s *Service) Bulk(ctx context.Context, tags []string, mahjongMode bool, info *ScheduleSummary) (*Result, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: schedule info is required", ErrInvalidRequest)
	}
	if len(tags) == 0 && !mahjongMode {
		return nil, fmt.Errorf("%w: no profile tags selected", ErrInvalidRequest)
	}

	if s.client == nil || !s.client.Configured() {
		logger.Warnf("bulk notify requested but LINE channel token is not configured")
		return notConfiguredResult(), nil
	}

	var (
		targets []*profile.UserProfile
		err     error
	)
	if len(tags) > 0 {
		targets, err = s.profiles.FindByTags(ctx, tags)
	} else {
		targets, err = s.profiles.FindMahjongRecruitTargets(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	ids := make([]string, 0, len(targets))
	for _, p := range targets {
		ids = append(ids, p.UserID)
	}
	if len(ids) == 0 {
		return &Result{Success: true, Sent: false, SentCount: 0, Message: "no matching recipients"}, nil
	}

	text := renderBulkMessage(info, mahjongMode, s.appURL)
	sentCount, batchErrs := s.broadcast(ctx, ids, text)
	return &Result{
		Success:      true,
		Sent:         sentCount > 0,
		SentCount:    sentCount,
		TotalTargets: len(ids),
		Errors:       batchErrs,
	}, nil
}

// Guide broadcasts a free-text message to an explicit recipient list.
func (s *Service) Guide(ctx context.Context, recipientIDs []string, message string) (*Result, error) {
	if len(recipientIDs) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidRequest)
	}
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidRequest)
	}
	if s.client == nil || !s.client.Configured() {
		logger.Warnf("guide notify requested but LINE channel token is not configured")
		return notConfiguredResult(), nil
	}

	sentCount, batchErrs := s.broadcast(ctx, recipientIDs, text)
	return &Result{
		Success:      len(batchErrs) == 0,
		Sent:         sentCount > 0,
		SentCount:    sentCount,
		TotalTargets: len(recipientIDs),
		Errors:       batchErrs,
	}, nil
}

// ScheduleUpdate tells existing participants that a post changed. An empty
// recipient list is a no-op success, not an error.
func (s *Service) ScheduleUpdate(ctx context.Context, recipientIDs []string, summary string) (*Result, error) {
	if len(recipientIDs) == 0 {
		return &Result{Success: true, Sent: false, SentCount: 0}, nil
	}
	text := strings.TrimSpace(summary)
	if text == "" {
		text = defaultUpdateMessage
	}
	if s.client == nil || !s.client.Configured() {
		logger.Warnf("schedule-update notify requested but LINE channel token is not configured")
		return notConfiguredResult(), nil
	}

	sentCount, _ := s.broadcast(ctx, recipientIDs, text)
	return &Result{Success: true, Sent: sentCount > 0, SentCount: sentCount}, nil
}

// NotifyOwner pushes a join notification to the post owner. Unlike the
// broadcast paths a delivery failure here is surfaced to the caller.
func (s *Service) NotifyOwner(ctx context.Context, ownerUserID, participantName string, info *ScheduleSummary) (*Result, error) {
	if ownerUserID == "" || participantName == "" || info == nil {
		return nil, fmt.Errorf("%w: ownerUserId, participantName and scheduleInfo are required", ErrInvalidRequest)
	}
	if s.client == nil || !s.client.Configured() {
		logger.Warnf("owner notify requested but LINE channel token is not configured")
		return notConfiguredResult(), nil
	}

	text := renderJoinMessage(participantName, info, s.appURL)
	if err := s.client.Push(ctx, ownerUserID, text); err != nil {
		metrics.NotifyBatchesFailed.WithLabelValues("push").Inc()
		return nil, fmt.Errorf("push to owner: %w", err)
	}
	metrics.NotificationsSent.WithLabelValues("push").Inc()
	return &Result{Success: true, Sent: true, SentCount: 1, TotalTargets: 1}, nil
}

// broadcast partitions the recipient list into multicast batches and keeps
// going past per-batch failures. No retry, no rollback.
func (s *Service) broadcast(ctx context.Context, ids []string, text string) (int, []string) {
	sentCount := 0
	var errs []string
	for i := 0; i < len(ids); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]
		batchNo := i/MaxBatchSize + 1
		if err := s.client.Multicast(ctx, batch, text); err != nil {
			logger.Errorf("multicast batch %d failed: %v", batchNo, err)
			metrics.NotifyBatchesFailed.WithLabelValues("multicast").Inc()
			errs = append(errs, fmt.Sprintf("batch %d failed to send", batchNo))
			continue
		}
		sentCount += len(batch)
		metrics.NotificationsSent.WithLabelValues("multicast").Add(float64(len(batch)))
	}
	return sentCount, errs
}

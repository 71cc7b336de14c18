package profile

import (
	"context"
	"fmt"
	"strings"
)

// Service encapsulates profile business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Save merges the provider-sourced LINE attributes with the user-edited form
// fields and upserts the profile record. Owner gating happens at the handler.
func (s *Service) Save(ctx context.Context, userID string, line LineProfile, form FormData) (*UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}
	checkboxes := form.ProfileCheckboxes
	if checkboxes == nil {
		checkboxes = []string{}
	}
	p := &UserProfile{
		UserID:               userID,
		DisplayName:          line.DisplayName,
		PictureURL:           line.PictureURL,
		StatusMessage:        line.StatusMessage,
		CompanyName:          strings.TrimSpace(form.CompanyName),
		AverageScore:         form.AverageScore,
		PlayStyle:            form.PlayStyle,
		ProfileCheckboxes:    checkboxes,
		MahjongRecruitNotify: form.MahjongRecruitNotify,
	}
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, userID string) (*UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// FindByTags resolves bulk-notification recipients by tag intersection. The
// store answers an any-of query; the intersection is re-checked here so a
// store that over-matches can never widen the audience.
func (s *Service) FindByTags(ctx context.Context, tags []string) ([]*UserProfile, error) {
	if len(tags) == 0 {
		return []*UserProfile{}, nil
	}
	candidates, err := s.repo.FindByAnyTag(ctx, tags)
	if err != nil {
		return nil, err
	}
	out := []*UserProfile{}
	for _, p := range candidates {
		if intersects(p.ProfileCheckboxes, tags) && p.UserID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindMahjongRecruitTargets resolves recipients for the mahjong recruiting
// opt-in broadcast mode.
func (s *Service) FindMahjongRecruitTargets(ctx context.Context) ([]*UserProfile, error) {
	candidates, err := s.repo.FindMahjongRecruitTargets(ctx)
	if err != nil {
		return nil, err
	}
	out := []*UserProfile{}
	for _, p := range candidates {
		if p.UserID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

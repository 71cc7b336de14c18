package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*UserProfile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*UserProfile)}
}

func (m *MemoryRepository) Upsert(ctx context.Context, p *UserProfile) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	m.store[p.UserID] = &cp
	return &cp, nil
}

func (m *MemoryRepository) GetByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) FindByAnyTag(ctx context.Context, tags []string) ([]*UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*UserProfile{}
	for _, p := range m.store {
		for _, tag := range tags {
			if containsTag(p.ProfileCheckboxes, tag) {
				cp := *p
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryRepository) FindMahjongRecruitTargets(ctx context.Context) ([]*UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*UserProfile{}
	for _, p := range m.store {
		if p.MahjongRecruitNotify {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func containsTag(set []string, tag string) bool {
	for _, s := range set {
		if s == tag {
			return true
		}
	}
	return false
}

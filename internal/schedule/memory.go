package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used for unit tests and local
// development without MongoDB. The mutex gives the same per-document
// atomicity the Mongo implementation gets from its CAS update.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int
	store map[string]*memEntry
}

type memEntry struct {
	doc *Schedule
	seq int // creation order tiebreak within a month
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*memEntry)}
}

func (m *MemoryRepository) Insert(ctx context.Context, s *Schedule) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.seq++
	cp := *s
	m.store[s.ID] = &memEntry{doc: &cp, seq: m.seq}
	return s.ID, nil
}

func (m *MemoryRepository) FindByMonth(ctx context.Context, monthKey string) ([]*Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*memEntry, 0)
	for _, e := range m.store {
		if e.doc.MonthKey == monthKey {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].doc.DateStr != entries[j].doc.DateStr {
			return entries[i].doc.DateStr < entries[j].doc.DateStr
		}
		return entries[i].seq < entries[j].seq
	})
	out := make([]*Schedule, 0, len(entries))
	for _, e := range entries {
		cp := *e.doc
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e.doc
	return &cp, nil
}

func (m *MemoryRepository) UpdateRecruit(ctx context.Context, id string, upd *RecruitUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	d := e.doc
	d.DateStr = upd.DateStr
	d.StartTime = upd.StartTime
	d.PlayTimeSlot = upd.PlayTimeSlot
	d.ExpectedPlayTime = upd.ExpectedPlayTime
	d.DateTime = upd.dateTime
	d.VenueName = upd.VenueName
	d.PlayFee = upd.PlayFee
	d.RecruitCount = upd.RecruitCount
	d.Participants = append([]string(nil), upd.Participants...)
	d.IsCompetition = upd.IsCompetition
	d.CompetitionName = upd.CompetitionName
	d.MonthKey = upd.monthKey
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) SwapParticipants(ctx context.Context, id string, expected []string, participants []string, recruitCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if !entrySliceEqual(e.doc.Participants, expected) {
		return ErrConflict
	}
	e.doc.Participants = append([]string(nil), participants...)
	e.doc.RecruitCount = recruitCount
	return nil
}

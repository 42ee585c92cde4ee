package prefs

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	profile     *Profile
	theme       string
	searchPhone string
	welcomeAt   time.Time
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) entry(visitorID string) *memoryEntry {
	e, ok := s.entries[visitorID]
	if !ok {
		e = &memoryEntry{}
		s.entries[visitorID] = e
	}
	return e
}

func (s *MemoryStore) Profile(_ context.Context, visitorID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[visitorID]
	if !ok || e.profile == nil {
		return nil, nil
	}
	p := *e.profile
	return &p, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, visitorID string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(visitorID).profile = &p
	return nil
}

func (s *MemoryStore) Theme(_ context.Context, visitorID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[visitorID]; ok && e.theme != "" {
		return e.theme, nil
	}
	return ThemeLight, nil
}

func (s *MemoryStore) SaveTheme(_ context.Context, visitorID, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(visitorID).theme = theme
	return nil
}

func (s *MemoryStore) SearchPhone(_ context.Context, visitorID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[visitorID]; ok {
		return e.searchPhone, nil
	}
	return "", nil
}

func (s *MemoryStore) SaveSearchPhone(_ context.Context, visitorID, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(visitorID).searchPhone = phone
	return nil
}

func (s *MemoryStore) WelcomeDismissedAt(_ context.Context, visitorID string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[visitorID]; ok {
		return e.welcomeAt, nil
	}
	return time.Time{}, nil
}

func (s *MemoryStore) MarkWelcomeDismissed(_ context.Context, visitorID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(visitorID).welcomeAt = at
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, visitorID)
	return nil
}

package chat

import (
	"context"
	"sync"
	"time"
)

type memoryRate struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps chat state in process. State is lost on restart and not
// shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]Profile
	contexts map[string]Context
	rates    map[string]*memoryRate
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: map[string]Profile{},
		contexts: map[string]Context{},
		rates:    map[string]*memoryRate{},
		now:      time.Now,
	}
}

func (s *MemoryStore) LoadProfile(ctx context.Context, userID string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[userID]
	p.History = append([]Message(nil), p.History...)
	p.Interests = append([]string(nil), p.Interests...)
	p.Concerns = append([]string(nil), p.Concerns...)
	p.Preferences = append([]string(nil), p.Preferences...)
	return p, nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, userID string, p Profile) error {
	s.mu.Lock()
	s.profiles[userID] = p
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadContext(ctx context.Context, userID string) (Context, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[userID]
	if !ok {
		return newContext(), false, nil
	}
	c.TopicsDiscussed = append([]string(nil), c.TopicsDiscussed...)
	c.UserQuestions = append([]string(nil), c.UserQuestions...)
	return c, true, nil
}

func (s *MemoryStore) SaveContext(ctx context.Context, userID string, c Context) error {
	s.mu.Lock()
	s.contexts[userID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CountMessage(ctx context.Context, userID string, window time.Duration) (RateWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	r, ok := s.rates[userID]
	if !ok || now.After(r.resetAt) {
		r = &memoryRate{resetAt: now.Add(window)}
		s.rates[userID] = r
	}
	r.count++
	return RateWindow{Count: r.count, ResetAt: r.resetAt}, nil
}

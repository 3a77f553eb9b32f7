package storage

import (
	"context"
	"sync"

	"github.com/xaenox/interview-bot/internal/models"
)

type memoryEntry struct {
	mu      sync.Mutex
	session *models.InterviewSession
}

// MemoryStorage keeps sessions for the lifetime of the process. Nothing is evicted.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStorage) entry(userID string, create bool) *memoryEntry {
	s.mu.RLock()
	e, exists := s.sessions[userID]
	s.mu.RUnlock()
	if exists || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.sessions[userID]; exists {
		return e
	}
	e = &memoryEntry{session: models.NewInterviewSession(userID)}
	s.sessions[userID] = e
	return e
}

func (s *MemoryStorage) Get(ctx context.Context, userID string) (*models.InterviewSession, error) {
	e := s.entry(userID, false)
	if e == nil {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

func (s *MemoryStorage) GetOrCreate(ctx context.Context, userID string) (*models.InterviewSession, error) {
	e := s.entry(userID, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Update holds the entry lock while fn runs, so one user's messages are applied in turn
// while other users proceed.
func (s *MemoryStorage) Update(ctx context.Context, userID string, fn UpdateFunc) error {
	e := s.entry(userID, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

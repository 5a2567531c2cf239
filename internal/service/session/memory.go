package session

import (
	"context"
	"sync"
	"time"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

type memoryEntry struct {
	turns     []chat.Turn
	expiresAt time.Time
}

// MemoryStore keeps transcripts in process memory. Entries idle for longer
// than the TTL are treated as absent. Append sweeps expired entries at most
// once per TTL, so sessions that never return are released too.
type MemoryStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	entries   map[string]*memoryEntry
}

// NewMemoryStore returns an empty store. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

// Transcript implements Store.
func (s *MemoryStore) Transcript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	expired := ok && s.expired(entry)
	var turns []chat.Turn
	if ok && !expired {
		turns = chat.Clone(entry.turns)
	}
	s.mu.RUnlock()

	if expired {
		s.mu.Lock()
		if current, ok := s.entries[sessionID]; ok && s.expired(current) {
			delete(s.entries, sessionID)
		}
		s.mu.Unlock()
	}

	if turns == nil {
		return []chat.Turn{}, nil
	}
	return turns, nil
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...chat.Turn) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	entry, ok := s.entries[sessionID]
	if !ok || s.expired(entry) {
		entry = &memoryEntry{turns: make([]chat.Turn, 0, 16)}
		s.entries[sessionID] = entry
	}
	entry.turns = append(entry.turns, turns...)
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Len reports how many sessions currently hold a transcript.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// sweepLocked drops every expired entry once the sweep interval has passed.
// The caller must hold the write lock.
func (s *MemoryStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	if now.Before(s.nextSweep) {
		return
	}
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

func (s *MemoryStore) expired(entry *memoryEntry) bool {
	return s.ttl > 0 && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}

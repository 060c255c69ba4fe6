package game

import (
	"log"
	"sync"
	"time"

	"lingoplay/internal/models"
)

// Key identifies a session: one browser playing one mode of one lesson
type Key struct {
	SessionID string
	Mode      models.GameType
	LessonID  string
}

func (k Key) String() string {
	return k.SessionID + "|" + string(k.Mode) + "|" + k.LessonID
}

type storeEntry struct {
	session  *Session
	lastUsed time.Time
}

// Store keeps game sessions in memory and drops idle ones
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*storeEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without use
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*storeEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for key and marks it used
func (s *Store) Get(key Key) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[key.String()]
	if !ok {
		return nil, false
	}
	entry.lastUsed = s.now()
	return entry.session, true
}

// Put stores session under key, replacing any previous one
func (s *Store) Put(key Key, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key.String()] = &storeEntry{session: session, lastUsed: s.now()}
}

// Delete discards the session for key
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key.String())
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expired := 0
	for key, entry := range s.sessions {
		if now.Sub(entry.lastUsed) > s.ttl {
			delete(s.sessions, key)
			expired++
		}
	}
	if expired > 0 {
		log.Printf("Cleaned up %d idle game sessions", expired)
	}
	return expired
}

package importer

import (
	"sync"
	"time"
)

// Store holds one draft per owner and kind
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a draft store whose drafts expire after ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{drafts: make(map[string]*Draft), ttl: ttl, now: time.Now}
}

func draftKey(owner string, kind Kind) string {
	return owner + "|" + string(kind)
}

// Put stores draft, replacing owner's previous draft of the same kind
func (s *Store) Put(owner string, draft *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftKey(owner, draft.Kind)] = draft
}

// Get returns a copy of owner's draft for kind
func (s *Store) Get(owner string, kind Kind) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftKey(owner, kind)]
	if !ok {
		return nil, false
	}
	return draft.clone(), true
}

// Update applies fn to owner's draft for kind under the store lock
func (s *Store) Update(owner string, kind Kind, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftKey(owner, kind)]
	if !ok {
		return ErrEmptyDraft
	}
	return fn(draft)
}

// Delete discards owner's draft for kind
func (s *Store) Delete(owner string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftKey(owner, kind))
}

// Cleanup removes drafts older than the TTL
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for key, draft := range s.drafts {
		if draft.CreatedAt.Before(cutoff) {
			delete(s.drafts, key)
			removed++
		}
	}
	return removed
}

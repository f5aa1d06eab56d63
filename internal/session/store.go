package session

import (
	"context"
	"sync"
	"time"
)

// PendingBet is a proposed-but-unconfirmed simulated wager. At most one
// exists per session; a new proposal overwrites it (last write wins).
type PendingBet struct {
	FixtureID         string  `json:"fixture_id"`
	MarketType        string  `json:"market_type"`
	Selection         string  `json:"selection"`
	Stake             float64 `json:"stake"`
	PotentialWinnings float64 `json:"potential_winnings"`
}

// Context is the per-session conversational memory.
type Context struct {
	LastMentionedTeams      []string    `json:"last_mentioned_teams,omitempty"`
	LastMentionedTournament string      `json:"last_mentioned_tournament,omitempty"`
	PreferredBetTypes       []string    `json:"preferred_bet_types,omitempty"`
	PendingBet              *PendingBet `json:"pending_bet,omitempty"`
}

type entry struct {
	mu         sync.Mutex
	ctx        Context
	lastActive time.Time
}

// Store holds conversation contexts keyed by session id. Updates to one
// session are serialized on that session's own lock; sessions never block
// each other. Idle sessions are evicted after the configured TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store. ttl <= 0 disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) entryFor(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{lastActive: s.now()}
		s.sessions[id] = e
	}
	return e
}

// Get returns a snapshot of the session's context, creating the session
// lazily on first reference.
func (s *Store) Get(id string) Context {
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActive = s.now()
	return copyContext(e.ctx)
}

// Update applies fn to the session's context atomically.
func (s *Store) Update(id string, fn func(*Context)) {
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActive = s.now()
	fn(&e.ctx)
}

// Clear drops the session entirely.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor evicts idle sessions in the background until ctx is done.
// No-op when eviction is disabled.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *Store) evictIdle() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
		}
	}
}

func copyContext(c Context) Context {
	out := Context{LastMentionedTournament: c.LastMentionedTournament}
	if len(c.LastMentionedTeams) > 0 {
		out.LastMentionedTeams = append([]string(nil), c.LastMentionedTeams...)
	}
	if len(c.PreferredBetTypes) > 0 {
		out.PreferredBetTypes = append([]string(nil), c.PreferredBetTypes...)
	}
	if c.PendingBet != nil {
		bet := *c.PendingBet
		out.PendingBet = &bet
	}
	return out
}

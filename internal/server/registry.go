package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pokerhall/holdem/internal/game"
	"github.com/pokerhall/holdem/internal/randutil"
)

// ErrSessionNotFound is returned when a command targets an unknown or
// already destroyed session.
var ErrSessionNotFound = errors.New("session not found")

// Store is the injected backing map for sessions. The registry owns
// serialization; a Store only needs to be safe for concurrent map
// access.
type Store interface {
	Get(id string) (*game.Session, bool)
	Put(id string, s *game.Session)
	Delete(id string) bool
	List() []*game.Session
	Len() int
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*game.Session)}
}

func (m *MemoryStore) Get(id string) (*game.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemoryStore) Put(id string, s *game.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
}

func (m *MemoryStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *MemoryStore) List() []*game.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SinkFactory builds the event sink wired into a new session, scoped to
// its identifier.
type SinkFactory func(sessionID string) game.Sink

// Registry is the concurrent-safe home of sessions. Each session is a
// single-writer document: With serializes all commands against a given
// session behind a per-session lock, while different sessions proceed
// in parallel.
type Registry struct {
	store  Store
	rules  game.Rules
	logger *log.Logger
	sinks  SinkFactory

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	seeds int64
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store, rules game.Rules, logger *log.Logger, sinks SinkFactory) *Registry {
	if sinks == nil {
		sinks = func(string) game.Sink { return nil }
	}
	return &Registry{
		store:  store,
		rules:  rules,
		logger: logger.WithPrefix("registry"),
		sinks:  sinks,
		locks:  make(map[string]*sync.Mutex),
		seeds:  time.Now().UnixNano(),
	}
}

// Create registers a new idle session. An empty id gets a generated
// UUID. Creating an id that already exists returns the existing
// session.
func (r *Registry) Create(id string) *game.Session {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.store.Get(id); ok {
		return existing
	}

	opts := []game.Option{
		game.WithLogger(r.logger),
		game.WithRNG(randutil.New(r.nextSeed())),
	}
	if sink := r.sinks(id); sink != nil {
		opts = append(opts, game.WithSink(sink))
	}

	s := game.NewSession(id, r.rules, opts...)
	r.store.Put(id, s)
	r.locks[id] = &sync.Mutex{}
	r.logger.Info("session created", "session", id)
	return s
}

// With runs fn against the session while holding its exclusive command
// lock. It returns ErrSessionNotFound if the session does not exist or
// was destroyed while waiting for the lock, which is how stale timers
// against deleted sessions are ignored.
func (r *Registry) With(id string, fn func(*game.Session) error) error {
	r.mu.Lock()
	lock, ok := r.locks[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s, ok := r.store.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	return fn(s)
}

// Destroy removes a session and its lock.
func (r *Registry) Destroy(id string) bool {
	r.mu.Lock()
	delete(r.locks, id)
	r.mu.Unlock()

	if !r.store.Delete(id) {
		return false
	}
	r.logger.Info("session destroyed", "session", id)
	return true
}

// Snapshot returns the sanitized projection of one session.
func (r *Registry) Snapshot(id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := r.With(id, func(s *game.Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Snapshots returns sanitized projections of every session.
func (r *Registry) Snapshots() []game.Snapshot {
	sessions := r.store.List()
	out := make([]game.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		if snap, err := r.Snapshot(s.ID()); err == nil {
			out = append(out, snap)
		}
	}
	return out
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.store.Len()
}

// nextSeed hands each session its own deterministic-stream seed.
// Callers hold r.mu.
func (r *Registry) nextSeed() int64 {
	r.seeds++
	return r.seeds
}

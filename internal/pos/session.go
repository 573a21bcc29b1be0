package pos

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tillpoint-pos/tillpoint/internal/catalog"
	"github.com/tillpoint-pos/tillpoint/internal/salesqueue"
)

// Session is the state of one cashier terminal: the displayed catalog
// snapshot and the in-progress sales queue. Both are transient; abandoning a
// session simply drops the sale. Access is serialised through mu by the
// dispatcher.
type Session struct {
	ID      string
	Catalog *catalog.Snapshot
	Queue   *salesqueue.Queue

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Catalog:  catalog.NewSnapshot(),
		Queue:    salesqueue.NewQueue(),
		lastSeen: now,
	}
}

func (s *Session) touch(now time.Time) {
	s.lastSeen = now
}

// Store keeps live terminal sessions in memory and drops idle ones after the
// configured TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *slog.Logger
}

// NewStore builds Store.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Get returns the session for an ID when it is still live.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Create registers a new terminal session.
func (st *Store) Create() *Session {
	sess := newSession(uuid.NewString(), time.Now())
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts idle sessions until the context is cancelled.
func (st *Store) Sweep(ctx context.Context) error {
	ticker := time.NewTicker(st.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			st.evictExpired(now)
		}
	}
}

func (st *Store) evictExpired(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			st.logger.Info("evicted idle terminal session", slog.String("session", id))
		}
	}
}

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/navigation"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
)

// Store keeps active sessions in memory. Sessions are rebuilt from token
// claims on demand, so losing the map on restart is harmless. Entries
// expire on the token TTL; an expired entry behaves like an unknown ID.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
}

type entry struct {
	state     State
	expiresAt time.Time
}

// NewStore creates a session store whose entries expire after ttl, which
// should match the session token TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{ttl: ttl, sessions: make(map[string]entry)}
}

// Create stores a fresh session under a new ID and returns both.
func (st *Store) Create(state State) string {
	id := uuid.NewString()
	now := time.Now()

	st.mu.Lock()
	st.pruneLocked(now)
	st.sessions[id] = entry{state: state, expiresAt: now.Add(st.ttl)}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.RecordSessionsActive(n)
	return id
}

// Get returns the stored state for a session ID. When the ID is unknown
// or expired, for example after a process restart, the session is
// rehydrated from the token identity at the role's default page. The
// token itself carries the authoritative expiry; anything reaching here
// passed validation.
func (st *Store) Get(id string, identity *auth.Identity) State {
	now := time.Now()

	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok && now.Before(e.expiresAt) {
		return e.state
	}

	state := State{
		Account:    identity.Account,
		ActivePage: navigation.DefaultPage(identity.Account.Role),
		Language:   LangEnglish,
		loggedIn:   true,
	}

	st.mu.Lock()
	st.pruneLocked(now)
	st.sessions[id] = entry{state: state, expiresAt: now.Add(st.ttl)}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.RecordSessionsActive(n)
	return state
}

// Update replaces the stored state for an existing session, keeping its
// expiry. An unknown or expired ID gets a fresh expiry.
func (st *Store) Update(id string, state State) {
	now := time.Now()

	st.mu.Lock()
	e, ok := st.sessions[id]
	if !ok || !now.Before(e.expiresAt) {
		e.expiresAt = now.Add(st.ttl)
	}
	e.state = state
	st.sessions[id] = e
	st.mu.Unlock()
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.RecordSessionsActive(n)
}

// pruneLocked drops expired entries. Caller holds the write lock.
func (st *Store) pruneLocked(now time.Time) {
	for id, e := range st.sessions {
		if !now.Before(e.expiresAt) {
			delete(st.sessions, id)
		}
	}
}

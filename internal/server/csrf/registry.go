// Package csrf implements a per-session, per-form registry of single-use
// security tokens. Tokens are held in memory with their own expiry sweep,
// independent of the identity session store.
package csrf

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/rentacat/rentacat/internal/common"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// Registry issues and verifies form tokens. Every verification attempt,
// successful or not, consumes the token.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]map[string]entry
	ttl      time.Duration
	done     chan struct{}
	closed   sync.Once

	now func() time.Time // test seam
}

// NewRegistry creates a Registry whose tokens expire after ttl. A background
// janitor removes stale entries every sweepInterval until Close is called.
func NewRegistry(ttl, sweepInterval time.Duration) *Registry {
	r := &Registry{
		sessions: make(map[string]map[string]entry),
		ttl:      ttl,
		done:     make(chan struct{}),
		now:      time.Now,
	}

	go r.janitor(sweepInterval)

	return r
}

// Issue generates a 256-bit random token for formName, bound to sessionID,
// overwriting any prior token for that form.
func (r *Registry) Issue(sessionID, formName string) string {
	token := common.MakeRandHexString(32)

	r.mu.Lock()
	defer r.mu.Unlock()

	forms, ok := r.sessions[sessionID]
	if !ok {
		forms = make(map[string]entry)
		r.sessions[sessionID] = forms
	}
	forms[formName] = entry{token: token, expiresAt: r.now().Add(r.ttl)}

	return token
}

// Verify checks submitted against the stored token for (sessionID, formName).
// Missing, expired, and mismatched tokens all return false. The stored entry
// is deleted in every case, so a token can never be used twice.
func (r *Registry) Verify(sessionID, formName, submitted string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	forms, ok := r.sessions[sessionID]
	if !ok {
		return false
	}

	e, ok := forms[formName]
	if !ok {
		return false
	}

	delete(forms, formName)
	if len(forms) == 0 {
		delete(r.sessions, sessionID)
	}

	if r.now().After(e.expiresAt) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(e.token), []byte(submitted)) == 1
}

// DropSession removes all tokens bound to sessionID. Called on logout so a
// destroyed session leaves nothing behind.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Close stops the background janitor.
func (r *Registry) Close() {
	r.closed.Do(func() { close(r.done) })
}

func (r *Registry) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for sid, forms := range r.sessions {
		for name, e := range forms {
			if now.After(e.expiresAt) {
				delete(forms, name)
			}
		}
		if len(forms) == 0 {
			delete(r.sessions, sid)
		}
	}
}

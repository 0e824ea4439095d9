package transactions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type tokenState int

const (
	tokenInFlight tokenState = iota + 1
	tokenDone
)

type tokenEntry struct {
	state tokenState
	at    time.Time
}

// SubmitGuard tracks one-time form tokens so a double click or a browser
// resubmit cannot post the same transaction twice. It does not make the API
// idempotent; two different forms can still create two transactions.
type SubmitGuard struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]tokenEntry
}

// NewSubmitGuard keeps completed tokens for ttl.
func NewSubmitGuard(ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]tokenEntry),
	}
}

// NewToken issues a token for a freshly rendered form.
func NewToken() string {
	return uuid.New().String()
}

// Acquire marks token in flight. It fails when the token is already in
// flight or was completed.
func (g *SubmitGuard) Acquire(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expire()
	if _, seen := g.tokens[token]; seen {
		return false
	}
	g.tokens[token] = tokenEntry{state: tokenInFlight, at: g.now()}
	return true
}

// Complete marks token as used.
func (g *SubmitGuard) Complete(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens[token] = tokenEntry{state: tokenDone, at: g.now()}
}

// Release frees token after a failed call so the user can retry the same form.
func (g *SubmitGuard) Release(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.tokens, token)
}

func (g *SubmitGuard) expire() {
	cutoff := g.now().Add(-g.ttl)
	for token, e := range g.tokens {
		if e.at.Before(cutoff) {
			delete(g.tokens, token)
		}
	}
}

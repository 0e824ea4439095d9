package session

import (
	"sync"
	"time"
)

// Navigation carries page-to-page state (search results, a loan draft, the
// last transaction receipt) for one session without refetching it. It is
// in-memory only; losing it on restart just means a page refetches or starts
// over.
type Navigation struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]map[string]navEntry
}

type navEntry struct {
	value   interface{}
	expires time.Time
}

// NewNavigation creates a store whose entries live for ttl.
func NewNavigation(ttl time.Duration) *Navigation {
	return &Navigation{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]map[string]navEntry),
	}
}

// Put stores v under key for the session token.
func (n *Navigation) Put(token, key string, v interface{}) {
	if token == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	bucket, ok := n.items[token]
	if !ok {
		bucket = make(map[string]navEntry)
		n.items[token] = bucket
	}
	bucket[key] = navEntry{value: v, expires: n.now().Add(n.ttl)}
}

// Get returns the value without consuming it.
func (n *Navigation) Get(token, key string) (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lookup(token, key)
}

// Take returns the value and removes it.
func (n *Navigation) Take(token, key string) (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.lookup(token, key)
	if ok {
		delete(n.items[token], key)
	}
	return v, ok
}

// Delete removes key for token.
func (n *Navigation) Delete(token, key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if bucket, ok := n.items[token]; ok {
		delete(bucket, key)
	}
}

func (n *Navigation) lookup(token, key string) (interface{}, bool) {
	bucket, ok := n.items[token]
	if !ok {
		return nil, false
	}
	e, ok := bucket[key]
	if !ok {
		return nil, false
	}
	if n.now().After(e.expires) {
		delete(bucket, key)
		return nil, false
	}
	return e.value, true
}

// Clear drops everything held for token.
func (n *Navigation) Clear(token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.items, token)
}

// Sweep drops expired entries and empty sessions.
func (n *Navigation) Sweep() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	removed := 0
	for token, bucket := range n.items {
		for key, e := range bucket {
			if now.After(e.expires) {
				delete(bucket, key)
				removed++
			}
		}
		if len(bucket) == 0 {
			delete(n.items, token)
		}
	}
	return removed
}

// Carry is a typed Put.
func Carry[T any](n *Navigation, token, key string, v T) {
	n.Put(token, key, v)
}

// Carried is a typed Get.
func Carried[T any](n *Navigation, token, key string) (T, bool) {
	var zero T
	v, ok := n.Get(token, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// TakeCarried is a typed Take.
func TakeCarried[T any](n *Navigation, token, key string) (T, bool) {
	var zero T
	v, ok := n.Take(token, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// ABOUTME: Thread-safe TTL counter for failed login attempts keyed by client address.
// ABOUTME: Size-bounded with oldest-first eviction and a background sweeper.

package attempts

import (
	"container/list"
	"sync"
	"time"
)

// entry stores the failure count and list element for a tracked key.
type entry struct {
	count int
	first time.Time // start of the current window
	last  time.Time
	elem  *list.Element
}

// Limiter tracks failures per key. A key is blocked once it has reached
// maxAttempts failures within window of its first failure.
// Uses a doubly-linked list ordered by last failure for O(1) eviction.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	order       *list.List // keys by last failure (oldest at front)
	window      time.Duration
	maxAttempts int
	maxKeys     int
	now         func() time.Time
	done        chan struct{}
	closed      bool
}

// New creates a limiter. A background goroutine periodically drops
// expired entries; call Close to stop it.
func New(window time.Duration, maxAttempts, maxKeys int) *Limiter {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	l := &Limiter{
		entries:     make(map[string]*entry),
		order:       list.New(),
		window:      window,
		maxAttempts: maxAttempts,
		maxKeys:     maxKeys,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Blocked reports whether key has used up its attempts in the current window.
// A limiter with maxAttempts <= 0 never blocks.
func (l *Limiter) Blocked(key string) bool {
	if l.maxAttempts <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || l.expiredLocked(e) {
		return false
	}
	return e.count >= l.maxAttempts
}

// Fail records a failed attempt for key and returns the failure count in
// the current window. If the limiter is at capacity the key with the
// oldest failure is evicted.
func (l *Limiter) Fail(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if e, exists := l.entries[key]; exists {
		if l.expiredLocked(e) {
			e.count = 0
			e.first = now
		}
		e.count++
		e.last = now
		l.order.MoveToBack(e.elem)
		return e.count
	}

	if len(l.entries) >= l.maxKeys {
		l.evictOldest()
	}

	l.entries[key] = &entry{
		count: 1,
		first: now,
		last:  now,
		elem:  l.order.PushBack(key),
	}
	return 1
}

// Reset forgets key, typically after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[key]; ok {
		l.order.Remove(e.elem)
		delete(l.entries, key)
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// expiredLocked must be called with mu held.
func (l *Limiter) expiredLocked(e *entry) bool {
	return l.now().Sub(e.first) >= l.window
}

// evictOldest removes the key with the oldest failure. Must be called with mu held.
func (l *Limiter) evictOldest() {
	front := l.order.Front()
	if front == nil {
		return
	}

	key, _ := front.Value.(string)
	l.order.Remove(front)
	delete(l.entries, key)
}

// cleanup runs in a background goroutine, periodically removing expired entries.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.runCleanup()
		case <-l.done:
			return
		}
	}
}

// runCleanup removes all expired entries.
func (l *Limiter) runCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if l.expiredLocked(e) {
			l.order.Remove(e.elem)
			delete(l.entries, key)
		}
	}
}

// Close stops the background cleanup goroutine. It is safe to call multiple times.
func (l *Limiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		close(l.done)
		l.closed = true
	}
}

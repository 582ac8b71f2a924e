// Package cache provides a concurrency-safe expiring key/value store with
// single-flight fetch coalescing. Read-style resource services use it to
// make repeated screen entries cheap without duplicating concurrent
// network calls.
package cache

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads the value for a key. The context is cancelled when the
// fetch is dropped via Invalidate with cancelInFlight=true.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Cache is a generic read-through cache with per-entry TTL. Every operation
// runs under one mutex: the decision to start a fetch and its registration
// as in-flight are atomic, so two callers racing an absent key join one
// fetch instead of issuing two.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]entry[V]
	inflight map[K]*flight[V]
	now      func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// flight is the shared ticket for one in-progress fetch. All concurrent
// callers for the key wait on done and read the same outcome.
type flight[V any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  V
	err    error
}

func (fl *flight[V]) wait(ctx context.Context) (V, error) {
	select {
	case <-fl.done:
		return fl.value, fl.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]entry[V]),
		inflight: make(map[K]*flight[V]),
		now:      time.Now,
	}
}

// Peek returns the stored value without blocking, even when stale. fresh
// reports whether the entry's expiry is still in the future; ok reports
// whether any value is stored at all.
func (c *Cache[K, V]) Peek(key K) (value V, fresh, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return value, false, false
	}
	return e.value, e.expiresAt.After(c.now()), true
}

// GetOrFetch returns a fresh cached value, joins the in-flight fetch for
// the key, or starts one. A successful fetch is stored with now+ttl as its
// expiry; a failure is propagated verbatim to every waiter and nothing is
// cached. The fetch runs on its own cancelable context detached from any
// single waiter, so one caller walking away does not kill the fetch for
// the others.
func (c *Cache[K, V]) GetOrFetch(ctx context.Context, key K, ttl time.Duration, fetch FetchFunc[V]) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.expiresAt.After(c.now()) {
		c.mu.Unlock()
		return e.value, nil
	}
	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		return fl.wait(ctx)
	}

	fctx, cancel := context.WithCancel(context.Background())
	fl := &flight[V]{done: make(chan struct{}), cancel: cancel}
	c.inflight[key] = fl
	c.mu.Unlock()

	go c.run(fctx, key, ttl, fl, fetch)
	return fl.wait(ctx)
}

// run executes one fetch and settles its flight.
func (c *Cache[K, V]) run(fctx context.Context, key K, ttl time.Duration, fl *flight[V], fetch FetchFunc[V]) {
	defer fl.cancel()

	value, err := fetch(fctx)

	c.mu.Lock()
	if c.inflight[key] == fl {
		delete(c.inflight, key)
	} else if err == nil {
		// Invalidate dropped this flight; it cancels and unregisters under
		// the same lock, so checking registration here closes the window
		// between the fetch returning and this section running. Waiters get
		// the cancellation failure, never a possibly stale value.
		err = context.Canceled
	}
	if err == nil && fctx.Err() != nil {
		err = fctx.Err()
	}
	if err == nil {
		c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	}
	c.mu.Unlock()

	fl.value, fl.err = value, err
	close(fl.done)
}

// Set stores a value directly with now+ttl as its expiry. Used to seed the
// cache when a mutation already returned a fresh value.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Invalidate removes the stored value for key. With cancelInFlight, any
// outstanding fetch for the key is cancelled and dropped; without it, a
// fetch already in progress completes and repopulates the cache normally,
// so a forced refresh does not race a second fetch against it.
func (c *Cache[K, V]) Invalidate(key K, cancelInFlight bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	if !cancelInFlight {
		return
	}
	if fl, ok := c.inflight[key]; ok {
		delete(c.inflight, key)
		fl.cancel()
	}
}

// InvalidateAll removes every stored value, and with cancelInFlight also
// cancels and drops every outstanding fetch.
func (c *Cache[K, V]) InvalidateAll(cancelInFlight bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
	if !cancelInFlight {
		return
	}
	for key, fl := range c.inflight {
		delete(c.inflight, key)
		fl.cancel()
	}
}

// Len returns the number of stored entries, stale included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

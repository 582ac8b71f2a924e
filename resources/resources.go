// Package resources provides the read-style services the app screens call
// for schedules and contacts. Each service serves reads through an
// expiring cache so repeated screen entries reuse one fetch; the actual
// network loading is a closure supplied by the caller.
package resources

import (
	"context"
	"time"

	"github.com/dantetu1995723/MolyMemo-sub002/assistant"
	"github.com/dantetu1995723/MolyMemo-sub002/cache"
)

// defaultTTL is how long a listed window stays fresh.
const defaultTTL = 5 * time.Minute

// ScheduleKey identifies one cached window of schedule queries. Dates are
// kept as strings so the key stays comparable.
type ScheduleKey struct {
	From string
	To   string
}

// ScheduleFetcher loads schedule events for one window from the backend.
type ScheduleFetcher func(ctx context.Context, key ScheduleKey) ([]assistant.ScheduleEvent, error)

// ScheduleService serves schedule reads through the expiring cache.
type ScheduleService struct {
	cache *cache.Cache[ScheduleKey, []assistant.ScheduleEvent]
	fetch ScheduleFetcher
	ttl   time.Duration
}

// NewScheduleService builds a service around a fetch closure. A ttl of zero
// uses the default.
func NewScheduleService(fetch ScheduleFetcher, ttl time.Duration) *ScheduleService {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ScheduleService{
		cache: cache.New[ScheduleKey, []assistant.ScheduleEvent](),
		fetch: fetch,
		ttl:   ttl,
	}
}

// List returns the events for a window, fetching at most once per TTL no
// matter how many screens ask concurrently.
func (s *ScheduleService) List(ctx context.Context, key ScheduleKey) ([]assistant.ScheduleEvent, error) {
	return s.cache.GetOrFetch(ctx, key, s.ttl, func(ctx context.Context) ([]assistant.ScheduleEvent, error) {
		return s.fetch(ctx, key)
	})
}

// Cached returns the last stored window without fetching, stale included,
// so a screen can paint instantly while a refresh proceeds.
func (s *ScheduleService) Cached(key ScheduleKey) (events []assistant.ScheduleEvent, fresh, ok bool) {
	return s.cache.Peek(key)
}

// Refresh drops the stored window but lets a fetch already in progress
// finish and be reused, then returns the (re)fetched value.
func (s *ScheduleService) Refresh(ctx context.Context, key ScheduleKey) ([]assistant.ScheduleEvent, error) {
	s.cache.Invalidate(key, false)
	return s.List(ctx, key)
}

// Seed stores a window returned by a mutation, skipping a round-trip.
func (s *ScheduleService) Seed(key ScheduleKey, events []assistant.ScheduleEvent) {
	s.cache.Set(key, events, s.ttl)
}

// Reset drops everything, cancelling outstanding fetches. Used on logout.
func (s *ScheduleService) Reset() {
	s.cache.InvalidateAll(true)
}

// ContactKey identifies one cached contact query.
type ContactKey struct {
	Query string
}

// ContactFetcher loads contacts for one query from the backend.
type ContactFetcher func(ctx context.Context, key ContactKey) ([]assistant.Contact, error)

// ContactService serves contact reads through the expiring cache.
type ContactService struct {
	cache *cache.Cache[ContactKey, []assistant.Contact]
	fetch ContactFetcher
	ttl   time.Duration
}

// NewContactService builds a service around a fetch closure. A ttl of zero
// uses the default.
func NewContactService(fetch ContactFetcher, ttl time.Duration) *ContactService {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ContactService{
		cache: cache.New[ContactKey, []assistant.Contact](),
		fetch: fetch,
		ttl:   ttl,
	}
}

// List returns the contacts for a query, coalescing concurrent callers.
func (s *ContactService) List(ctx context.Context, key ContactKey) ([]assistant.Contact, error) {
	return s.cache.GetOrFetch(ctx, key, s.ttl, func(ctx context.Context) ([]assistant.Contact, error) {
		return s.fetch(ctx, key)
	})
}

// Cached returns the last stored result without fetching, stale included.
func (s *ContactService) Cached(key ContactKey) (contacts []assistant.Contact, fresh, ok bool) {
	return s.cache.Peek(key)
}

// Refresh drops the stored result but reuses a fetch already in progress.
func (s *ContactService) Refresh(ctx context.Context, key ContactKey) ([]assistant.Contact, error) {
	s.cache.Invalidate(key, false)
	return s.List(ctx, key)
}

// Seed stores a result returned by a mutation.
func (s *ContactService) Seed(key ContactKey, contacts []assistant.Contact) {
	s.cache.Set(key, contacts, s.ttl)
}

// Reset drops everything, cancelling outstanding fetches.
func (s *ContactService) Reset() {
	s.cache.InvalidateAll(true)
}

// Package cache holds per-page-view state for the message log dashboard.
package cache

import (
	"context"
	"errors"
	"time"

	"spamwatch-admin/models"
	ttlcache "spamwatch-admin/pkg/cache"
)

var ErrViewNotFound = errors.New("view not found or expired")

// ViewState is the page state of one open message log view.
//
// IssuedSeq counts fetches started for the view; AppliedSeq is the newest
// fetch whose outcome has been applied. A fetch result is applied only when
// its sequence is newer than AppliedSeq. Filters is the latest selection,
// AppliedFilters the selection the held Records were fetched with.
type ViewState struct {
	ID             string           `json:"id"`
	Filters        models.Filters   `json:"filters"`
	AppliedFilters models.Filters   `json:"appliedFilters"`
	Records        []models.Message `json:"records"`
	Loading        bool             `json:"loading"`
	Loaded         bool             `json:"loaded"`
	IssuedSeq      uint64           `json:"issuedSeq"`
	AppliedSeq     uint64           `json:"appliedSeq"`
}

// Current reports whether the held records answer filters and no fetch is
// pending for the view.
func (v ViewState) Current(filters models.Filters) bool {
	return v.Loaded && !v.Loading && v.AppliedFilters == filters
}

// ViewStore keeps view state for the lifetime of a page view. Entries expire
// after a TTL that is refreshed on every write.
type ViewStore interface {
	Create(ctx context.Context, id string, filters models.Filters) (ViewState, error)
	Get(ctx context.Context, id string) (ViewState, error)
	// Begin stores the selection, marks the view loading and issues the next
	// fetch sequence.
	Begin(ctx context.Context, id string, filters models.Filters) (ViewState, error)
	// Apply replaces the records with the result of fetch seq, made with
	// filters. It reports false when a newer outcome was already applied.
	Apply(ctx context.Context, id string, seq uint64, filters models.Filters, records []models.Message) (ViewState, bool, error)
	// Fail resolves fetch seq without touching the held records or the
	// filters they answer.
	Fail(ctx context.Context, id string, seq uint64) (ViewState, bool, error)
}

// resolve is the compare-and-set shared by both store implementations.
func resolve(v ViewState, seq uint64, filters models.Filters, records []models.Message, ok bool) (ViewState, bool) {
	if seq <= v.AppliedSeq {
		return v, false
	}
	v.AppliedSeq = seq
	v.Loaded = true
	if seq >= v.IssuedSeq {
		v.Loading = false
	}
	if ok {
		v.Records = records
		v.AppliedFilters = filters
	}
	return v, true
}

type MemoryViewStore struct {
	views *ttlcache.Cache[ViewState]
	ttl   time.Duration
}

func NewMemoryViewStore(ttl time.Duration) *MemoryViewStore {
	return &MemoryViewStore{
		views: ttlcache.New[ViewState](),
		ttl:   ttl,
	}
}

func (s *MemoryViewStore) Create(_ context.Context, id string, filters models.Filters) (ViewState, error) {
	v := ViewState{
		ID:      id,
		Filters: filters,
		Records: []models.Message{},
		Loading: true,
	}
	s.views.SetWithTTL(id, v, s.ttl)
	return v, nil
}

func (s *MemoryViewStore) Get(_ context.Context, id string) (ViewState, error) {
	v, ok := s.views.Get(id)
	if !ok {
		return ViewState{}, ErrViewNotFound
	}
	return v, nil
}

func (s *MemoryViewStore) Begin(_ context.Context, id string, filters models.Filters) (ViewState, error) {
	v, err := s.views.Update(id, s.ttl, func(v ViewState) (ViewState, error) {
		v.Filters = filters
		v.Loading = true
		v.IssuedSeq++
		return v, nil
	})
	if errors.Is(err, ttlcache.ErrNotFound) {
		return ViewState{}, ErrViewNotFound
	}
	return v, err
}

func (s *MemoryViewStore) Apply(_ context.Context, id string, seq uint64, filters models.Filters, records []models.Message) (ViewState, bool, error) {
	return s.resolve(id, seq, filters, records, true)
}

func (s *MemoryViewStore) Fail(_ context.Context, id string, seq uint64) (ViewState, bool, error) {
	return s.resolve(id, seq, models.Filters{}, nil, false)
}

func (s *MemoryViewStore) resolve(id string, seq uint64, filters models.Filters, records []models.Message, ok bool) (ViewState, bool, error) {
	var applied bool
	v, err := s.views.Update(id, s.ttl, func(v ViewState) (ViewState, error) {
		v, applied = resolve(v, seq, filters, records, ok)
		return v, nil
	})
	if errors.Is(err, ttlcache.ErrNotFound) {
		return ViewState{}, false, ErrViewNotFound
	}
	return v, applied, err
}

// Sweep drops expired views.
func (s *MemoryViewStore) Sweep() int {
	return s.views.Sweep()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"spamwatch-admin/cache"
	"spamwatch-admin/models"
	apperrors "spamwatch-admin/pkg/errors"
	"spamwatch-admin/pkg/flash"
)

// LoadErrorMessage is shown to the operator when the message log cannot be
// loaded, whatever the cause.
const LoadErrorMessage = "Error loading message logs"

// MessageFetcher reads the message log from the scanning backend.
type MessageFetcher interface {
	ListMessages(ctx context.Context, filters models.Filters) ([]models.Message, error)
}

// Notifier reports a problem to the operator. It must not block.
type Notifier interface {
	Notify(ctx context.Context, n flash.Notice)
}

type MessageLogOptions struct {
	// FetchTimeout bounds one backend call shared by concurrent callers.
	FetchTimeout time.Duration
}

// Outcome is the view state after a Select or Refresh call.
type Outcome struct {
	View cache.ViewState
	// Fetched is set when the call went to the backend.
	Fetched bool
	// Failed is set when that fetch failed and the operator was notified.
	Failed bool
	// Superseded is set when a newer fetch for the same view won; View then
	// holds whatever the newest outcome left behind.
	Superseded bool
}

type inflightFetch struct {
	seq    uint64
	cancel context.CancelFunc
}

// MessageLogService drives the message log page: it owns each view's filter
// selection, issues one fetch per selection change and applies results in
// sequence order so a slow stale response never replaces fresher rows.
type MessageLogService struct {
	fetcher  MessageFetcher
	store    cache.ViewStore
	notifier Notifier
	opts     MessageLogOptions
	group    singleflight.Group
	newID    func() string

	mu       sync.Mutex
	inflight map[string]inflightFetch
}

func NewMessageLogService(fetcher MessageFetcher, store cache.ViewStore, notifier Notifier, opts MessageLogOptions) *MessageLogService {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	return &MessageLogService{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		opts:     opts,
		newID:    uuid.NewString,
		inflight: make(map[string]inflightFetch),
	}
}

// Open mounts a new view in the loading state. Nothing is fetched until the
// first Select.
func (s *MessageLogService) Open(ctx context.Context, filters models.Filters) (cache.ViewState, error) {
	v, err := s.store.Create(ctx, s.newID(), filters)
	if err != nil {
		return cache.ViewState{}, fmt.Errorf("open view: %w", err)
	}
	log.Printf("🆕 Opened message log view %s (%s)", v.ID, filters)
	return v, nil
}

// Select applies the operator's selection to a view. The held records are
// returned untouched only when they were fetched with the same selection and
// nothing is pending; otherwise a fetch runs. An unknown or expired view is
// replaced by a new one.
func (s *MessageLogService) Select(ctx context.Context, viewID string, filters models.Filters) (Outcome, error) {
	v, err := s.store.Get(ctx, viewID)
	if errors.Is(err, cache.ErrViewNotFound) {
		log.Printf("⚠️ View %q not found, opening a new one", viewID)
		v, err = s.Open(ctx, filters)
	}
	if err != nil {
		return Outcome{}, err
	}

	if v.Current(filters) {
		return Outcome{View: v}, nil
	}
	return s.load(ctx, v.ID, filters)
}

// Refresh fetches again with the view's current selection.
func (s *MessageLogService) Refresh(ctx context.Context, viewID string) (Outcome, error) {
	v, err := s.store.Get(ctx, viewID)
	if err != nil {
		return Outcome{}, err
	}
	return s.load(ctx, v.ID, v.Filters)
}

func (s *MessageLogService) load(ctx context.Context, viewID string, filters models.Filters) (Outcome, error) {
	v, err := s.store.Begin(ctx, viewID, filters)
	if err != nil {
		return Outcome{}, fmt.Errorf("begin fetch: %w", err)
	}
	seq := v.IssuedSeq

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.track(viewID, seq, cancel)
	defer s.untrack(viewID, seq)

	log.Printf("🔍 Fetching messages for view %s #%d (%s)", viewID, seq, filters)
	records, err := s.fetch(fetchCtx, filters)

	// The caller may be gone; the outcome still belongs to the view.
	storeCtx := context.WithoutCancel(ctx)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			if ctx.Err() != nil {
				log.Printf("↪️ Fetch #%d for view %s abandoned by the caller", seq, viewID)
			} else {
				log.Printf("↪️ Fetch #%d for view %s superseded by a newer selection", seq, viewID)
			}
			current, gerr := s.store.Get(storeCtx, viewID)
			if gerr != nil {
				return Outcome{}, gerr
			}
			return Outcome{View: current, Fetched: true, Superseded: true}, nil
		}

		switch {
		case apperrors.IsForbidden(err):
			log.Printf("🔒 Backend rejected credentials for view %s #%d: %v", viewID, seq, err)
		case apperrors.IsDataLoad(err):
			log.Printf("❌ Error fetching messages for view %s #%d: %v", viewID, seq, err)
		default:
			log.Printf("❌ Unexpected error fetching messages for view %s #%d: %v", viewID, seq, err)
		}
		v, applied, ferr := s.store.Fail(storeCtx, viewID, seq)
		if ferr != nil {
			return Outcome{}, fmt.Errorf("resolve failed fetch: %w", ferr)
		}
		if applied {
			s.notifier.Notify(ctx, flash.Error(LoadErrorMessage))
		}
		return Outcome{View: v, Fetched: true, Failed: applied, Superseded: !applied}, nil
	}

	v, applied, err := s.store.Apply(storeCtx, viewID, seq, filters, records)
	if err != nil {
		return Outcome{}, fmt.Errorf("apply fetch: %w", err)
	}
	if applied {
		log.Printf("✅ View %s #%d ready with %d messages", viewID, seq, len(records))
	} else {
		log.Printf("↪️ Discarded stale result #%d for view %s", seq, viewID)
	}
	return Outcome{View: v, Fetched: true, Superseded: !applied}, nil
}

// fetch shares one backend call between concurrent callers asking for the
// same selection. Each caller still stops waiting when its own context ends.
func (s *MessageLogService) fetch(ctx context.Context, filters models.Filters) ([]models.Message, error) {
	key := "messages?" + filters.Query().Encode()
	ch := s.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FetchTimeout)
		defer cancel()
		return s.fetcher.ListMessages(callCtx, filters)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Message), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// track registers the fetch for a view and cancels an older one still in
// flight in this process.
func (s *MessageLogService) track(viewID string, seq uint64, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[viewID]; ok {
		if prev.seq > seq {
			cancel()
			return
		}
		prev.cancel()
	}
	s.inflight[viewID] = inflightFetch{seq: seq, cancel: cancel}
}

func (s *MessageLogService) untrack(viewID string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.inflight[viewID]; ok && cur.seq == seq {
		delete(s.inflight, viewID)
	}
}

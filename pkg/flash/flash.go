// Package flash collects one-request notices for the operator and delivers
// them either as an HTMX toast event or inline in a full page render.
package flash

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func Error(message string) Notice {
	return Notice{Kind: KindError, Message: message}
}

// Collector gathers the notices raised while handling one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func (c *Collector) Add(n Notice) {
	if n.Message == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

type contextKey struct{}

func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, contextKey{}, c), c
}

func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(contextKey{}).(*Collector)
	return c
}

// ContextNotifier delivers notices to the collector of the calling request.
// Notices raised outside a request are dropped.
type ContextNotifier struct{}

func (ContextNotifier) Notify(ctx context.Context, n Notice) {
	if c := FromContext(ctx); c != nil {
		c.Add(n)
	}
}

// Middleware attaches a fresh collector to every request.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := WithCollector(r.Context())
		next(w, r.WithContext(ctx))
	}
}

// TriggerEvent is the HTMX client event raised for each batch of notices.
const TriggerEvent = "showToast"

// WriteTrigger sets the HX-Trigger header carrying the collected notices.
// It must run before the response status is written.
func WriteTrigger(w http.ResponseWriter, notices []Notice) {
	if len(notices) == 0 {
		return
	}
	payload, err := json.Marshal(map[string][]Notice{TriggerEvent: notices})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}

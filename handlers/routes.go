package handlers

import (
	"net/http"

	"spamwatch-admin/pkg/flash"
)

// SetupRoutes registers the dashboard routes. Every page route is rate
// limited per client and carries a notice collector.
func SetupRoutes(
	mux *http.ServeMux,
	limiter *RateLimiter,
	overviewHandler *OverviewHandler,
	messageHandler *MessageHandler,
	staticDir string,
) {
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return RecoverMiddleware(LoggingMiddleware(limiter.ViewLimit.RateLimit(flash.Middleware(h))))
	}

	mux.HandleFunc("GET /{$}", RedirectToAdmin)
	mux.HandleFunc("GET /admin", page(overviewHandler.GetOverview))
	mux.HandleFunc("GET /admin/messages", page(messageHandler.GetMessageLogs))
	mux.HandleFunc("GET /admin/messages/table", page(messageHandler.GetMessageTable))

	mux.HandleFunc("GET /healthz", Health)
	mux.HandleFunc("/", page(overviewHandler.NotFound))

	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}
}

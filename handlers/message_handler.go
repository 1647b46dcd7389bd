package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"spamwatch-admin/cache"
	"spamwatch-admin/models"
	"spamwatch-admin/pkg/flash"
	"spamwatch-admin/pkg/template"
	"spamwatch-admin/pkg/views"
	"spamwatch-admin/services"
)

const (
	messageLogsTitle    = "Message Logs"
	messageLogsSubtitle = "View history of all scanned messages"
	messageHistoryTitle = "Message History"
	messageTableURL     = "/admin/messages/table"
)

type MessageHandler struct {
	BaseHandler
	messageService *services.MessageLogService
	pageSize       int
	maxPageSize    int
}

func NewMessageHandler(ms *services.MessageLogService, r *template.Renderer, pageSize, maxPageSize int) *MessageHandler {
	if pageSize <= 0 {
		pageSize = views.DefaultItemsPerPage
	}
	return &MessageHandler{
		BaseHandler:    BaseHandler{renderer: r},
		messageService: ms,
		pageSize:       pageSize,
		maxPageSize:    max(maxPageSize, pageSize),
	}
}

// GetMessageLogs mounts a new view and renders the page in its loading
// state. The page requests its table as soon as it is loaded.
func (h *MessageHandler) GetMessageLogs(w http.ResponseWriter, r *http.Request) {
	filters := models.ParseFilters(r.URL.Query())

	view, err := h.messageService.Open(r.Context(), filters)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	body := views.MessageLogsPage{
		ViewID:  view.ID,
		Loading: true,
		Filters: views.NewFilterActions(view.ID, view.Filters),
	}
	h.render(w, r, h.renderer.RenderPage(w, http.StatusOK, template.PageMessages, h.page(r, body)))
}

// GetMessageTable resolves the requested selection for a view and renders
// the table. HTMX requests get the fragment; anything else the whole page.
func (h *MessageHandler) GetMessageTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	viewID := q.Get("view")
	filters := models.ParseFilters(q)

	var (
		out services.Outcome
		err error
	)
	if q.Get("refresh") == "true" && viewID != "" {
		out, err = h.messageService.Refresh(ctx, viewID)
		if errors.Is(err, cache.ErrViewNotFound) {
			out, err = h.messageService.Select(ctx, viewID, filters)
		}
	} else {
		out, err = h.messageService.Select(ctx, viewID, filters)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	body := h.messageLogs(out.View, pageParam(r), h.getPageSize(r))

	if !isHTMX(r) {
		h.render(w, r, h.renderer.RenderPage(w, http.StatusOK, template.PageMessages, h.page(r, body)))
		return
	}

	flash.WriteTrigger(w, notices(r))
	switch {
	case out.Superseded:
		// A newer request for this view owns the table.
		w.WriteHeader(http.StatusNoContent)
	case out.Failed && len(out.View.Records) > 0:
		// Keep the rows already on screen.
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
	default:
		h.render(w, r, h.renderer.RenderPartial(w, http.StatusOK, template.PageMessages, "message-logs", body))
	}
}

func (h *MessageHandler) messageLogs(v cache.ViewState, page, pageSize int) views.MessageLogsPage {
	actions := views.NewFilterActions(v.ID, v.Filters)
	return views.MessageLogsPage{
		ViewID:  v.ID,
		Loading: v.Loading && !v.Loaded,
		Table: views.NewDataTable(v.Records, views.MessageColumns(), views.TableOptions{
			Title:        messageHistoryTitle,
			Pagination:   true,
			Page:         page,
			ItemsPerPage: pageSize,
			Actions:      &actions,
			PageURL:      messageTableURL,
		}),
		Filters: actions,
	}
}

func (h *MessageHandler) page(r *http.Request, body views.MessageLogsPage) views.Page {
	return views.Page{
		Title:      messageLogsTitle,
		Subtitle:   messageLogsSubtitle,
		ActivePath: "/admin/messages",
		Notices:    notices(r),
		Body:       body,
	}
}

func pageParam(r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		return p
	}
	return 1
}

func (h *MessageHandler) getPageSize(r *http.Request) int {
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			if size > 0 && size <= h.maxPageSize {
				return size
			}
		}
	}
	return h.pageSize
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	apperrors "spamwatch-admin/pkg/errors"
	"spamwatch-admin/pkg/flash"
	"spamwatch-admin/pkg/template"
)

type BaseHandler struct {
	renderer *template.Renderer
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// notices returns what the services raised for this request so far.
func notices(r *http.Request) []flash.Notice {
	if c := flash.FromContext(r.Context()); c != nil {
		return c.Notices()
	}
	return nil
}

// renderError answers with an error page, or for HTMX requests with a toast
// and no swap.
func (h *BaseHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}
	log.Printf("❌ %s %s failed: %v", r.Method, r.URL.Path, err)

	if isHTMX(r) {
		flash.WriteTrigger(w, append(notices(r), flash.Error(message)))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(status)
		return
	}
	h.renderer.RenderError(w, status, message)
}

// render completes a response whose template failed to execute. The
// renderer writes nothing on failure, so the error page can still go out.
func (h *BaseHandler) render(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.renderError(w, r, fmt.Errorf("render %s: %w", r.URL.Path, err))
	}
}

func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, apperrors.NotFound("Page not found"))
}

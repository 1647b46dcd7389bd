package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spamwatch-admin/pkg/template"
	"spamwatch-admin/pkg/views"
)

func TestRenderFailureAnswersWithErrorPage(t *testing.T) {
	renderer, err := template.NewRenderer(template.Globals{AppName: "SpamWatch"})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	h := &BaseHandler{renderer: renderer}

	t.Run("full page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/messages", nil)

		h.render(rec, req, renderer.RenderPage(rec, http.StatusOK, "missing", views.Page{}))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Something went wrong") {
			t.Errorf("body = %q, want an error page", rec.Body.String())
		}
	})

	t.Run("htmx fragment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/messages/table", nil)
		req.Header.Set("HX-Request", "true")

		h.render(rec, req, renderer.RenderPartial(rec, http.StatusOK, template.PageMessages, "missing", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if rec.Header().Get("HX-Reswap") != "none" || !strings.Contains(rec.Header().Get("HX-Trigger"), "Something went wrong") {
			t.Errorf("headers = %v, want a toast and no swap", rec.Header())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q, want none", rec.Body.String())
		}
	})

	t.Run("success writes nothing more", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		h.render(rec, req, nil)

		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
	})
}

package handlers

import (
	"net/http"

	apperrors "spamwatch-admin/pkg/errors"
	"spamwatch-admin/pkg/template"
	"spamwatch-admin/pkg/views"
	"spamwatch-admin/services"
)

const recentActivityLimit = 10

type OverviewHandler struct {
	BaseHandler
	overviewService *services.OverviewService
}

func NewOverviewHandler(svc *services.OverviewService, r *template.Renderer) *OverviewHandler {
	return &OverviewHandler{
		BaseHandler:     BaseHandler{renderer: r},
		overviewService: svc,
	}
}

func (h *OverviewHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.overviewService.Overview(r.Context())

	recent := stats.RecentActivity
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}

	err := h.renderer.RenderPage(w, http.StatusOK, template.PageOverview, views.Page{
		Title:      "Overview",
		Subtitle:   "Spam scanning at a glance",
		ActivePath: "/admin",
		Notices:    notices(r),
		Body: views.OverviewPage{
			Cards:  views.NewStatCards(stats),
			Recent: views.NewDataTable(recent, views.MessageColumns(), views.TableOptions{Title: "Recent Activity"}),
			Loaded: ok,
		},
	})
	h.render(w, r, err)
}

// RedirectToAdmin sends the site root to the dashboard.
func RedirectToAdmin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func Health(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package template

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"spamwatch-admin/pkg/views"
)

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

var navigation = []NavItem{
	{Label: "Overview", Path: "/admin"},
	{Label: "Message Logs", Path: "/admin/messages"},
}

// Globals is data every page render can see.
type Globals struct {
	AppName string
}

type layoutData struct {
	Globals Globals
	Nav     []NavItem
	Page    views.Page
}

// Renderer executes the embedded templates. Pages are framed by the layout
// shell; partials render a single named template for HTMX swaps.
type Renderer struct {
	pages   map[string]*template.Template
	globals Globals
}

func NewRenderer(globals Globals) (*Renderer, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if globals.AppName == "" {
		globals.AppName = "SpamWatch"
	}
	return &Renderer{pages: pages, globals: globals}, nil
}

// RenderPage writes page inside the layout shell. When it returns an error
// nothing has been written to w.
func (r *Renderer) RenderPage(w http.ResponseWriter, status int, name string, page views.Page) error {
	nav := make([]NavItem, len(navigation))
	for i, item := range navigation {
		item.Active = item.Path == page.ActivePath
		nav[i] = item
	}

	return r.execute(w, status, name, "layout", layoutData{
		Globals: r.globals,
		Nav:     nav,
		Page:    page,
	})
}

// RenderPartial writes the named template from a page's set without the
// layout.
func (r *Renderer) RenderPartial(w http.ResponseWriter, status int, page, name string, data any) error {
	return r.execute(w, status, page, name, data)
}

// RenderError writes a full error page. Rendering problems fall back to
// plain text.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	err := r.RenderPage(w, status, PageError, views.Page{
		Title: http.StatusText(status),
		Body:  message,
	})
	if err != nil {
		http.Error(w, message, status)
	}
}

func (r *Renderer) execute(w http.ResponseWriter, status int, page, name string, data any) error {
	set, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	log.Printf("🎨 Rendering template: %s/%s", page, name)

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("❌ Error rendering template %s/%s: %v", page, name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("⚠️ Error writing %s/%s response: %v", page, name, err)
	}
	return nil
}

package template

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"path"
	"strings"
)

//go:embed templates
var files embed.FS

// Page template files, each parsed into its own clone of the layout so that
// every page can define "content".
const (
	PageMessages = "messages"
	PageOverview = "overview"
	PageError    = "error"
)

// parseTemplates builds one template set per page on top of the shared
// layout and components.
func parseTemplates() (map[string]*template.Template, error) {
	log.Printf("🚀 Initializing templates...")

	base, err := template.New("").ParseFS(files,
		"templates/layout.html",
		"templates/components/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	sets := make(map[string]*template.Template)
	for _, file := range pages {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}

		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := set.ParseFS(files, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		sets[name] = set
	}

	log.Printf("✅ Templates initialized successfully (%d pages)", len(sets))
	return sets, nil
}

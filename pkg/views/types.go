package views

import (
	"html/template"

	"spamwatch-admin/models"
	"spamwatch-admin/pkg/flash"
)

const DefaultItemsPerPage = 10

// Page is what the layout shell needs to frame any admin page.
type Page struct {
	Title    string
	Subtitle string
	// ActivePath highlights the matching navigation entry.
	ActivePath string
	Notices    []flash.Notice
	Body       any
}

type Row struct {
	ID    int
	Cells []template.HTML
}

// DataTable is a titled, paginated table of records.
type DataTable struct {
	ID         string
	Title      string
	Headers    []string
	Rows       []Row
	Pagination Pagination
	Actions    *FilterActions
	// PageURL is the endpoint page links point at; query parameters are
	// added per link.
	PageURL string
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FilterActions are the filter controls shown in the table's action region.
type FilterActions struct {
	ViewID string
	Spam   []Option
	Type   []Option
	// Selected is the selection the controls reflect.
	Selected models.Filters
}

// MessageLogsPage is the body of the message log page.
type MessageLogsPage struct {
	ViewID  string
	Loading bool
	Table   DataTable
	Filters FilterActions
}

type StatCard struct {
	Label string
	Value int
	Note  string
}

// OverviewPage is the body of the dashboard landing page.
type OverviewPage struct {
	Cards  []StatCard
	Recent DataTable
	Loaded bool
}

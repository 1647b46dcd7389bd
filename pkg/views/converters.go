package views

import (
	"fmt"
	"html/template"
	"net/url"

	"spamwatch-admin/models"
)

type TableOptions struct {
	ID           string
	Title        string
	Pagination   bool
	Page         int
	ItemsPerPage int
	Actions      *FilterActions
	PageURL      string
}

// NewDataTable lays records out under columns in the order received. With
// pagination only the requested page is rendered.
func NewDataTable(records []models.Message, columns []Column, opts TableOptions) DataTable {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	visible := records
	var pagination Pagination
	if opts.Pagination {
		if opts.ItemsPerPage <= 0 {
			opts.ItemsPerPage = DefaultItemsPerPage
		}
		pagination = Paginate(len(records), opts.Page, opts.ItemsPerPage)
		visible = records[pagination.Offset():min(pagination.Offset()+pagination.PageSize, len(records))]
	}

	rows := make([]Row, len(visible))
	for i, m := range visible {
		cells := make([]template.HTML, len(columns))
		for j, c := range columns {
			cells[j] = c.Cell(m)
		}
		rows[i] = Row{ID: m.ID, Cells: cells}
	}

	return DataTable{
		ID:         opts.ID,
		Title:      opts.Title,
		Headers:    headers,
		Rows:       rows,
		Pagination: pagination,
		Actions:    opts.Actions,
		PageURL:    opts.PageURL,
	}
}

// PageLink builds the link for page n, carrying the view and its selection.
func (t DataTable) PageLink(n int) string {
	q := url.Values{}
	if t.Actions != nil {
		q = t.Actions.Selected.Values()
		q.Set("view", t.Actions.ViewID)
	}
	q.Set("page", fmt.Sprint(n))
	if t.Pagination.PageSize != DefaultItemsPerPage {
		q.Set("page_size", fmt.Sprint(t.Pagination.PageSize))
	}
	return t.PageURL + "?" + q.Encode()
}

func NewFilterActions(viewID string, selected models.Filters) FilterActions {
	return FilterActions{
		ViewID:   viewID,
		Spam:     options(models.SpamFilterOptions, string(selected.IsSpam)),
		Type:     options(models.TypeFilterOptions, string(selected.Type)),
		Selected: selected,
	}
}

func options(all []models.FilterOption, selected string) []Option {
	out := make([]Option, len(all))
	for i, o := range all {
		out[i] = Option{Value: o.Value, Label: o.Label, Selected: o.Value == selected}
	}
	return out
}

func NewStatCards(s models.Stats) []StatCard {
	return []StatCard{
		{Label: "Total Users", Value: s.TotalUsers},
		{Label: "Messages Scanned", Value: s.TotalMessages},
		{Label: "Spam Detected", Value: s.SpamCount, Note: fmt.Sprintf("%d%% of all messages", s.SpamRate())},
		{Label: "Legitimate", Value: s.HamCount},
		{Label: "Email", Value: s.MessagesByType.Email},
		{Label: "SMS", Value: s.MessagesByType.SMS},
		{Label: "Social Media", Value: s.MessagesByType.Social},
	}
}

// TableURL is where the loading page fetches its first table from.
func (p MessageLogsPage) TableURL() string {
	q := p.Filters.Selected.Values()
	q.Set("view", p.ViewID)
	return "/admin/messages/table?" + q.Encode()
}

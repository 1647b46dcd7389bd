package views

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"spamwatch-admin/models"
)

// Column is one table column: how to pull the raw value out of a record and
// how to present it. Columns never modify the record.
type Column struct {
	Header string
	// Accessor names the record field the column reads, e.g. "user.name".
	Accessor string
	Extract  func(models.Message) any
	// Render turns the extracted value into markup. Nil renders the value
	// as escaped text.
	Render func(any) template.HTML
}

func (c Column) Cell(m models.Message) template.HTML {
	v := c.Extract(m)
	if c.Render == nil {
		return template.HTML(template.HTMLEscapeString(fmt.Sprint(v)))
	}
	return c.Render(v)
}

var messageColumns = []Column{
	{
		Header:   "User",
		Accessor: "user.name",
		Extract:  func(m models.Message) any { return m.User.Name },
	},
	{
		Header:   "Message",
		Accessor: "content",
		Extract:  func(m models.Message) any { return m.Content },
		Render:   func(v any) template.HTML { return renderCell("truncate", v) },
	},
	{
		Header:   "Type",
		Accessor: "type",
		Extract:  func(m models.Message) any { return string(m.Type) },
		Render:   func(v any) template.HTML { return renderCell("tag", v) },
	},
	{
		Header:   "Result",
		Accessor: "isSpam",
		Extract:  func(m models.Message) any { return m.IsSpam },
		Render:   func(v any) template.HTML { return renderCell("verdict", NewVerdict(v.(bool))) },
	},
	{
		Header:   "Confidence",
		Accessor: "confidence",
		Extract:  func(m models.Message) any { return m.Confidence },
		Render:   func(v any) template.HTML { return renderCell("confidence", NewConfidence(v.(float64))) },
	},
	{
		Header:   "Date",
		Accessor: "createdAt",
		Extract:  func(m models.Message) any { return m.CreatedAt },
		Render:   func(v any) template.HTML { return renderCell("timestamp", NewTimestamp(v.(time.Time))) },
	},
}

// MessageColumns returns the message log columns in display order.
func MessageColumns() []Column {
	return append([]Column(nil), messageColumns...)
}

// Verdict is the badge shown for a spam classification.
type Verdict struct {
	Label string
	Class string
	Alert bool
}

func NewVerdict(isSpam bool) Verdict {
	if isSpam {
		return Verdict{Label: "Spam", Class: "bg-red-100 text-red-700 border border-red-200", Alert: true}
	}
	return Verdict{Label: "Not Spam", Class: "bg-green-100 text-green-700 border border-green-200"}
}

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Confidence is a score rendered as a rounded percentage and a filled bar.
type Confidence struct {
	Percent  int
	Width    int
	Level    ConfidenceLevel
	BarClass string
}

func ConfidencePercent(score float64) int {
	return int(math.Round(score * 100))
}

// LevelFor maps a percentage to a bar colour: above 75 is high, above 40 is
// medium, anything else low.
func LevelFor(percent int) ConfidenceLevel {
	switch {
	case percent > 75:
		return ConfidenceHigh
	case percent > 40:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

var barClasses = map[ConfidenceLevel]string{
	ConfidenceHigh:   "bg-red-500",
	ConfidenceMedium: "bg-yellow-500",
	ConfidenceLow:    "bg-green-500",
}

func NewConfidence(score float64) Confidence {
	p := ConfidencePercent(score)
	level := LevelFor(p)
	return Confidence{
		Percent:  p,
		Width:    min(max(p, 0), 100),
		Level:    level,
		BarClass: barClasses[level],
	}
}

// Timestamp carries a machine readable time for the browser to format in the
// viewer's locale, plus a UTC fallback for clients without scripting.
type Timestamp struct {
	ISO      string
	Fallback string
}

func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{Fallback: "-"}
	}
	t = t.UTC()
	return Timestamp{
		ISO:      t.Format(time.RFC3339),
		Fallback: t.Format("2006-01-02 15:04:05 UTC"),
	}
}

var cellTemplates = template.Must(template.New("cells").Parse(`
{{- define "truncate"}}<div class="max-w-xs truncate" title="{{.}}">{{.}}</div>{{end -}}
{{- define "tag"}}<span class="capitalize px-2 py-1 text-xs rounded-md bg-gray-100 text-gray-800">{{.}}</span>{{end -}}
{{- define "verdict"}}<span class="px-2 py-1 text-xs font-semibold rounded-full {{.Class}}" data-verdict="{{if .Alert}}spam{{else}}ham{{end}}">{{.Label}}</span>{{end -}}
{{- define "confidence"}}<div class="flex items-center"><span class="mr-2">{{.Percent}}%</span><div class="w-16 h-2 bg-gray-200 rounded-full overflow-hidden"><div class="h-full rounded-full {{.BarClass}}" data-level="{{.Level}}" style="width: {{.Width}}%"></div></div></div>{{end -}}
{{- define "timestamp"}}{{if .ISO}}<time datetime="{{.ISO}}" data-local-time>{{.Fallback}}</time>{{else}}{{.Fallback}}{{end}}{{end -}}
`))

func renderCell(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := cellTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTML(template.HTMLEscapeString(fmt.Sprint(data)))
	}
	return template.HTML(buf.String())
}

package models

import (
	"fmt"
	"net/url"
)

// SpamFilter narrows the log by spam verdict.
type SpamFilter string

const (
	SpamAll  SpamFilter = "all"
	SpamOnly SpamFilter = "true"
	SpamNone SpamFilter = "false"
)

// TypeFilter narrows the log by message type.
type TypeFilter string

const (
	TypeAll    TypeFilter = "all"
	TypeEmail  TypeFilter = TypeFilter(MessageTypeEmail)
	TypeSMS    TypeFilter = TypeFilter(MessageTypeSMS)
	TypeSocial TypeFilter = TypeFilter(MessageTypeSocial)
)

// Filter field names, as used in query strings and by Filters.Set.
const (
	FieldIsSpam = "isSpam"
	FieldType   = "type"
)

type FilterOption struct {
	Value string
	Label string
}

var SpamFilterOptions = []FilterOption{
	{Value: string(SpamAll), Label: "All Messages"},
	{Value: string(SpamOnly), Label: "Spam Only"},
	{Value: string(SpamNone), Label: "Not Spam Only"},
}

var TypeFilterOptions = []FilterOption{
	{Value: string(TypeAll), Label: "All Types"},
	{Value: string(TypeEmail), Label: "Email"},
	{Value: string(TypeSMS), Label: "SMS"},
	{Value: string(TypeSocial), Label: "Social Media"},
}

func (f SpamFilter) Valid() bool {
	switch f {
	case SpamAll, SpamOnly, SpamNone:
		return true
	}
	return false
}

func (f TypeFilter) Valid() bool {
	switch f {
	case TypeAll, TypeEmail, TypeSMS, TypeSocial:
		return true
	}
	return false
}

// Filters is the operator's current query narrowing. The zero value is not
// valid; use DefaultFilters.
type Filters struct {
	IsSpam SpamFilter `json:"isSpam"`
	Type   TypeFilter `json:"type"`
}

func DefaultFilters() Filters {
	return Filters{IsSpam: SpamAll, Type: TypeAll}
}

// Set replaces a single field and keeps the other. Unknown fields or values
// outside the field's enumeration are programming errors and panic.
func (f Filters) Set(field, value string) Filters {
	switch field {
	case FieldIsSpam:
		v := SpamFilter(value)
		if !v.Valid() {
			panic(fmt.Sprintf("models: invalid %s filter value %q", field, value))
		}
		f.IsSpam = v
	case FieldType:
		v := TypeFilter(value)
		if !v.Valid() {
			panic(fmt.Sprintf("models: invalid %s filter value %q", field, value))
		}
		f.Type = v
	default:
		panic(fmt.Sprintf("models: unknown filter field %q", field))
	}
	return f
}

// ParseFilters maps request input onto the filter enumerations. Missing or
// unrecognised values fall back to "all".
func ParseFilters(q url.Values) Filters {
	f := DefaultFilters()
	if v := SpamFilter(q.Get(FieldIsSpam)); v.Valid() {
		f.IsSpam = v
	}
	if v := TypeFilter(q.Get(FieldType)); v.Valid() {
		f.Type = v
	}
	return f
}

// Query returns the backend query for the selection: "all" omits the
// parameter, anything else is sent literally.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if f.IsSpam != SpamAll && f.IsSpam != "" {
		q.Set(FieldIsSpam, string(f.IsSpam))
	}
	if f.Type != TypeAll && f.Type != "" {
		q.Set(FieldType, string(f.Type))
	}
	return q
}

// Values returns the selection with every field present, for links that
// must carry the selection back to the dashboard.
func (f Filters) Values() url.Values {
	return url.Values{
		FieldIsSpam: {string(f.IsSpam)},
		FieldType:   {string(f.Type)},
	}
}

func (f Filters) String() string {
	return fmt.Sprintf("isSpam=%s type=%s", f.IsSpam, f.Type)
}

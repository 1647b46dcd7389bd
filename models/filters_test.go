package models

import (
	"net/url"
	"testing"
)

func TestFiltersSet(t *testing.T) {
	f := DefaultFilters()

	f = f.Set(FieldIsSpam, "true")
	if f.IsSpam != SpamOnly || f.Type != TypeAll {
		t.Errorf("Set(isSpam) = %+v, type should be preserved", f)
	}

	f = f.Set(FieldType, "sms")
	if f.IsSpam != SpamOnly || f.Type != TypeSMS {
		t.Errorf("Set(type) = %+v, isSpam should be preserved", f)
	}
}

func TestFiltersSetPanicsOutsideEnumeration(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"bad spam value", FieldIsSpam, "maybe"},
		{"bad type value", FieldType, "fax"},
		{"unknown field", "sender", "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Set(%q, %q) did not panic", tt.field, tt.value)
				}
			}()
			DefaultFilters().Set(tt.field, tt.value)
		})
	}
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Filters
	}{
		{"empty", "", DefaultFilters()},
		{"both set", "isSpam=false&type=social", Filters{IsSpam: SpamNone, Type: TypeSocial}},
		{"garbage falls back", "isSpam=yes&type=fax", DefaultFilters()},
		{"explicit all", "isSpam=all&type=all", DefaultFilters()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParseFilters(q); got != tt.want {
				t.Errorf("ParseFilters(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFiltersQuery(t *testing.T) {
	if q := DefaultFilters().Query(); len(q) != 0 {
		t.Errorf("default query = %v, want empty", q)
	}
	q := Filters{IsSpam: SpamNone, Type: TypeEmail}.Query()
	if q.Get(FieldIsSpam) != "false" || q.Get(FieldType) != "email" {
		t.Errorf("query = %v", q)
	}
}

func TestFilterOptionsAreValid(t *testing.T) {
	for _, o := range SpamFilterOptions {
		if !SpamFilter(o.Value).Valid() {
			t.Errorf("spam option %q is not valid", o.Value)
		}
	}
	for _, o := range TypeFilterOptions {
		if !TypeFilter(o.Value).Valid() {
			t.Errorf("type option %q is not valid", o.Value)
		}
	}
}

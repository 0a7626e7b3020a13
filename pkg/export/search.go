package export

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Field names a searchable record attribute.
type Field string

// Searchable fields.
const (
	FieldName  Field = "name"
	FieldLabel Field = "label"
	FieldValue Field = "value"
)

func (r *Record) field(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldLabel:
		return r.Label
	case FieldValue:
		return r.Value
	}
	return ""
}

// Search returns the records whose fields contain term, ignoring case.
// With no fields it searches name, label and value.
func Search(records []Record, term string, fields ...Field) []Record {
	if len(fields) == 0 {
		fields = []Field{FieldName, FieldLabel, FieldValue}
	}
	caser := cases.Fold()
	needle := caser.String(term)

	var out []Record
	for i := range records {
		for _, f := range fields {
			if strings.Contains(caser.String(records[i].field(f)), needle) {
				out = append(out, records[i])
				break
			}
		}
	}
	return out
}

// ByType returns the records of exactly the given type.
func ByType(records []Record, elemType string) []Record {
	var out []Record
	for _, r := range records {
		if r.Type == elemType {
			out = append(out, r)
		}
	}
	return out
}

// FilterByVisibility returns the records whose visible flag equals visible.
func FilterByVisibility(records []Record, visible bool) []Record {
	var out []Record
	for _, r := range records {
		if r.Visible == visible {
			out = append(out, r)
		}
	}
	return out
}

// TypeCount is the number of records of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary describes an export at a glance.
type Summary struct {
	Total   int         `json:"total"`
	Types   []TypeCount `json:"types"`
	Named   int         `json:"named"`
	Visible int         `json:"visible"`
}

// Summarize counts records per type, most frequent first (ties by type name).
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Type]++
		if r.Name != "" {
			s.Named++
		}
		if r.Visible {
			s.Visible++
		}
	}
	for t, n := range counts {
		s.Types = append(s.Types, TypeCount{Type: t, Count: n})
	}
	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Count != s.Types[j].Count {
			return s.Types[i].Count > s.Types[j].Count
		}
		return s.Types[i].Type < s.Types[j].Type
	})
	return s
}

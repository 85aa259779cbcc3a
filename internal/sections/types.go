// Package sections provides the section registry of a content record and the operations
// that reconcile, project and reorder its sections.
package sections

import (
	"encoding/json"

	"github.com/edudesk/contentdesk/internal/value"
)

// Section is one named, independently editable subtree of a record.
type Section struct {
	// Key is the section key. Nested sections use the composite form "parent/child".
	Key string `json:"key"`

	// Value is the section content.
	Value value.Value `json:"value"`
}

// Registry holds every section of one record, in order. It is the unit of load and save:
// it is fetched whole, edited in memory and written back whole.
//
// Registries are immutable; operations return a new Registry.
type Registry struct {
	g value.Group
}

// NewRegistry wraps an ordered group of sections.
func NewRegistry(g value.Group) Registry {
	return Registry{g: g}
}

// Group returns the registry as an ordered group.
func (r Registry) Group() value.Group {
	return r.g
}

// Len returns the number of top-level sections.
func (r Registry) Len() int {
	return r.g.Len()
}

// Keys returns the top-level section keys in order.
func (r Registry) Keys() []string {
	return r.g.Keys()
}

// Sections returns the top-level sections in order.
func (r Registry) Sections() []Section {
	out := make([]Section, 0, r.g.Len())
	for k, v := range r.g.All() {
		out = append(out, Section{Key: k, Value: v})
	}
	return out
}

// MarshalJSON implements json.Marshaler; a registry is a flat JSON object.
func (r Registry) MarshalJSON() ([]byte, error) {
	return r.g.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var g value.Group
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	r.g = g
	return nil
}

// Kind tells a host which editor a projected section needs.
type Kind int

const (
	// KindGeneric sections use the recursive editor.
	KindGeneric Kind = iota
	// KindYearTable sections use the year-indexed table editor.
	KindYearTable
)

func (k Kind) String() string {
	if k == KindYearTable {
		return "year_table"
	}
	return "generic"
}

// Projected is a registry entry as shown under a tab. Container children appear as
// projected sections of their own with a composite key.
type Projected struct {
	Key    string
	Title  string
	Value  value.Value
	Kind   Kind
	Nested bool
}

// Tab groups the projected sections displayed under one tab name.
type Tab struct {
	Name     string
	Sections []Projected
}

// Package record loads, edits and saves whole content records: a flat group of basic
// fields plus a section registry.
package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edudesk/contentdesk/internal/sections"
	"github.com/edudesk/contentdesk/internal/value"
)

// Kind is the type of record.
type Kind string

// Record kinds.
const (
	KindCollege     Kind = "college"
	KindExam        Kind = "exam"
	KindCollegeExam Kind = "college-exam"
)

// ErrBadRef is returned for a malformed record reference.
var ErrBadRef = errors.New("invalid record reference")

// Ref addresses a record. Type is the college category and is only used for colleges.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// ParseRef parses "college:<id>:<type>", "exam:<uuid>" or "college-exam:<id>".
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || parts[1] == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}

	ref := Ref{Kind: Kind(parts[0]), ID: parts[1]}
	switch ref.Kind {
	case KindCollege:
		if len(parts) != 3 || parts[2] == "" {
			return Ref{}, fmt.Errorf("%w: college references need a type: %q", ErrBadRef, s)
		}
		ref.Type = strings.ToLower(parts[2])
	case KindExam, KindCollegeExam:
		if len(parts) != 2 {
			return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
		}
	default:
		return Ref{}, fmt.Errorf("%w: unknown kind %q", ErrBadRef, parts[0])
	}
	return ref, nil
}

func (r Ref) String() string {
	if r.Kind == KindCollege {
		return string(r.Kind) + ":" + r.ID + ":" + r.Type
	}
	return string(r.Kind) + ":" + r.ID
}

// IsExam reports whether r addresses an exam of either collection.
func (r Ref) IsExam() bool {
	return r.Kind == KindExam || r.Kind == KindCollegeExam
}

// Document is one loaded record.
type Document struct {
	Ref      Ref
	Basic    value.Group
	Sections sections.Registry
}

// Name returns the record's display name from its basic fields.
func (d Document) Name() string {
	for _, key := range []string{"Name", "name", "college_name", "InstituteName"} {
		if v, ok := d.Basic.Get(key); ok && value.Text(v) != "" {
			return value.Text(v)
		}
	}
	return d.Ref.ID
}

// splitBasic separates the fields named in basicFields from a flat record. Both halves
// keep the record's key order.
func splitBasic(flat value.Group, basicFields []string) (basic, rest value.Group) {
	isBasic := make(map[string]bool, len(basicFields))
	for _, f := range basicFields {
		isBasic[f] = true
	}
	for k, v := range flat.All() {
		if isBasic[k] {
			basic = basic.Set(k, v)
		} else {
			rest = rest.Set(k, v)
		}
	}
	return basic, rest
}

package sections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edudesk/contentdesk/internal/value"
)

// ErrSectionNotFound is returned when a key addresses no section.
var ErrSectionNotFound = errors.New("section not found")

// nestedSep separates a container key from a child key in a composite key.
const nestedSep = "/"

// prefixSep joins a tab name and a title into a synthesized top-level key.
const prefixSep = "_"

// SplitKey splits a composite "parent/child" key. ok is false for plain keys.
func SplitKey(key string) (parent, child string, ok bool) {
	idx := strings.Index(key, nestedSep)
	if idx <= 0 || idx == len(key)-1 {
		return "", key, false
	}
	return key[:idx], key[idx+1:], true
}

// JoinKey builds the composite key of a container child.
func JoinKey(parent, child string) string {
	return parent + nestedSep + child
}

// location is where a key lives in a registry.
type location struct {
	parent string // empty for top-level sections
	key    string // key within the parent, or the top-level key
}

func (l location) nested() bool {
	return l.parent != ""
}

// locate resolves key. An exact top-level match wins over a nested interpretation, so
// top-level keys that contain a slash stay addressable.
func (r Registry) locate(key string) (location, bool) {
	if r.g.Has(key) {
		return location{key: key}, true
	}
	parent, child, ok := SplitKey(key)
	if !ok {
		return location{}, false
	}
	container, ok := r.g.Get(parent)
	if !ok {
		return location{}, false
	}
	g, ok := container.(value.Group)
	if !ok || !g.Has(child) {
		return location{}, false
	}
	return location{parent: parent, key: child}, true
}

// Get returns the content of the section at key, which may be composite.
func (r Registry) Get(key string) (value.Value, bool) {
	loc, ok := r.locate(key)
	if !ok {
		return nil, false
	}
	if !loc.nested() {
		return r.g.Get(loc.key)
	}
	container, _ := r.g.Get(loc.parent)
	return container.(value.Group).Get(loc.key)
}

// Has reports whether key addresses a section.
func (r Registry) Has(key string) bool {
	_, ok := r.locate(key)
	return ok
}

// Lookup returns the section at key or ErrSectionNotFound.
func (r Registry) Lookup(key string) (Section, error) {
	v, ok := r.Get(key)
	if !ok {
		return Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, key)
	}
	return Section{Key: key, Value: v}, nil
}

// siblings returns the group that holds loc and a function that stores a replacement
// for it back into the registry.
func (r Registry) siblings(loc location) (value.Group, func(value.Group) Registry) {
	if !loc.nested() {
		return r.g, func(g value.Group) Registry { return Registry{g: g} }
	}
	container, _ := r.g.Get(loc.parent)
	return container.(value.Group), func(g value.Group) Registry {
		return Registry{g: r.g.Set(loc.parent, g)}
	}
}

package sections

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/reorder"
	"github.com/edudesk/contentdesk/internal/value"
)

var (
	// ErrDuplicateKey is returned when an add or rename would collide with a sibling.
	ErrDuplicateKey = value.ErrDuplicateKey
	// ErrEmptyTitle is returned when a section title or new key is blank.
	ErrEmptyTitle = errors.New("section title is empty")
	// ErrNotSiblings is returned when a move crosses container boundaries.
	ErrNotSiblings = errors.New("sections do not share a parent")
)

// DefaultContainers are the keys whose value is always a group hosting nested sections.
var DefaultContainers = []string{"about", "courses", "seat_matrix", "ranking"}

// Reconciler adds, deletes, renames, saves and moves sections of a Registry.
// Every operation returns a new Registry; on error the input Registry is returned.
type Reconciler struct {
	// Containers lists the container keys.
	Containers []string

	// Now supplies the timestamp used to disambiguate synthesized keys.
	Now func() time.Time
}

// NewReconciler returns a Reconciler for the given container keys. A nil slice selects
// DefaultContainers.
func NewReconciler(containers []string) *Reconciler {
	if containers == nil {
		containers = DefaultContainers
	}
	return &Reconciler{Containers: slices.Clone(containers), Now: time.Now}
}

// IsContainer reports whether key is a container key.
func (rc *Reconciler) IsContainer(key string) bool {
	return slices.Contains(rc.Containers, key)
}

// AddSection adds content titled title under parent and returns the key it was stored
// under.
//
// For a container parent the section is prepended inside the container, which is first
// coerced to a group: whatever non-group content it held is dropped. Any other parent
// gets a synthesized top-level key "parent_title", suffixed with a millisecond timestamp
// while it collides, prepended to the registry.
func (rc *Reconciler) AddSection(reg Registry, parent, title string, content value.Value) (Registry, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return reg, "", ErrEmptyTitle
	}

	if rc.IsContainer(parent) {
		container, _ := reg.g.Get(parent)
		g, ok := container.(value.Group)
		if !ok {
			g = value.Group{}
		}
		if g.Has(title) {
			return reg, "", fmt.Errorf("add %q to %q: %w", title, parent, ErrDuplicateKey)
		}
		return Registry{g: reg.g.Set(parent, g.Prepend(title, content))}, JoinKey(parent, title), nil
	}

	key := title
	if parent != "" {
		key = parent + prefixSep + title
	}
	if reg.g.Has(key) {
		key = rc.uniqueKey(reg, key)
	}
	return Registry{g: reg.g.Prepend(key, content)}, key, nil
}

func (rc *Reconciler) uniqueKey(reg Registry, base string) string {
	now := time.Now
	if rc.Now != nil {
		now = rc.Now
	}
	stamp := now().UnixMilli()
	for {
		key := fmt.Sprintf("%s_%d", base, stamp)
		if !reg.g.Has(key) {
			return key
		}
		stamp++
	}
}

// DeleteSection removes the section at key once confirmed. Composite keys delete the
// child from inside its container.
func (rc *Reconciler) DeleteSection(reg Registry, key string) (confirm.Pending[Registry], error) {
	loc, ok := reg.locate(key)
	if !ok {
		return confirm.Pending[Registry]{Current: reg}, fmt.Errorf("delete: %w: %s", ErrSectionNotFound, key)
	}

	group, store := reg.siblings(loc)
	return confirm.New(fmt.Sprintf("Delete section %q?", key), reg, func() Registry {
		return store(group.Delete(loc.key))
	}), nil
}

// RenameSection gives the section at oldKey a new key in the same position among its
// siblings. For a nested section newKey may be the bare child name or the full
// composite key. A collision leaves the registry unchanged.
func (rc *Reconciler) RenameSection(reg Registry, oldKey, newKey string) (Registry, error) {
	loc, ok := reg.locate(oldKey)
	if !ok {
		return reg, fmt.Errorf("rename: %w: %s", ErrSectionNotFound, oldKey)
	}

	target := strings.TrimSpace(newKey)
	if loc.nested() {
		target = strings.TrimPrefix(target, loc.parent+nestedSep)
	}
	if target == "" {
		return reg, ErrEmptyTitle
	}

	group, store := reg.siblings(loc)
	renamed, err := group.Rename(loc.key, target)
	if err != nil {
		return reg, err
	}
	return store(renamed), nil
}

// SaveSection commits a working copy back into the registry at key.
func (rc *Reconciler) SaveSection(reg Registry, key string, temp value.Value) (Registry, error) {
	loc, ok := reg.locate(key)
	if !ok {
		return reg, fmt.Errorf("save: %w: %s", ErrSectionNotFound, key)
	}
	group, store := reg.siblings(loc)
	return store(group.Set(loc.key, temp)), nil
}

// MoveSection drops the active section onto the position of the over section. Both must
// be top-level sections or children of the same container.
func (rc *Reconciler) MoveSection(reg Registry, active, over string) (Registry, error) {
	from, ok := reg.locate(active)
	if !ok {
		return reg, fmt.Errorf("move: %w: %s", ErrSectionNotFound, active)
	}
	to, ok := reg.locate(over)
	if !ok {
		return reg, fmt.Errorf("move: %w: %s", ErrSectionNotFound, over)
	}
	if from.parent != to.parent {
		return reg, fmt.Errorf("move %q onto %q: %w", active, over, ErrNotSiblings)
	}

	group, store := reg.siblings(from)
	return store(group.Reorder(reorder.MoveKey(group.Keys(), from.key, to.key))), nil
}

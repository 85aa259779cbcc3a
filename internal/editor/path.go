package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/edudesk/contentdesk/internal/value"
)

// ErrBadPath is returned when a path does not address a node of the value.
var ErrBadPath = errors.New("path does not match value")

// Step is one element of a Path: a Group key or a List index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path addresses a node inside a value tree.
type Path []Step

// Key returns a copy of p extended by a Group key.
func (p Path) Key(k string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Key: k})
}

// Index returns a copy of p extended by a List index.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Index: i, IsIndex: true})
}

// String renders p as slash-separated steps, indices in brackets: "courses/[2]/fees".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		if s.IsIndex {
			parts[i] = "[" + strconv.Itoa(s.Index) + "]"
		} else {
			parts[i] = s.Key
		}
	}
	return strings.Join(parts, "/")
}

// ParsePath is the inverse of Path.String. The empty string is the root.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, nil
	}
	var p Path
	for _, part := range strings.Split(s, "/") {
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			i, err := strconv.Atoi(part[1 : len(part)-1])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("invalid index %q in path %q", part, s)
			}
			p = p.Index(i)
			continue
		}
		p = p.Key(part)
	}
	return p, nil
}

// Get returns the node at path.
func Get(root value.Value, path Path) (value.Value, error) {
	cur := root
	for _, step := range path {
		next, err := child(cur, step)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Update replaces the node at path with fn's result. Only the nodes along the path are
// rebuilt; root itself is never modified.
func Update(root value.Value, path Path, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	if len(path) == 0 {
		return fn(root)
	}

	step := path[0]
	cur, err := child(root, step)
	if err != nil {
		return root, err
	}
	next, err := Update(cur, path[1:], fn)
	if err != nil {
		return root, err
	}

	if step.IsIndex {
		list := root.(value.List)
		out := make(value.List, len(list))
		copy(out, list)
		out[step.Index] = next
		return out, nil
	}
	return root.(value.Group).Set(step.Key, next), nil
}

func child(v value.Value, step Step) (value.Value, error) {
	if step.IsIndex {
		list, ok := v.(value.List)
		if !ok || step.Index < 0 || step.Index >= len(list) {
			return nil, fmt.Errorf("index %d: %w", step.Index, ErrBadPath)
		}
		return list[step.Index], nil
	}
	g, ok := v.(value.Group)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", step.Key, ErrBadPath)
	}
	item, ok := g.Get(step.Key)
	if !ok {
		return nil, fmt.Errorf("key %q: %w", step.Key, ErrBadPath)
	}
	return item, nil
}

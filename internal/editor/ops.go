package editor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/value"
)

var (
	// ErrEmptyKey is returned when a new key normalizes to nothing.
	ErrEmptyKey = errors.New("key name is empty")
	// ErrWrongShape is returned when an operation targets a node of another shape.
	ErrWrongShape = errors.New("operation does not apply to this value")
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// NormalizeKey turns an operator-typed name into a key: lowercase, with every run of
// spaces and punctuation collapsed to a single underscore. Letters of any script are kept.
func NormalizeKey(name string) string {
	key := nonWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(key, "_")
}

// SetScalar replaces the scalar at path with text.
func SetScalar(root value.Value, path Path, text string) (value.Value, error) {
	return Update(root, path, func(cur value.Value) (value.Value, error) {
		if !value.IsScalar(cur) {
			return nil, fmt.Errorf("set %s: %w", path, ErrWrongShape)
		}
		return value.String(text), nil
	})
}

// SetRaw replaces the node at path with the JSON in text. Malformed text returns a
// *value.ParseError and root unchanged.
func SetRaw(root value.Value, path Path, text string) (value.Value, error) {
	parsed, err := value.ParseString(text)
	if err != nil {
		return root, err
	}
	return Update(root, path, func(value.Value) (value.Value, error) {
		return parsed, nil
	})
}

// ListAppend adds an empty string item to the end of the list at path.
func ListAppend(root value.Value, path Path) (value.Value, error) {
	return updateList(root, path, func(list value.List) (value.List, error) {
		return append(cloneList(list), value.String("")), nil
	})
}

// ListInsert adds item at index i of the list at path.
func ListInsert(root value.Value, path Path, i int, item value.Value) (value.Value, error) {
	return updateList(root, path, func(list value.List) (value.List, error) {
		if i < 0 || i > len(list) {
			return nil, fmt.Errorf("insert at %d: %w", i, ErrBadPath)
		}
		out := make(value.List, 0, len(list)+1)
		out = append(out, list[:i]...)
		out = append(out, item)
		return append(out, list[i:]...), nil
	})
}

// ListSet replaces item i of the list at path with text.
func ListSet(root value.Value, path Path, i int, text string) (value.Value, error) {
	return SetScalar(root, path.Index(i), text)
}

// ListRemove removes item i of the list at path once confirmed.
func ListRemove(root value.Value, path Path, i int) (confirm.Pending[value.Value], error) {
	next, err := updateList(root, path, func(list value.List) (value.List, error) {
		if i < 0 || i >= len(list) {
			return nil, fmt.Errorf("remove %d: %w", i, ErrBadPath)
		}
		out := make(value.List, 0, len(list)-1)
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...), nil
	})
	if err != nil {
		return confirm.Pending[value.Value]{Current: root}, err
	}
	return confirm.New(fmt.Sprintf("Remove item %d?", i+1), root, func() value.Value { return next }), nil
}

// AddKey adds a new key holding an empty string to the Group at path. The name is
// normalized first; an existing key is rejected and root returned unchanged.
func AddKey(root value.Value, path Path, name string) (value.Value, string, error) {
	key := NormalizeKey(name)
	if key == "" {
		return root, "", ErrEmptyKey
	}
	next, err := updateGroup(root, path, func(g value.Group) (value.Group, error) {
		if g.Has(key) {
			return g, fmt.Errorf("add %q: %w", key, value.ErrDuplicateKey)
		}
		return g.Set(key, value.String("")), nil
	})
	if err != nil {
		return root, key, err
	}
	return next, key, nil
}

// DeleteKey removes key from the Group at path once confirmed.
func DeleteKey(root value.Value, path Path, key string) (confirm.Pending[value.Value], error) {
	next, err := updateGroup(root, path, func(g value.Group) (value.Group, error) {
		if !g.Has(key) {
			return g, fmt.Errorf("delete %q: %w", key, value.ErrKeyNotFound)
		}
		return g.Delete(key), nil
	})
	if err != nil {
		return confirm.Pending[value.Value]{Current: root}, err
	}
	return confirm.New(fmt.Sprintf("Delete %q?", key), root, func() value.Value { return next }), nil
}

// RenameKey renames a key of the Group at path, keeping its position.
func RenameKey(root value.Value, path Path, oldKey, newName string) (value.Value, error) {
	newKey := NormalizeKey(newName)
	if newKey == "" {
		return root, ErrEmptyKey
	}
	next, err := updateGroup(root, path, func(g value.Group) (value.Group, error) {
		return g.Rename(oldKey, newKey)
	})
	if err != nil {
		return root, err
	}
	return next, nil
}

func updateList(root value.Value, path Path, fn func(value.List) (value.List, error)) (value.Value, error) {
	next, err := Update(root, path, func(cur value.Value) (value.Value, error) {
		list, ok := cur.(value.List)
		if !ok {
			return nil, fmt.Errorf("list op on %s: %w", path, ErrWrongShape)
		}
		return fn(list)
	})
	if err != nil {
		return root, err
	}
	return next, nil
}

func updateGroup(root value.Value, path Path, fn func(value.Group) (value.Group, error)) (value.Value, error) {
	next, err := Update(root, path, func(cur value.Value) (value.Value, error) {
		g, ok := cur.(value.Group)
		if !ok {
			return nil, fmt.Errorf("group op on %s: %w", path, ErrWrongShape)
		}
		return fn(g)
	})
	if err != nil {
		return root, err
	}
	return next, nil
}

func cloneList(list value.List) value.List {
	out := make(value.List, len(list), len(list)+1)
	copy(out, list)
	return out
}

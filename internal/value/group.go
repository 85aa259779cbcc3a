package value

import (
	"errors"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrDuplicateKey is returned when a key would collide with an existing sibling.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrKeyNotFound is returned when an operation addresses a key that does not exist.
	ErrKeyNotFound = errors.New("key not found")
)

// Pair is one key/value entry of a Group.
type Pair struct {
	Key   string
	Value Value
}

// Group is an insertion-ordered mapping from string keys to values.
//
// Groups are persistent: every mutating method returns a new Group and leaves the
// receiver untouched, so a Group can be shared freely between editor states.
// The zero value is an empty Group.
type Group struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewGroup builds a Group from pairs in order. A repeated key keeps its first position
// and its last value.
func NewGroup(pairs ...Pair) Group {
	m := orderedmap.New[string, Value]()
	for _, p := range pairs {
		m.Set(p.Key, orNull(p.Value))
	}
	return Group{m: m}
}

func (Group) Kind() Kind { return KindGroup }
func (Group) sealed()    {}

// MarshalJSON implements json.Marshaler, writing keys in order.
func (g Group) MarshalJSON() ([]byte, error) {
	if g.m == nil {
		return []byte("{}"), nil
	}
	return g.m.MarshalJSON()
}

// Len returns the number of entries.
func (g Group) Len() int {
	if g.m == nil {
		return 0
	}
	return g.m.Len()
}

// Keys returns the keys in order.
func (g Group) Keys() []string {
	keys := make([]string, 0, g.Len())
	for k := range g.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates entries in order.
func (g Group) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if g.m == nil {
			return
		}
		for p := g.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Pairs returns the entries in order.
func (g Group) Pairs() []Pair {
	pairs := make([]Pair, 0, g.Len())
	for k, v := range g.All() {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs
}

// Get returns the value stored under key.
func (g Group) Get(key string) (Value, bool) {
	if g.m == nil {
		return nil, false
	}
	return g.m.Get(key)
}

// Has reports whether key is present.
func (g Group) Has(key string) bool {
	_, ok := g.Get(key)
	return ok
}

// Index returns the ordinal position of key, or -1.
func (g Group) Index(key string) int {
	i := 0
	for k := range g.All() {
		if k == key {
			return i
		}
		i++
	}
	return -1
}

// Set stores v under key. An existing key keeps its position; a new key is appended.
func (g Group) Set(key string, v Value) Group {
	m := g.clone()
	m.Set(key, orNull(v))
	return Group{m: m}
}

// Prepend stores v under key and moves key to the front.
func (g Group) Prepend(key string, v Value) Group {
	m := g.clone()
	m.Set(key, orNull(v))
	_ = m.MoveToFront(key)
	return Group{m: m}
}

// Delete removes key. Deleting a missing key returns an equal Group.
func (g Group) Delete(key string) Group {
	m := g.clone()
	m.Delete(key)
	return Group{m: m}
}

// Rename replaces oldKey with newKey at the same ordinal position.
func (g Group) Rename(oldKey, newKey string) (Group, error) {
	v, ok := g.Get(oldKey)
	if !ok {
		return g, fmt.Errorf("rename %q: %w", oldKey, ErrKeyNotFound)
	}
	if oldKey == newKey {
		return g, nil
	}
	if g.Has(newKey) {
		return g, fmt.Errorf("rename %q to %q: %w", oldKey, newKey, ErrDuplicateKey)
	}

	m := g.clone()
	m.Set(newKey, v)
	if err := m.MoveBefore(newKey, oldKey); err != nil {
		return g, fmt.Errorf("failed to position renamed key: %w", err)
	}
	m.Delete(oldKey)
	return Group{m: m}, nil
}

// Reorder returns a Group whose entries follow keys. Keys missing from the Group are
// ignored; entries not named in keys keep their relative order after the named ones.
func (g Group) Reorder(keys []string) Group {
	m := orderedmap.New[string, Value]()
	for _, k := range keys {
		if v, ok := g.Get(k); ok {
			m.Set(k, v)
		}
	}
	for k, v := range g.All() {
		if _, ok := m.Get(k); !ok {
			m.Set(k, v)
		}
	}
	return Group{m: m}
}

func (g Group) clone() *orderedmap.OrderedMap[string, Value] {
	m := orderedmap.New[string, Value]()
	for k, v := range g.All() {
		m.Set(k, v)
	}
	return m
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

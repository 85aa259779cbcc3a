// Package value provides the generic, order-preserving JSON value tree that backs every
// editable section of a content record.
package value

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind identifies the variant of a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindGroup:
		return "group"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a node of the generic value tree. The set of implementations is closed:
// Null, String, Number, Bool, List and Group.
type Value interface {
	json.Marshaler
	Kind() Kind
	sealed()
}

// Null is the JSON null.
type Null struct{}

// String is a JSON string.
type String string

// Number is a JSON number kept as its literal text so that values round-trip verbatim.
type Number string

// Bool is a JSON boolean.
type Bool bool

// List is an ordered sequence of values.
type List []Value

func (Null) Kind() Kind   { return KindNull }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (List) Kind() Kind   { return KindList }

func (Null) sealed()   {}
func (String) sealed() {}
func (Number) sealed() {}
func (Bool) sealed()   {}
func (List) sealed()   {}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(string(s)) }

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) { return json.Marshal(bool(b)) }

// MarshalJSON implements json.Marshaler. A nil List encodes as an empty array.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalItem(item)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalItem(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return v.MarshalJSON()
}

// IsScalar reports whether v is a leaf (null, string, number or bool).
func IsScalar(v Value) bool {
	if v == nil {
		return true
	}
	switch v.Kind() {
	case KindNull, KindString, KindNumber, KindBool:
		return true
	}
	return false
}

// NumberFromInt builds a Number from an integer.
func NumberFromInt(n int) Number {
	return Number(strconv.Itoa(n))
}

// Equal reports whether a and b are structurally identical, including key order.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case String:
		return av == b.(String)
	case Number:
		return av == b.(Number)
	case Bool:
		return av == b.(Bool)
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Group:
		bv := b.(Group)
		if av.Len() != bv.Len() {
			return false
		}
		ak, bk := av.Keys(), bv.Keys()
		for i := range ak {
			if ak[i] != bk[i] {
				return false
			}
			x, _ := av.Get(ak[i])
			y, _ := bv.Get(bk[i])
			if !Equal(x, y) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch tv := v.(type) {
	case nil:
		return Null{}
	case List:
		out := make(List, len(tv))
		for i, item := range tv {
			out[i] = Clone(item)
		}
		return out
	case Group:
		pairs := make([]Pair, 0, tv.Len())
		for k, item := range tv.All() {
			pairs = append(pairs, Pair{Key: k, Value: Clone(item)})
		}
		return NewGroup(pairs...)
	}
	return v
}

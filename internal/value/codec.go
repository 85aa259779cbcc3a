package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// ParseError reports JSON text that could not be turned into a Value.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	input := e.Input
	if len(input) > 40 {
		input = input[:40] + "..."
	}
	return fmt.Sprintf("invalid JSON: %q", input)
}

// Parse decodes JSON text into a Value, keeping object keys in document order.
func Parse(data []byte) (Value, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || !gjson.Valid(trimmed) {
		return nil, &ParseError{Input: trimmed}
	}
	return fromResult(gjson.Parse(trimmed)), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// ParseGroup decodes JSON text that must be an object.
func ParseGroup(data []byte) (Group, error) {
	v, err := Parse(data)
	if err != nil {
		return Group{}, err
	}
	g, ok := v.(Group)
	if !ok {
		return Group{}, fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	return g, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := List{}
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return items
		}
		pairs := []Pair{}
		r.ForEach(func(key, item gjson.Result) bool {
			pairs = append(pairs, Pair{Key: key.Str, Value: fromResult(item)})
			return true
		})
		return NewGroup(pairs...)
	}
	return Null{}
}

// UnmarshalJSON implements json.Unmarshaler so Groups can be embedded in wire structs.
func (g *Group) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*g = Group{}
		return nil
	}
	parsed, err := ParseGroup(data)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// FromAny converts decoded Go values (as produced by encoding/json into any) to a Value.
// Go maps carry no order, so their keys are sorted.
func FromAny(x any) Value {
	switch tx := x.(type) {
	case nil:
		return Null{}
	case Value:
		return tx
	case string:
		return String(tx)
	case bool:
		return Bool(tx)
	case json.Number:
		return Number(tx.String())
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Number(cast.ToString(tx))
	case []any:
		out := make(List, len(tx))
		for i, item := range tx {
			out[i] = FromAny(item)
		}
		return out
	case []string:
		out := make(List, len(tx))
		for i, item := range tx {
			out[i] = String(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(tx))
		for k := range tx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: FromAny(tx[k])})
		}
		return NewGroup(pairs...)
	}
	return String(cast.ToString(x))
}

// Text returns the display text of a scalar: strings verbatim, numbers and booleans in
// their JSON form, null as the empty string. Composite values render as compact JSON.
func Text(v Value) string {
	switch tv := v.(type) {
	case nil, Null:
		return ""
	case String:
		return string(tv)
	case Number:
		return string(tv)
	case Bool:
		return cast.ToString(bool(tv))
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// Indent renders v as indented JSON, the form used for raw-text editing.
func Indent(v Value) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Text(v)
	}
	return string(data)
}

package fact

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindUnavailable marks a fact that could not be computed or does not apply.
	KindUnavailable Kind = iota
	// KindString holds a single string.
	KindString
	// KindBool holds a boolean.
	KindBool
	// KindMapping holds a string to string mapping.
	KindMapping
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of resolving a fact. The zero Value is Unavailable.
// Values are immutable: mappings are copied on construction and on access.
type Value struct {
	kind Kind
	str  string
	b    bool
	m    map[string]string
}

// Unavailable returns the Value of a fact that has no value on this host.
func Unavailable() Value {
	return Value{}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Mapping returns a mapping Value holding a copy of m. An empty or nil map
// is still a mapping; computations that treat "empty" as "absent" return
// Unavailable themselves.
func Mapping(m map[string]string) Value {
	c := make(map[string]string, len(m))
	maps.Copy(c, m)
	return Value{kind: KindMapping, m: c}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Available reports whether v holds a value.
func (v Value) Available() bool {
	return v.kind != KindUnavailable
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsMapping returns a copy of the mapping held by v.
func (v Value) AsMapping() (map[string]string, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return maps.Clone(v.m), true
}

// Interface returns v as a plain Go value: nil, string, bool or map[string]string.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindMapping:
		return maps.Clone(v.m)
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindMapping:
		return maps.Equal(v.m, o.m)
	default:
		return true
	}
}

// String formats v for logs. Mappings print with sorted keys.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindMapping:
		keys := slices.Sorted(maps.Keys(v.m))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v.m[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<unavailable>"
	}
}

// MarshalJSON encodes v as null, a string, a boolean or an object.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes v as null, a string, a boolean or a mapping.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// Proto converts v to a protobuf Value. Unavailable becomes a null value.
func (v Value) Proto() *structpb.Value {
	switch v.kind {
	case KindString:
		return structpb.NewStringValue(v.str)
	case KindBool:
		return structpb.NewBoolValue(v.b)
	case KindMapping:
		fields := make(map[string]*structpb.Value, len(v.m))
		for k, s := range v.m {
			fields[k] = structpb.NewStringValue(s)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields})
	default:
		return structpb.NewNullValue()
	}
}

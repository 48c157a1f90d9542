package phrasebook

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BooleanKind
	StringKind
	IntegerKind
	FloatKind
	SymbolKind
	SequenceKind
	MappingKind
)

var kindNames = [...]string{
	NullKind:     "null",
	BooleanKind:  "boolean",
	StringKind:   "string",
	IntegerKind:  "integer",
	FloatKind:    "float",
	SymbolKind:   "symbol",
	SequenceKind: "sequence",
	MappingKind:  "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a node of a translation tree. It is one of Null, Boolean,
// String, Integer, Float, Symbol, Sequence or *Mapping.
type Value interface {
	Kind() Kind
}

// Null carries no payload; any number of places may hold it.
type Null struct{}

// Boolean carries no resources; like Null it is freely shared.
type Boolean bool

// String is a UTF-8 translation text.
type String string

// Integer keeps the decimal digits as loaded. Parsing is deferred to Int64
// so malformed numbers never fail a load.
type Integer string

// Float keeps the decimal text as loaded. See Float64.
type Float string

// Symbol is an atom name, without its leading colon.
type Symbol string

// Sequence is an ordered list that owns its elements. Sequences are never
// merged element-wise, only replaced.
type Sequence []Value

func (Null) Kind() Kind     { return NullKind }
func (Boolean) Kind() Kind  { return BooleanKind }
func (String) Kind() Kind   { return StringKind }
func (Integer) Kind() Kind  { return IntegerKind }
func (Float) Kind() Kind    { return FloatKind }
func (Symbol) Kind() Kind   { return SymbolKind }
func (Sequence) Kind() Kind { return SequenceKind }

// Int64 parses the retained digits.
func (i Integer) Int64() (int64, error) {
	return strconv.ParseInt(string(i), 10, 64)
}

// Float64 parses the retained text.
func (f Float) Float64() (float64, error) {
	return strconv.ParseFloat(string(f), 64)
}

// Mapping is an insertion-ordered map from string keys to values. A key
// appears at most once; replacing its value keeps its position. The zero
// Mapping is empty and ready to use.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: map[string]Value{}}
}

func (*Mapping) Kind() Kind { return MappingKind }

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key, replacing any existing value in place.
func (m *Mapping) Set(key string, value Value) {
	if m.values == nil {
		m.values = map[string]Value{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls f for each entry in insertion order until f returns false.
func (m *Mapping) Range(f func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !f(k, m.values[k]) {
			return
		}
	}
}

// Clear drops every entry, leaving m empty but usable.
func (m *Mapping) Clear() {
	m.keys = nil
	m.values = map[string]Value{}
}

// Clone returns a deep copy of v. Stateless and scalar variants are
// returned as-is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Sequence:
		if t == nil {
			return Sequence(nil)
		}
		out := make(Sequence, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case *Mapping:
		if t == nil {
			return NewMapping()
		}
		out := &Mapping{
			keys:   make([]string, len(t.keys)),
			values: make(map[string]Value, len(t.keys)),
		}
		copy(out.keys, t.keys)
		for k, item := range t.values {
			out.values[k] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b have the same structure and payloads.
// Mapping entry order is not significant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Sequence:
		bt := b.(Sequence)
		if len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bt := b.(*Mapping)
		if at.Len() != bt.Len() {
			return false
		}
		for _, k := range at.keys {
			bv, ok := bt.values[k]
			if !ok || !Equal(at.values[k], bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Interface exports v as plain Go data: map[string]interface{},
// []interface{}, string, int64 or float64 (the text when it does not
// parse), bool, Symbol and nil.
func Interface(v Value) interface{} {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Boolean:
		return bool(t)
	case String:
		return string(t)
	case Integer:
		if n, err := t.Int64(); err == nil {
			return n
		}
		return string(t)
	case Float:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case Symbol:
		return t
	case Sequence:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = Interface(item)
		}
		return out
	case *Mapping:
		out := make(map[string]interface{}, t.Len())
		t.Range(func(k string, item Value) bool {
			out[k] = Interface(item)
			return true
		})
		return out
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// FromInterface builds a tree from plain Go data. Map keys of any type are
// rendered to text, and entries of unordered maps are inserted in sorted
// key order.
func FromInterface(i interface{}) (Value, error) {
	switch t := i.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return Clone(t), nil
	case string:
		return String(t), nil
	case bool:
		return Boolean(t), nil
	case int:
		return Integer(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Integer(strconv.FormatInt(t, 10)), nil
	case uint64:
		return Integer(strconv.FormatUint(t, 10)), nil
	case float64:
		return Float(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case []string:
		out := make(Sequence, len(t))
		for j, s := range t {
			out[j] = String(s)
		}
		return out, nil
	}
	rv := reflect.ValueOf(i)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return Float(strconv.FormatFloat(rv.Float(), 'g', -1, 64)), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromInterface(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make(Sequence, rv.Len())
		for j := 0; j < rv.Len(); j++ {
			item, err := FromInterface(rv.Index(j).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", j, err)
			}
			out[j] = item
		}
		return out, nil
	case reflect.Map:
		type pair struct {
			key   string
			value reflect.Value
		}
		pairs := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, pair{fmt.Sprint(iter.Key().Interface()), iter.Value()})
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].key < pairs[b].key })
		out := NewMapping()
		for _, p := range pairs {
			item, err := FromInterface(p.value.Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", p.key, err)
			}
			mergeEntry(out, p.key, item)
		}
		return out, nil
	}
	return nil, fmt.Errorf("don't know how to convert %T to a translation value", i)
}

// countStrings counts the String leaves held by v, including v itself.
func countStrings(v Value) int {
	switch t := v.(type) {
	case String:
		return 1
	case Sequence:
		n := 0
		for _, item := range t {
			n += countStrings(item)
		}
		return n
	case *Mapping:
		n := 0
		t.Range(func(_ string, item Value) bool {
			n += countStrings(item)
			return true
		})
		return n
	default:
		return 0
	}
}

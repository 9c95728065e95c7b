package value

import (
	"fmt"
	"math"
	"strings"
)

// key is the hashable form of a scalar used by Set and Map.
type key struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

func keyOf(v Value) (key, error) {
	switch x := v.(type) {
	case nil:
		return key{kind: KindNull}, nil
	case int64:
		return key{kind: KindInt, i: x}, nil
	case float64:
		if math.IsNaN(x) {
			return key{}, fmt.Errorf("NaN cannot be used as a key")
		}
		return key{kind: KindFloat, f: x}, nil
	case string:
		return key{kind: KindString, s: x}, nil
	case bool:
		return key{kind: KindBool, b: x}, nil
	}
	return key{}, fmt.Errorf("%s cannot be used as a key", KindOf(v))
}

type List struct {
	Items []Value
}

func NewList(items ...Value) *List {
	return &List{Items: append([]Value(nil), items...)}
}

func (l *List) Len() int { return len(l.Items) }

func (l *List) Append(v ...Value) { l.Items = append(l.Items, v...) }

// Get returns the item at i; negative indices count from the end.
func (l *List) Get(i int64) (Value, bool) {
	if i < 0 {
		i += int64(len(l.Items))
	}
	if i < 0 || i >= int64(len(l.Items)) {
		return nil, false
	}
	return l.Items[i], true
}

func (l *List) Set(i int64, v Value) bool {
	if i < 0 {
		i += int64(len(l.Items))
	}
	if i < 0 || i >= int64(len(l.Items)) {
		return false
	}
	l.Items[i] = v
	return true
}

// Set is a collection of unique scalars that keeps insertion order.
type Set struct {
	items []Value
	index map[key]int
}

func NewSet() *Set {
	return &Set{index: make(map[key]int)}
}

// Add inserts v unless present. It returns false for duplicates.
func (s *Set) Add(v Value) (bool, error) {
	k, err := keyOf(v)
	if err != nil {
		return false, err
	}
	if _, ok := s.index[k]; ok {
		return false, nil
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return true, nil
}

func (s *Set) Contains(v Value) bool {
	k, err := keyOf(v)
	if err != nil {
		return false
	}
	_, ok := s.index[k]
	return ok
}

func (s *Set) Len() int { return len(s.items) }

// Items returns the elements in insertion order. Callers must not modify it.
func (s *Set) Items() []Value { return s.items }

// Map is a scalar-keyed map that keeps insertion order.
type Map struct {
	keys  []Value
	vals  []Value
	index map[key]int
}

func NewMap() *Map {
	return &Map{index: make(map[key]int)}
}

// Put sets k to v; an existing key keeps its position.
func (m *Map) Put(k, v Value) error {
	hk, err := keyOf(k)
	if err != nil {
		return err
	}
	if i, ok := m.index[hk]; ok {
		m.vals[i] = v
		return nil
	}
	m.index[hk] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return nil
}

func (m *Map) Get(k Value) (Value, bool) {
	hk, err := keyOf(k)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[hk]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

func (m *Map) Len() int { return len(m.keys) }

// Keys returns keys in insertion order. Callers must not modify it.
func (m *Map) Keys() []Value { return m.keys }

// Values returns values in key insertion order. Callers must not modify it.
func (m *Map) Values() []Value { return m.vals }

// Each calls fn for every entry in insertion order until fn returns false.
func (m *Map) Each(fn func(k, v Value) bool) {
	for i := range m.keys {
		if !fn(m.keys[i], m.vals[i]) {
			return
		}
	}
}

// Tuple holds the values of a multi-value return.
type Tuple []Value

// Callable is a function value. Implemented by the interpreter's FunctionRef
// and by builtins.
type Callable interface {
	Name() string
	Signature() Signature
}

// Binder is a callable that decides itself whether it may be stored under
// a declared function type. An untyped lambda adopts the declared
// signature and returns the typed copy.
type Binder interface {
	BindSignature(want Signature) (Callable, bool)
}

// Signature describes parameter and return types of a callable. No
// returns means Void.
type Signature struct {
	Params   []Type
	Variadic bool // last param collects the remaining arguments
	Returns  []Type
}

// Type returns the Fun<params : returns> type of the signature.
func (s Signature) Type() Type {
	return Type{Kind: KindFunc, Func: &s}
}

// Matches reports whether a callable with signature s can stand where want
// is declared. Types match by kind, nested signatures recursively; any on
// either side matches everything.
func (s Signature) Matches(want Signature) bool {
	if len(s.Params) != len(want.Params) || len(s.Returns) != len(want.Returns) || s.Variadic != want.Variadic {
		return false
	}
	for i := range s.Params {
		if !sameType(s.Params[i], want.Params[i]) {
			return false
		}
	}
	for i := range s.Returns {
		if !sameType(s.Returns[i], want.Returns[i]) {
			return false
		}
	}
	return true
}

func sameType(a, b Type) bool {
	if a.Kind == KindAny || b.Kind == KindAny {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Func == nil || b.Func == nil {
		return true
	}
	return a.Func.Matches(*b.Func)
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("Fun<")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
		if s.Variadic && i == len(s.Params)-1 {
			b.WriteString("...")
		}
	}
	if len(s.Params) > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(": ")
	if len(s.Returns) == 0 {
		b.WriteString("Void")
	}
	for i, r := range s.Returns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Package scope implements the runtime variable environment: a tree of
// lexical scopes stored in an arena and addressed by ID.
//
// Lookup walks the parent chain. Released slots go to a free list and are
// reused by the next Open, so a long-running interpreter keeps a bounded
// arena regardless of how many loop iterations or calls it performs.
package scope

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"nfscript/internal/value"
)

var (
	ErrFinal    = errors.New("binding is final")
	ErrType     = errors.New("type mismatch")
	ErrNotFound = errors.New("undefined variable")
	ErrReleased = errors.New("scope is not live")
)

// Binding is one named variable.
type Binding struct {
	Name  string
	Value value.Value
	Type  value.Type // value.Any when undeclared
	Final bool
}

type record struct {
	kind   Kind
	parent ID
	live   bool
	vars   map[string]*Binding
}

// Tree is the scope arena. It is not safe for concurrent use.
type Tree struct {
	data []record // index 0 reserved for NoID
	free []ID
	live int
}

// NewTree creates an arena holding the root scope.
func NewTree() *Tree {
	t := &Tree{data: make([]record, 1, 33)}
	t.data = append(t.data, record{kind: KindAll, live: true, vars: make(map[string]*Binding)})
	t.live = 1
	return t
}

// Root returns the single KindAll scope.
func (t *Tree) Root() ID { return 1 }

// Open allocates a child of parent.
func (t *Tree) Open(parent ID, kind Kind) ID {
	if !t.isLive(parent) {
		panic(fmt.Errorf("scope.Open: parent %d: %w", parent, ErrReleased))
	}
	t.live++
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		r := &t.data[id]
		r.kind, r.parent, r.live = kind, parent, true
		return id
	}
	idx, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	t.data = append(t.data, record{kind: kind, parent: parent, live: true, vars: make(map[string]*Binding)})
	return ID(idx)
}

// Release frees id. The root cannot be released; releasing twice is an error.
func (t *Tree) Release(id ID) error {
	if id == t.Root() {
		return fmt.Errorf("scope.Release: root scope")
	}
	if !t.isLive(id) {
		return fmt.Errorf("scope.Release %d: %w", id, ErrReleased)
	}
	r := &t.data[id]
	clear(r.vars)
	r.live = false
	r.parent = NoID
	t.free = append(t.free, id)
	t.live--
	return nil
}

// Live reports how many scopes are currently allocated, root included.
func (t *Tree) Live() int { return t.live }

func (t *Tree) Kind(id ID) Kind {
	if !t.isLive(id) {
		return KindAll
	}
	return t.data[id].kind
}

func (t *Tree) Parent(id ID) ID {
	if !t.isLive(id) {
		return NoID
	}
	return t.data[id].parent
}

// Declare binds name in id, replacing a non-final binding of the same scope.
// The value is checked against typ.
func (t *Tree) Declare(id ID, name string, v value.Value, typ value.Type, final bool) error {
	if !t.isLive(id) {
		return fmt.Errorf("declare %q: %w", name, ErrReleased)
	}
	r := &t.data[id]
	if old, ok := r.vars[name]; ok && old.Final {
		return fmt.Errorf("%q: %w", name, ErrFinal)
	}
	stored, ok := typ.Accepts(v)
	if !ok {
		return typeError("bind", v, typ, name)
	}
	r.vars[name] = &Binding{Name: name, Value: stored, Type: typ, Final: final}
	return nil
}

// Lookup walks from id towards the root and returns the nearest binding.
func (t *Tree) Lookup(id ID, name string) (*Binding, ID, bool) {
	for cur := id; t.isLive(cur); cur = t.data[cur].parent {
		if b, ok := t.data[cur].vars[name]; ok {
			return b, cur, true
		}
	}
	return nil, NoID, false
}

// LookupLocal looks only at id itself.
func (t *Tree) LookupLocal(id ID, name string) (*Binding, bool) {
	if !t.isLive(id) {
		return nil, false
	}
	b, ok := t.data[id].vars[name]
	return b, ok
}

// Get returns the value of the nearest binding of name.
func (t *Tree) Get(id ID, name string) (value.Value, error) {
	b, _, ok := t.Lookup(id, name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNotFound, name)
	}
	return b.Value, nil
}

// Assign updates the nearest binding of name; without one it declares an
// untyped binding in id.
func (t *Tree) Assign(id ID, name string, v value.Value) error {
	b, _, ok := t.Lookup(id, name)
	if !ok {
		return t.Declare(id, name, v, value.Any, false)
	}
	if b.Final {
		return fmt.Errorf("%q: %w", name, ErrFinal)
	}
	stored, accepted := b.Type.Accepts(v)
	if !accepted {
		return typeError("assign", v, b.Type, name)
	}
	b.Value = stored
	return nil
}

// Names returns the names bound directly in id, sorted.
func (t *Tree) Names(id ID) []string {
	if !t.isLive(id) {
		return nil
	}
	out := make([]string, 0, len(t.data[id].vars))
	for name := range t.data[id].vars {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Depth counts the scopes between id and the root, root = 0.
func (t *Tree) Depth(id ID) int {
	d := 0
	for cur := id; t.isLive(cur) && cur != t.Root(); cur = t.data[cur].parent {
		d++
	}
	return d
}

// Reset releases every scope except the root and clears the root bindings.
func (t *Tree) Reset() {
	t.data = t.data[:2]
	t.free = t.free[:0]
	clear(t.data[1].vars)
	t.live = 1
}

func typeError(op string, v value.Value, typ value.Type, name string) error {
	if typ.Kind == value.KindFunc && value.KindOf(v) == value.KindFunc {
		return fmt.Errorf("%w: function signature mismatch for %s: want %s, got %s", ErrType, name, typ, value.TypeName(v))
	}
	return fmt.Errorf("%w: cannot %s %s to %s %s", ErrType, op, value.TypeName(v), typ, name)
}

func (t *Tree) isLive(id ID) bool {
	return id.IsValid() && int(id) < len(t.data) && t.data[id].live
}

package interp

import (
	"fmt"
	"slices"

	"nfscript/internal/expr"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

// FunctionDef is a registered script function or the code of a lambda.
type FunctionDef struct {
	Name    string
	Line    int
	Params  []syntax.Param
	Returns []value.Type
	Body    []syntax.Node
	sig     value.Signature

	lambda   bool
	typed    bool      // lambda signature came from a declared Fun<…>
	captured []capture // bindings visible where the lambda was created
}

// capture is a local binding copied into a lambda when it is created.
type capture struct {
	name string
	val  value.Value
	typ  value.Type
}

func newFunctionDef(n *syntax.FuncDef) *FunctionDef {
	return &FunctionDef{
		Name:    n.Name,
		Line:    n.Line(),
		Params:  n.Params,
		Returns: n.Returns,
		Body:    n.Body,
		sig:     n.Signature(),
	}
}

func (d *FunctionDef) Signature() value.Signature { return d.sig }

// minArgs is the number of arguments a call must supply.
func (d *FunctionDef) minArgs() int {
	if d.sig.Variadic {
		return len(d.Params) - 1
	}
	return len(d.Params)
}

// FunctionRef is the first-class value bound under a function's name.
type FunctionRef struct {
	Def *FunctionDef
}

func (r *FunctionRef) Name() string               { return r.Def.Name }
func (r *FunctionRef) Signature() value.Signature { return r.Def.sig }

// Type is the Fun<…> type of the reference.
func (r *FunctionRef) Type() value.Type { return r.Def.sig.Type() }

// BindSignature checks the reference against a declared function type. A
// lambda without declared types takes want as its signature, so arguments
// and results are checked on every call.
func (r *FunctionRef) BindSignature(want value.Signature) (value.Callable, bool) {
	d := r.Def
	if !d.lambda || d.typed {
		return r, d.sig.Matches(want)
	}
	if len(d.Params) != len(want.Params) || want.Variadic {
		return r, false
	}
	typed := *d
	typed.typed = true
	typed.sig = want
	typed.Returns = want.Returns
	typed.Params = make([]syntax.Param, len(d.Params))
	for i, p := range d.Params {
		p.Type = want.Params[i]
		typed.Params[i] = p
	}
	return &FunctionRef{Def: &typed}, true
}

// newLambda builds the definition of a lambda literal evaluated at line.
func newLambda(l *expr.Lambda, body []syntax.Node, captured []capture) *FunctionDef {
	d := &FunctionDef{
		Name:     fmt.Sprintf("lambda@%d", l.Line()),
		Line:     l.Line(),
		Body:     body,
		lambda:   true,
		captured: captured,
	}
	for _, name := range l.Params {
		d.Params = append(d.Params, syntax.Param{Name: name, Type: value.Any})
		d.sig.Params = append(d.sig.Params, value.Any)
	}
	return d
}

// Registry holds function definitions of one interpreter; the first
// definition of a name wins.
type Registry struct {
	defs  map[string]*FunctionDef
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*FunctionDef)}
}

// Register adds def unless the name is taken. It returns the definition
// that is registered under the name and whether def was added.
func (r *Registry) Register(def *FunctionDef) (*FunctionDef, bool) {
	if old, ok := r.defs[def.Name]; ok {
		return old, false
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return def, true
}

func (r *Registry) Lookup(name string) (*FunctionDef, bool) {
	d, ok := r.defs[name]
	return d, ok
}

func (r *Registry) Len() int { return len(r.defs) }

// Names returns registered names sorted.
func (r *Registry) Names() []string {
	out := slices.Clone(r.order)
	slices.Sort(out)
	return out
}

func (r *Registry) reset() {
	clear(r.defs)
	r.order = r.order[:0]
}

package interp

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"nfscript/internal/diag"
	"nfscript/internal/value"
)

// HostFunc is a Go function exposed to scripts via Interpreter.Define.
type HostFunc func(args []value.Value) (value.Value, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	name string
	fn   func(in *Interpreter, args []value.Value, line int) (value.Value, error)
}

func (b *Builtin) Name() string { return b.name }

func (b *Builtin) Signature() value.Signature {
	return value.Signature{Params: []value.Type{value.Any}, Variadic: true}
}

type builtinFn = func(in *Interpreter, args []value.Value, line int) (value.Value, error)

func builtins() map[string]*Builtin {
	table := map[string]builtinFn{
		"len":      biLen,
		"str":      biStr,
		"int":      biInt,
		"float":    biFloat,
		"type":     biType,
		"list":     biList,
		"set":      biSet,
		"append":   biAppend,
		"keys":     biKeys,
		"values":   biValues,
		"contains": biContains,
		"put":      biPut,
	}
	out := make(map[string]*Builtin, len(table))
	for name, fn := range table {
		out[name] = &Builtin{name: name, fn: fn}
	}
	return out
}

func arity(name string, args []value.Value, n int, line int) error {
	if len(args) != n {
		return diag.Runtime(diag.RunArity, line, "%s expects %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func badArg(name string, v value.Value, want string, line int) error {
	return diag.Runtime(diag.RunTypeMismatch, line, "%s: expected %s, got %s", name, want, value.KindOf(v))
}

func biLen(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("len", args, 1, line); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case string:
		return int64(utf8.RuneCountInString(x)), nil
	case *value.List:
		return int64(x.Len()), nil
	case *value.Set:
		return int64(x.Len()), nil
	case *value.Map:
		return int64(x.Len()), nil
	case value.Tuple:
		return int64(len(x)), nil
	}
	return nil, badArg("len", args[0], "a String, List, Set or Map", line)
}

func biStr(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("str", args, 1, line); err != nil {
		return nil, err
	}
	return value.Format(args[0]), nil
}

// biInt truncates floats toward zero and parses strings.
func biInt(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("int", args, 1, line); err != nil {
		return nil, err
	}
	switch x := args[0].(type) {
	case int64:
		return x, nil
	case float64:
		t := math.Trunc(x)
		if math.IsNaN(t) || t < -(1<<63) || t >= 1<<63 {
			return nil, diag.Runtime(diag.RunTypeMismatch, line, "int: %s is out of range", value.FormatFloat(x))
		}
		return int64(t), nil
	case string:
		n, err := value.ParseInt(strings.TrimSpace(x))
		if err != nil {
			return nil, diag.Runtime(diag.RunTypeMismatch, line, "int: cannot parse %q", x)
		}
		return n, nil
	}
	return nil, badArg("int", args[0], "a number or String", line)
}

func biFloat(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("float", args, 1, line); err != nil {
		return nil, err
	}
	if f, ok := value.ToFloat(args[0]); ok {
		return f, nil
	}
	if s, ok := args[0].(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, diag.Runtime(diag.RunTypeMismatch, line, "float: cannot parse %q", s)
		}
		return f, nil
	}
	return nil, badArg("float", args[0], "a number or String", line)
}

func biType(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("type", args, 1, line); err != nil {
		return nil, err
	}
	return value.KindOf(args[0]).String(), nil
}

// items returns the elements when args is a single List, Set or Tuple.
func items(args []value.Value) ([]value.Value, bool) {
	if len(args) != 1 {
		return nil, false
	}
	switch x := args[0].(type) {
	case *value.List:
		return x.Items, true
	case *value.Set:
		return x.Items(), true
	case value.Tuple:
		return x, true
	}
	return nil, false
}

// biList: list(a, b, …) or list(container) to copy a List, Set or Tuple.
func biList(_ *Interpreter, args []value.Value, _ int) (value.Value, error) {
	if its, ok := items(args); ok {
		return value.NewList(its...), nil
	}
	return value.NewList(args...), nil
}

func biSet(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	src := args
	if its, ok := items(args); ok {
		src = its
	}
	s := value.NewSet()
	for _, v := range src {
		if _, err := s.Add(v); err != nil {
			return nil, diag.Runtime(diag.RunTypeMismatch, line, "set: %v", err)
		}
	}
	return s, nil
}

func biAppend(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if len(args) < 1 {
		return nil, diag.Runtime(diag.RunArity, line, "append expects a List and values")
	}
	switch x := args[0].(type) {
	case *value.List:
		x.Append(args[1:]...)
		return x, nil
	case *value.Set:
		for _, v := range args[1:] {
			if _, err := x.Add(v); err != nil {
				return nil, diag.Runtime(diag.RunTypeMismatch, line, "append: %v", err)
			}
		}
		return x, nil
	}
	return nil, badArg("append", args[0], "a List or Set", line)
}

func biKeys(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("keys", args, 1, line); err != nil {
		return nil, err
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, badArg("keys", args[0], "a Map", line)
	}
	return value.NewList(m.Keys()...), nil
}

func biValues(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("values", args, 1, line); err != nil {
		return nil, err
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, badArg("values", args[0], "a Map", line)
	}
	return value.NewList(m.Values()...), nil
}

func biContains(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("contains", args, 2, line); err != nil {
		return nil, err
	}
	needle := args[1]
	switch x := args[0].(type) {
	case *value.List:
		for _, it := range x.Items {
			if value.Equal(it, needle) {
				return true, nil
			}
		}
		return false, nil
	case *value.Set:
		return x.Contains(needle), nil
	case *value.Map:
		_, ok := x.Get(needle)
		return ok, nil
	case string:
		s, ok := needle.(string)
		if !ok {
			return nil, badArg("contains", needle, "a String", line)
		}
		return strings.Contains(x, s), nil
	}
	return nil, badArg("contains", args[0], "a List, Set, Map or String", line)
}

func biPut(_ *Interpreter, args []value.Value, line int) (value.Value, error) {
	if err := arity("put", args, 3, line); err != nil {
		return nil, err
	}
	m, ok := args[0].(*value.Map)
	if !ok {
		return nil, badArg("put", args[0], "a Map", line)
	}
	if err := m.Put(args[1], args[2]); err != nil {
		return nil, diag.Runtime(diag.RunTypeMismatch, line, "put: %v", err)
	}
	return m, nil
}

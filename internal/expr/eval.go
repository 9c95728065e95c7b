package expr

import (
	"math"
	"strings"
	"unicode/utf8"

	"nfscript/internal/diag"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// Env is what evaluation needs from the interpreter.
type Env interface {
	// Lookup resolves a variable; ok is false when it is not bound.
	Lookup(name string) (v value.Value, ok bool)
	// CallNamed invokes name(args) using the interpreter's resolution order.
	CallNamed(name string, args []value.Value, line int) (value.Value, error)
	// CallValue invokes a callable value.
	CallValue(fn value.Value, args []value.Value, line int) (value.Value, error)
}

// ClosureEnv is an Env that can turn a lambda literal into a function
// value.
type ClosureEnv interface {
	Env
	Closure(l *Lambda) (value.Value, error)
}

// Eval evaluates e against env.
func Eval(e Expr, env Env) (value.Value, error) {
	switch x := e.(type) {
	case *Lit:
		return x.Value, nil
	case *Ident:
		v, ok := env.Lookup(x.Name)
		if !ok {
			return nil, diag.Runtime(diag.RunUndefinedVariable, x.line, "undefined variable %q", x.Name)
		}
		return v, nil
	case *Unary:
		return evalUnary(x, env)
	case *Binary:
		return evalBinary(x, env)
	case *Call:
		return evalCall(x, env)
	case *Index:
		return evalIndex(x, env)
	case *ListLit:
		items, err := EvalAll(x.Items, env)
		if err != nil {
			return nil, err
		}
		return &value.List{Items: items}, nil
	case *MapLit:
		m := value.NewMap()
		for i := range x.Keys {
			k, err := Eval(x.Keys[i], env)
			if err != nil {
				return nil, err
			}
			v, err := Eval(x.Values[i], env)
			if err != nil {
				return nil, err
			}
			if err := m.Put(k, v); err != nil {
				return nil, diag.Runtime(diag.RunTypeMismatch, x.line, "map literal: %v", err)
			}
		}
		return m, nil
	case *Template:
		var b strings.Builder
		for _, part := range x.Parts {
			v, err := Eval(part, env)
			if err != nil {
				return nil, err
			}
			b.WriteString(value.Format(v))
		}
		return b.String(), nil
	case *Lambda:
		ce, ok := env.(ClosureEnv)
		if !ok {
			return nil, diag.Runtime(diag.RunTypeMismatch, x.line, "lambdas are not supported here")
		}
		return ce.Closure(x)
	case nil:
		return nil, diag.Runtime(diag.RunInternal, 0, "nil expression")
	}
	return nil, diag.Runtime(diag.RunInternal, e.Line(), "unknown expression %T", e)
}

// EvalAll evaluates list left to right.
func EvalAll(list []Expr, env Env) ([]value.Value, error) {
	out := make([]value.Value, 0, len(list))
	for _, e := range list {
		v, err := Eval(e, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func evalUnary(x *Unary, env Env) (value.Value, error) {
	v, err := Eval(x.X, env)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case token.Minus:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, mismatch(x.line, "cannot negate %s", value.KindOf(v))
	case token.Bang:
		if b, ok := v.(bool); ok {
			return !b, nil
		}
		return nil, mismatch(x.line, "'!' needs a bool, got %s", value.KindOf(v))
	}
	return nil, diag.Runtime(diag.RunInternal, x.line, "unknown unary operator %v", x.Op)
}

func evalBinary(x *Binary, env Env) (value.Value, error) {
	l, err := Eval(x.Left, env)
	if err != nil {
		return nil, err
	}

	// короткое замыкание
	if x.Op == token.AndAnd || x.Op == token.OrOr {
		lb, ok := l.(bool)
		if !ok {
			return nil, mismatch(x.line, "logical operator needs bool operands, got %s", value.KindOf(l))
		}
		if (x.Op == token.AndAnd && !lb) || (x.Op == token.OrOr && lb) {
			return lb, nil
		}
		r, err := Eval(x.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(bool)
		if !ok {
			return nil, mismatch(x.line, "logical operator needs bool operands, got %s", value.KindOf(r))
		}
		return rb, nil
	}

	r, err := Eval(x.Right, env)
	if err != nil {
		return nil, err
	}
	return Apply(x.Op, l, r, x.line)
}

// Apply computes a non-logical binary operator.
func Apply(op token.Kind, l, r value.Value, line int) (value.Value, error) {
	switch op {
	case token.EqEq:
		return value.Compare(l, r), nil
	case token.BangEq:
		return !value.Compare(l, r), nil
	case token.Plus:
		_, ls := l.(string)
		_, rs := r.(string)
		if ls || rs {
			return value.Format(l) + value.Format(r), nil
		}
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return compareOrdered(op, l, r, line)
	}

	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		switch op {
		case token.Plus:
			return li + ri, nil
		case token.Minus:
			return li - ri, nil
		case token.Star:
			return li * ri, nil
		case token.Slash, token.Percent:
			if ri == 0 {
				return nil, diag.Runtime(diag.RunDivisionByZero, line, "division by zero")
			}
			if op == token.Slash {
				return li / ri, nil
			}
			return li % ri, nil
		}
	}

	lf, lNum := value.ToFloat(l)
	rf, rNum := value.ToFloat(r)
	if !lNum || !rNum {
		sym, _ := op.Lexeme()
		return nil, mismatch(line, "operator '%s' is not defined for %s and %s", sym, value.KindOf(l), value.KindOf(r))
	}
	switch op {
	case token.Plus:
		return lf + rf, nil
	case token.Minus:
		return lf - rf, nil
	case token.Star:
		return lf * rf, nil
	case token.Slash:
		return lf / rf, nil
	case token.Percent:
		return math.Mod(lf, rf), nil
	}
	return nil, diag.Runtime(diag.RunInternal, line, "unknown binary operator %v", op)
}

func compareOrdered(op token.Kind, l, r value.Value, line int) (value.Value, error) {
	var c int
	ls, lStr := l.(string)
	rs, rStr := r.(string)
	switch {
	case lStr && rStr:
		c = strings.Compare(ls, rs)
	case value.IsNumeric(l) && value.IsNumeric(r):
		li, lInt := l.(int64)
		ri, rInt := r.(int64)
		if lInt && rInt {
			c = cmpInt(li, ri)
		} else {
			lf, _ := value.ToFloat(l)
			rf, _ := value.ToFloat(r)
			switch {
			case lf < rf:
				c = -1
			case lf > rf:
				c = 1
			}
		}
	default:
		sym, _ := op.Lexeme()
		return nil, mismatch(line, "cannot compare %s %s %s", value.KindOf(l), sym, value.KindOf(r))
	}
	switch op {
	case token.Lt:
		return c < 0, nil
	case token.LtEq:
		return c <= 0, nil
	case token.Gt:
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func evalCall(x *Call, env Env) (value.Value, error) {
	args, err := EvalAll(x.Args, env)
	if err != nil {
		return nil, err
	}
	if id, ok := x.Fn.(*Ident); ok {
		return env.CallNamed(id.Name, args, x.line)
	}
	fn, err := Eval(x.Fn, env)
	if err != nil {
		return nil, err
	}
	return env.CallValue(fn, args, x.line)
}

func evalIndex(x *Index, env Env) (value.Value, error) {
	target, err := Eval(x.X, env)
	if err != nil {
		return nil, err
	}
	idx, err := Eval(x.Index, env)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *value.Map:
		v, _ := t.Get(idx)
		return v, nil
	case *value.List:
		i, ok := idx.(int64)
		if !ok {
			return nil, mismatch(x.line, "list index must be int, got %s", value.KindOf(idx))
		}
		v, ok := t.Get(i)
		if !ok {
			return nil, diag.Runtime(diag.RunIndex, x.line, "index %d out of range [0:%d]", i, t.Len())
		}
		return v, nil
	case value.Tuple:
		return evalIndex(&Index{pos: x.pos, X: &Lit{Value: value.NewList(t...)}, Index: &Lit{Value: idx}}, env)
	case string:
		i, ok := idx.(int64)
		if !ok {
			return nil, mismatch(x.line, "string index must be int, got %s", value.KindOf(idx))
		}
		runes := []rune(t)
		if i < 0 {
			i += int64(len(runes))
		}
		if i < 0 || i >= int64(len(runes)) {
			return nil, diag.Runtime(diag.RunIndex, x.line, "index %d out of range [0:%d]", i, utf8.RuneCountInString(t))
		}
		return string(runes[i]), nil
	}
	return nil, mismatch(x.line, "cannot index %s", value.KindOf(target))
}

func mismatch(line int, format string, args ...any) error {
	return diag.Runtime(diag.RunTypeMismatch, line, format, args...)
}

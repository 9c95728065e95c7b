package interp

import (
	"slices"

	"nfscript/internal/diag"
	"nfscript/internal/scope"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

// execRange: for i in a..b, both bounds inclusive, resolved once.
func (in *Interpreter) execRange(fr *frame, n *syntax.For, sc scope.ID) (Signal, error) {
	start, err := in.bound(n.Start, sc, n.Line())
	if err != nil {
		return SigNormal, err
	}
	end, err := in.bound(n.End, sc, n.Line())
	if err != nil {
		return SigNormal, err
	}
	if start > end {
		return SigNormal, nil
	}

	fr.enterLoop()
	defer fr.leaveLoop()
	for j := start; ; j++ {
		if err := in.poll(n.Line()); err != nil {
			return SigNormal, err
		}
		sig, err := in.block(fr, sc, scope.KindFor, n.Body, func(id scope.ID) error {
			return in.scopes.Declare(id, n.Var, j, value.Any, false)
		})
		if err != nil {
			return SigNormal, err
		}
		if stop, out := fr.afterBody(sig); stop {
			return out, nil
		}
		if j == end {
			return SigNormal, nil
		}
	}
}

func (in *Interpreter) bound(b syntax.Bound, sc scope.ID, line int) (int64, error) {
	if !b.IsVar() {
		return b.Value, nil
	}
	bind, _, ok := in.scopes.Lookup(sc, b.Name)
	if !ok {
		return 0, diag.Runtime(diag.RunUndefinedVariable, line, "undefined variable %q in range bound", b.Name)
	}
	switch v := bind.Value.(type) {
	case int64:
		return v, nil
	case float64:
		return 0, diag.Runtime(diag.RunRangeBound, line, "range bound %q must be a whole number, got float %s", b.Name, value.FormatFloat(v))
	}
	return 0, diag.Runtime(diag.RunRangeBound, line, "range bound %q must be an int, got %s", b.Name, value.KindOf(bind.Value))
}

// execIter walks a List, Set or Map. The container is snapshotted so the
// body may modify it.
func (in *Interpreter) execIter(fr *frame, n *syntax.For, sc scope.ID) (Signal, error) {
	src, err := in.eval(fr, n.Source, sc)
	if err != nil {
		return SigNormal, err
	}

	var keys, vals []value.Value
	pair := n.Value != ""
	switch x := src.(type) {
	case *value.List:
		vals = slices.Clone(x.Items)
	case value.Tuple:
		vals = slices.Clone(x)
	case *value.Set:
		vals = slices.Clone(x.Items())
	case *value.Map:
		if !pair {
			return SigNormal, diag.Runtime(diag.RunIterationSource, n.Line(), "iterating a Map needs two variables: for %s, v in ...", n.Var)
		}
		keys, vals = slices.Clone(x.Keys()), slices.Clone(x.Values())
	case nil:
		return SigNormal, diag.Runtime(diag.RunIterationSource, n.Line(), "cannot iterate over null; expected a List, Set or Map")
	default:
		return SigNormal, diag.Runtime(diag.RunIterationSource, n.Line(), "cannot iterate over %s; expected a List, Set or Map", value.KindOf(src))
	}
	if _, isMap := src.(*value.Map); pair && !isMap {
		return SigNormal, diag.Runtime(diag.RunTypeMismatch, n.Line(), "for %s, %s in ... expects a Map, got %s", n.Var, n.Value, value.KindOf(src))
	}

	fr.enterLoop()
	defer fr.leaveLoop()
	for i := range vals {
		if err := in.poll(n.Line()); err != nil {
			return SigNormal, err
		}
		sig, err := in.block(fr, sc, scope.KindFor, n.Body, func(id scope.ID) error {
			if !pair {
				return in.scopes.Declare(id, n.Var, vals[i], value.Any, false)
			}
			if err := in.scopes.Declare(id, n.Var, keys[i], value.Any, false); err != nil {
				return err
			}
			return in.scopes.Declare(id, n.Value, vals[i], value.Any, false)
		})
		if err != nil {
			return SigNormal, err
		}
		if stop, out := fr.afterBody(sig); stop {
			return out, nil
		}
	}
	return SigNormal, nil
}

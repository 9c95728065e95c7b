package interp

import (
	"nfscript/internal/scope"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

// execIf runs the first branch whose condition is true, or else.
func (in *Interpreter) execIf(fr *frame, n *syntax.If, sc scope.ID) (Signal, error) {
	for _, br := range n.Branches {
		if br.Kind != syntax.BranchElse {
			c, err := in.eval(fr, br.Cond, sc)
			if err != nil {
				return SigNormal, err
			}
			if !value.Truthy(c) {
				continue
			}
		}
		return in.block(fr, sc, scope.KindIf, br.Body, nil)
	}
	return SigNormal, nil
}

func (in *Interpreter) execWhile(fr *frame, n *syntax.While, sc scope.ID) (Signal, error) {
	fr.enterLoop()
	defer fr.leaveLoop()
	for {
		if err := in.poll(n.Line()); err != nil {
			return SigNormal, err
		}
		c, err := in.eval(fr, n.Cond, sc)
		if err != nil {
			return SigNormal, err
		}
		if !value.Truthy(c) {
			return SigNormal, nil
		}
		sig, err := in.block(fr, sc, scope.KindBlock, n.Body, nil)
		if err != nil {
			return SigNormal, err
		}
		if stop, out := fr.afterBody(sig); stop {
			return out, nil
		}
	}
}

// execDoWhile: тело выполняется до первой проверки условия; continue
// переходит к проверке условия.
func (in *Interpreter) execDoWhile(fr *frame, n *syntax.DoWhile, sc scope.ID) (Signal, error) {
	fr.enterLoop()
	defer fr.leaveLoop()
	for {
		if err := in.poll(n.Line()); err != nil {
			return SigNormal, err
		}
		sig, err := in.block(fr, sc, scope.KindBlock, n.Body, nil)
		if err != nil {
			return SigNormal, err
		}
		if stop, out := fr.afterBody(sig); stop {
			return out, nil
		}
		c, err := in.eval(fr, n.Cond, sc)
		if err != nil {
			return SigNormal, err
		}
		if !value.Truthy(c) {
			return SigNormal, nil
		}
	}
}

// execSwitch matches by runtime type and value; there is no fallthrough.
func (in *Interpreter) execSwitch(fr *frame, n *syntax.Switch, sc scope.ID) (Signal, error) {
	v, err := in.eval(fr, n.Scrutinee, sc)
	if err != nil {
		return SigNormal, err
	}
	for _, c := range n.Cases {
		for _, lit := range c.Values {
			if value.Equal(v, lit) {
				return in.block(fr, sc, scope.KindSwitch, c.Body, nil)
			}
		}
	}
	if n.HasDefault {
		return in.block(fr, sc, scope.KindSwitch, n.Default, nil)
	}
	return SigNormal, nil
}

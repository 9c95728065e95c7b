package interp

import (
	"nfscript/internal/scope"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

// frame is one activation: the script root or a function call. Loop
// signals never leave a frame.
type frame struct {
	scope scope.ID // Function scope, or the root
	def   *FunctionDef
	loops int // loops currently running in this frame
	ret   []value.Value // values of the return that ended the frame
}

// runFrame executes the top-level statements of a frame. A loop signal that
// reaches this level has no loop to act on and is dropped.
func (in *Interpreter) runFrame(fr *frame, nodes []syntax.Node, sc scope.ID) (Signal, error) {
	for _, n := range nodes {
		sig, err := in.exec(fr, n, sc)
		if err != nil {
			return SigNormal, err
		}
		if sig.isLoopSignal() {
			continue
		}
		if sig == SigReturn {
			return sig, nil
		}
	}
	return SigNormal, nil
}

// block runs nodes in a fresh child scope of parent. The scope is released
// on every path.
func (in *Interpreter) block(fr *frame, parent scope.ID, kind scope.Kind, nodes []syntax.Node, bind func(scope.ID) error) (sig Signal, err error) {
	id := in.scopes.Open(parent, kind)
	defer func() {
		if rerr := in.scopes.Release(id); rerr != nil && err == nil {
			sig, err = SigNormal, internal(0, rerr)
		}
	}()
	if bind != nil {
		if err := bind(id); err != nil {
			return SigNormal, internal(0, err)
		}
	}
	return in.list(fr, nodes, id)
}

// list runs sibling statements until one yields a non-normal signal.
func (in *Interpreter) list(fr *frame, nodes []syntax.Node, sc scope.ID) (Signal, error) {
	for _, n := range nodes {
		sig, err := in.exec(fr, n, sc)
		if err != nil || sig != SigNormal {
			return sig, err
		}
	}
	return SigNormal, nil
}

// afterBody applies a loop body's signal. stop ends the loop; out is what
// the loop statement itself yields.
func (fr *frame) afterBody(sig Signal) (stop bool, out Signal) {
	switch sig {
	case SigBreak:
		return true, SigNormal
	case SigBreakAll:
		// fr.loops still counts the loop being left
		if fr.loops > 1 {
			return true, SigBreakAll
		}
		return true, SigNormal
	case SigReturn:
		return true, SigReturn
	}
	return false, SigNormal
}

func (fr *frame) enterLoop() { fr.loops++ }
func (fr *frame) leaveLoop() { fr.loops-- }

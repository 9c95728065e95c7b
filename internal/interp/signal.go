package interp

// Signal is the control outcome of executing a statement list.
type Signal uint8

const (
	SigNormal Signal = iota
	SigBreak
	SigContinue
	SigBreakAll
	SigReturn
)

func (s Signal) String() string {
	switch s {
	case SigNormal:
		return "normal"
	case SigBreak:
		return "break"
	case SigContinue:
		return "continue"
	case SigBreakAll:
		return "breakall"
	case SigReturn:
		return "return"
	default:
		return "signal(?)"
	}
}

// isLoopSignal reports signals that only loops consume.
func (s Signal) isLoopSignal() bool {
	return s == SigBreak || s == SigContinue || s == SigBreakAll
}

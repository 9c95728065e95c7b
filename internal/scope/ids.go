package scope

// ID identifies a scope in the Tree arena.
type ID uint32

const (
	// NoID marks the absence of a scope reference.
	NoID ID = 0
)

// IsValid reports whether the ID refers to a slot in the arena.
func (id ID) IsValid() bool { return id != NoID }

// Kind enumerates scope categories.
type Kind uint8

const (
	KindAll Kind = iota // root, exactly one per Tree
	KindBlock
	KindIf
	KindFor
	KindSwitch
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindBlock:
		return "block"
	case KindIf:
		return "if"
	case KindFor:
		return "for"
	case KindSwitch:
		return "switch"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

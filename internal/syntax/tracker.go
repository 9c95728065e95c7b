package syntax

type frameKind uint8

const (
	frameRoot frameKind = iota
	frameBlock
	frameFunction
)

// tracker mirrors the runtime scope nesting at parse time so duplicate
// declarations are caught before anything runs.
type tracker struct {
	frames []frame
}

type frame struct {
	kind  frameKind
	names map[string]int // name -> declaring line
}

func newTracker() *tracker {
	t := &tracker{}
	t.push(frameRoot)
	return t
}

func (t *tracker) push(kind frameKind, seed ...string) {
	f := frame{kind: kind, names: make(map[string]int, len(seed))}
	for _, n := range seed {
		f.names[n] = 0
	}
	t.frames = append(t.frames, f)
}

func (t *tracker) pop() {
	if len(t.frames) > 1 {
		t.frames = t.frames[:len(t.frames)-1]
	}
}

// lookup searches from the innermost frame down to the nearest function or
// root frame; outer frames are not visible for redeclaration purposes.
func (t *tracker) lookup(name string) (line int, ok bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		if l, found := f.names[name]; found {
			return l, true
		}
		if f.kind != frameBlock {
			break
		}
	}
	return 0, false
}

// declare records name in the innermost frame. It returns the line of an
// earlier declaration when name is already visible.
func (t *tracker) declare(name string, line int) (prev int, dup bool) {
	if l, ok := t.lookup(name); ok {
		return l, true
	}
	t.frames[len(t.frames)-1].names[name] = line
	return 0, false
}

// touch declares name implicitly unless it is already visible.
func (t *tracker) touch(name string, line int) {
	if _, ok := t.lookup(name); !ok {
		t.frames[len(t.frames)-1].names[name] = line
	}
}

func (t *tracker) depth() int { return len(t.frames) }

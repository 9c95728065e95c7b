package value

// Type is a declared type annotation: `int`, `List`, `Fun<int, String : int>`.
type Type struct {
	Kind Kind
	Func *Signature // Fun<…> written out; nil for a bare Fun
}

var (
	Any = Type{Kind: KindAny}

	typeAliases = map[string]Kind{
		"int":     KindInt,
		"Integer": KindInt,
		"long":    KindInt,
		"Long":    KindInt,
		"float":   KindFloat,
		"Float":   KindFloat,
		"double":  KindFloat,
		"Double":  KindFloat,
		"string":  KindString,
		"String":  KindString,
		"bool":    KindBool,
		"boolean": KindBool,
		"Boolean": KindBool,
		"List":    KindList,
		"list":    KindList,
		"Set":     KindSet,
		"set":     KindSet,
		"Map":     KindMap,
		"map":     KindMap,
		"Object":  KindAny,
		"any":     KindAny,
		"Fun":     KindFunc,
	}
)

// LookupType resolves a simple type name. Fun<...> parameters are attached
// by the parser.
func LookupType(name string) (Type, bool) {
	k, ok := typeAliases[name]
	if !ok {
		return Type{}, false
	}
	return Type{Kind: k}, true
}

// IsTypeName reports whether name is a known type name.
func IsTypeName(name string) bool {
	_, ok := typeAliases[name]
	return ok
}

func (t Type) String() string {
	if t.Kind == KindFunc && t.Func != nil {
		return t.Func.String()
	}
	return t.Kind.String()
}

// Accepts reports whether a value of this declared type may hold v, and
// returns v converted for storage (int widens to float, an untyped lambda
// takes the declared signature).
func (t Type) Accepts(v Value) (Value, bool) {
	if t.Kind == KindAny || v == nil {
		return v, true
	}
	k := KindOf(v)
	switch {
	case t.Kind == KindFunc && k == KindFunc:
		if t.Func == nil {
			return v, true
		}
		if b, ok := v.(Binder); ok {
			c, ok := b.BindSignature(*t.Func)
			if !ok {
				return v, false
			}
			return c, true
		}
		return v, v.(Callable).Signature().Matches(*t.Func)
	case k == t.Kind:
		return v, true
	case t.Kind == KindFloat && k == KindInt:
		return float64(v.(int64)), true
	case t.Kind == KindList && k == KindTuple:
		return NewList(v.(Tuple)...), true
	}
	return v, false
}

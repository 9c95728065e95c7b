// Package value defines the runtime values of NF scripts.
//
// Scalars are plain Go values: nil (null), int64, float64, string and bool.
// Containers are *List, *Set and *Map; Set and Map keep insertion order.
// Tuple carries multiple return values. Callable is any function value.
package value

// Value is a runtime value; see the package comment for the allowed types.
type Value = any

type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
	KindSet
	KindMap
	KindTuple
	KindFunc
	KindObject // host value without a script representation
	KindAny    // declared type only: accepts everything
)

var kindNames = [...]string{
	KindNull:   "null",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "String",
	KindBool:   "bool",
	KindList:   "List",
	KindSet:    "Set",
	KindMap:    "Map",
	KindTuple:  "Tuple",
	KindFunc:   "Fun",
	KindObject: "Object",
	KindAny:    "any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindOf reports the runtime kind of v.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case bool:
		return KindBool
	case *List:
		return KindList
	case *Set:
		return KindSet
	case *Map:
		return KindMap
	case Tuple:
		return KindTuple
	case Callable:
		return KindFunc
	default:
		return KindObject
	}
}

// IsNumeric reports whether v is an int or a float.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

// Truthy is true only for the boolean true; other values never satisfy a
// condition.
func Truthy(v Value) bool {
	b, ok := v.(bool)
	return ok && b
}

// TypeName is the kind of v, or the full signature for a callable.
func TypeName(v Value) string {
	if c, ok := v.(Callable); ok {
		return c.Signature().String()
	}
	return KindOf(v).String()
}

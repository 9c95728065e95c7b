package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ToInt returns v as int64. Floats convert only when they hold a whole number.
func ToInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || x < -(1<<63) || x >= 1<<63 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func ToFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// ParseInt converts an INT literal token (decimal or 0x hex).
func ParseInt(text string) (int64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseInt(text[2:], 16, 64)
	}
	return strconv.ParseInt(text, 10, 64)
}

// FromGo converts a host value into its script representation. Unknown
// types are kept as opaque objects.
func FromGo(v any) Value {
	switch x := v.(type) {
	case nil, int64, float64, string, bool, *List, *Set, *Map, Tuple, Callable:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		if i, err := safecast.Conv[int64](x); err == nil {
			return i
		}
		return float64(x)
	case uint64:
		if i, err := safecast.Conv[int64](x); err == nil {
			return i
		}
		return float64(x)
	case float32:
		return float64(x)
	case []any:
		l := &List{Items: make([]Value, len(x))}
		for i, it := range x {
			l.Items[i] = FromGo(it)
		}
		return l
	case []string:
		l := &List{Items: make([]Value, len(x))}
		for i, it := range x {
			l.Items[i] = it
		}
		return l
	case []int:
		l := &List{Items: make([]Value, len(x))}
		for i, it := range x {
			l.Items[i] = int64(it)
		}
		return l
	case map[string]any:
		m := NewMap()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			_ = m.Put(k, FromGo(x[k]))
		}
		return m
	}
	return v
}

// ToGo converts a script value into plain Go values: []any, map[string]any
// (keys rendered with Format) and scalars.
func ToGo(v Value) any {
	switch x := v.(type) {
	case *List:
		out := make([]any, len(x.Items))
		for i, it := range x.Items {
			out[i] = ToGo(it)
		}
		return out
	case Tuple:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = ToGo(it)
		}
		return out
	case *Set:
		out := make([]any, len(x.items))
		for i, it := range x.items {
			out[i] = ToGo(it)
		}
		return out
	case *Map:
		out := make(map[string]any, x.Len())
		for i, k := range x.keys {
			out[Format(k)] = ToGo(x.vals[i])
		}
		return out
	case Callable:
		return fmt.Sprintf("<fun %s>", x.Name())
	}
	return v
}

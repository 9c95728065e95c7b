package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v the way echo prints it. Floats always carry a fraction
// ("1.0"); strings inside containers are not quoted.
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case float64:
		b.WriteString(FormatFloat(x))
	case string:
		b.WriteString(x)
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case *List:
		writeSeq(b, "[", "]", x.Items)
	case *Set:
		writeSeq(b, "[", "]", x.items)
	case Tuple:
		writeSeq(b, "(", ")", x)
	case *Map:
		b.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, k)
			b.WriteByte('=')
			writeValue(b, x.vals[i])
		}
		b.WriteByte('}')
	case Callable:
		fmt.Fprintf(b, "<fun %s %s>", x.Name(), x.Signature())
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

func writeSeq(b *strings.Builder, open, closing string, items []Value) {
	b.WriteString(open)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeValue(b, it)
	}
	b.WriteString(closing)
}

func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// Quote renders v for diagnostics and dumps: strings are quoted.
func Quote(v Value) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return Format(v)
}

package value

import (
	"testing"
)

func TestEqualIsTypeStrict(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{int64(1), int64(1), true},
		{int64(1), float64(1), false},
		{"a", "a", true},
		{true, "true", false},
		{nil, nil, true},
		{nil, int64(0), false},
		{NewList(int64(1), "x"), NewList(int64(1), "x"), true},
		{NewList(int64(1)), NewList(float64(1)), false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%v, %v): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
	if !Compare(int64(1), float64(1)) {
		t.Fatalf("Compare should treat int 1 and float 1.0 as equal")
	}
}

func TestEqualHostValuesDoNotPanic(t *testing.T) {
	a := []int{1}
	if Equal(a, a) {
		t.Fatalf("uncomparable host values must not be equal")
	}
}

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	for _, k := range []string{"b", "a", "c"} {
		if err := m.Put(k, int64(len(k))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := m.Put("b", int64(9)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := Format(m); got != "{b=9, a=1, c=1}" {
		t.Fatalf("got %q", got)
	}
	if err := m.Put(NewList(), 1); err == nil {
		t.Fatalf("expected error for list key")
	}
	// int and float keys are distinct
	_ = m.Put(int64(1), "int")
	_ = m.Put(float64(1), "float")
	if v, _ := m.Get(int64(1)); v != "int" {
		t.Fatalf("got %v, want int", v)
	}
}

func TestSetDeduplicates(t *testing.T) {
	s := NewSet()
	for _, v := range []Value{int64(3), int64(1), int64(3), "x"} {
		if _, err := s.Add(v); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if s.Len() != 3 || Format(s) != "[3, 1, x]" {
		t.Fatalf("got %d items: %s", s.Len(), Format(s))
	}
}

func TestLookupTypeAliases(t *testing.T) {
	cases := map[string]Kind{
		"Integer": KindInt,
		"double":  KindFloat,
		"String":  KindString,
		"boolean": KindBool,
		"Object":  KindAny,
	}
	for name, want := range cases {
		got, ok := LookupType(name)
		if !ok || got.Kind != want {
			t.Fatalf("LookupType(%q): got %v, want %v", name, got.Kind, want)
		}
	}
	if _, ok := LookupType("Whatever"); ok {
		t.Fatalf("unexpected type")
	}
}

func TestTypeAccepts(t *testing.T) {
	ft := Type{Kind: KindFloat}
	v, ok := ft.Accepts(int64(2))
	if !ok || v != float64(2) {
		t.Fatalf("int should widen to float, got %v %v", v, ok)
	}
	if _, ok := (Type{Kind: KindInt}).Accepts(1.5); ok {
		t.Fatalf("float must not narrow to int")
	}
	if _, ok := (Type{Kind: KindString}).Accepts(nil); !ok {
		t.Fatalf("null is assignable to every type")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{nil, "null"},
		{float64(1), "1.0"},
		{2.5, "2.5"},
		{int64(-3), "-3"},
		{NewList("a", int64(1), true), "[a, 1, true]"},
		{Tuple{int64(1), "b"}, "(1, b)"},
	}
	for _, tc := range cases {
		if got := Format(tc.v); got != tc.want {
			t.Fatalf("Format(%#v): got %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestSignatureString(t *testing.T) {
	tests := []struct {
		sig  Signature
		want string
	}{
		{Signature{Params: []Type{{Kind: KindInt}, {Kind: KindString}}, Variadic: true, Returns: []Type{{Kind: KindBool}}}, "Fun<int, String... : bool>"},
		{Signature{Returns: []Type{{Kind: KindInt}}}, "Fun<: int>"},
		{Signature{Params: []Type{{Kind: KindInt}}}, "Fun<int : Void>"},
		{Signature{Params: []Type{intToInt.Type()}, Returns: []Type{{Kind: KindInt}, {Kind: KindString}}}, "Fun<Fun<int : int> : int, String>"},
	}
	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Fatalf("got %q, want %q", got, tt.want)
		}
		if got := tt.sig.Type().String(); got != tt.want {
			t.Fatalf("Type(): got %q, want %q", got, tt.want)
		}
	}
}

var intToInt = Signature{Params: []Type{{Kind: KindInt}}, Returns: []Type{{Kind: KindInt}}}

type fakeFunc struct{ sig Signature }

func (f fakeFunc) Name() string         { return "f" }
func (f fakeFunc) Signature() Signature { return f.sig }

// untypedFunc adopts any declared signature of the same arity.
type untypedFunc struct {
	arity int
	sig   Signature
}

func (f *untypedFunc) Name() string         { return "lambda" }
func (f *untypedFunc) Signature() Signature { return f.sig }

func (f *untypedFunc) BindSignature(want Signature) (Callable, bool) {
	if len(want.Params) != f.arity {
		return nil, false
	}
	return &untypedFunc{arity: f.arity, sig: want}, true
}

func TestFunTypeAcceptsMatchingSignature(t *testing.T) {
	declared := intToInt.Type()
	tests := []struct {
		name string
		v    Value
		ok   bool
	}{
		{"same signature", fakeFunc{intToInt}, true},
		{"wrong param type", fakeFunc{Signature{Params: []Type{{Kind: KindString}}, Returns: []Type{{Kind: KindInt}}}}, false},
		{"extra param", fakeFunc{Signature{Params: []Type{{Kind: KindInt}, {Kind: KindInt}}, Returns: []Type{{Kind: KindInt}}}}, false},
		{"void result", fakeFunc{Signature{Params: []Type{{Kind: KindInt}}}}, false},
		{"any param", fakeFunc{Signature{Params: []Type{Any}, Returns: []Type{{Kind: KindInt}}}}, true},
		{"variadic", fakeFunc{Signature{Params: []Type{{Kind: KindInt}}, Variadic: true, Returns: []Type{{Kind: KindInt}}}}, false},
		{"not a function", int64(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := declared.Accepts(tt.v); ok != tt.ok {
				t.Fatalf("Accepts: got %v, want %v", ok, tt.ok)
			}
		})
	}
	if _, ok := (Type{Kind: KindFunc}).Accepts(fakeFunc{Signature{}}); !ok {
		t.Fatalf("bare Fun must accept any function")
	}
}

func TestFunTypeBindsUntypedCallable(t *testing.T) {
	declared := intToInt.Type()
	got, ok := declared.Accepts(&untypedFunc{arity: 1})
	if !ok {
		t.Fatalf("Accepts: want ok")
	}
	if s := got.(Callable).Signature().String(); s != "Fun<int : int>" {
		t.Fatalf("bound signature: got %q, want %q", s, "Fun<int : int>")
	}
	if _, ok := declared.Accepts(&untypedFunc{arity: 2}); ok {
		t.Fatalf("arity mismatch must be rejected")
	}
}

func TestConversions(t *testing.T) {
	if i, ok := ToInt(3.0); !ok || i != 3 {
		t.Fatalf("ToInt(3.0): got %d %v", i, ok)
	}
	if _, ok := ToInt(3.5); ok {
		t.Fatalf("ToInt(3.5) must fail")
	}
	if n, err := ParseInt("0x1F"); err != nil || n != 31 {
		t.Fatalf("ParseInt: got %d %v", n, err)
	}
	m := FromGo(map[string]any{"b": 2, "a": []any{1, "x"}}).(*Map)
	if got := Format(m); got != "{a=[1, x], b=2}" {
		t.Fatalf("FromGo map: got %q", got)
	}
	g := ToGo(m).(map[string]any)
	if g["b"] != int64(2) {
		t.Fatalf("ToGo: got %#v", g)
	}
}

package interp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nfscript/internal/diag"
	"nfscript/internal/lexer"
	"nfscript/internal/source"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

func parse(t *testing.T, src string) *syntax.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.nf", []byte(src)))
	prog, err := syntax.Parse(lexer.New(file, lexer.Options{}).All(), syntax.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

// runScript executes src and returns what echo printed.
func runScript(t *testing.T, in *Interpreter, out *bytes.Buffer, src string) (string, Result, error) {
	t.Helper()
	out.Reset()
	res, err := in.Run(context.Background(), parse(t, src))
	if live := in.scopes.Live(); live != 1 {
		t.Fatalf("scope leak after %q: %d live scopes, want 1", src, live)
	}
	return out.String(), res, err
}

func newTestInterp(opts Options) (*Interpreter, *bytes.Buffer) {
	var buf bytes.Buffer
	opts.Stdout = &buf
	return New(opts), &buf
}

func mustRun(t *testing.T, src string) (string, *Interpreter) {
	t.Helper()
	in, buf := newTestInterp(Options{})
	out, _, err := runScript(t, in, buf, src)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return out, in
}

func runErr(t *testing.T, opts Options, src string) *diag.RuntimeError {
	t.Helper()
	in, buf := newTestInterp(opts)
	_, _, err := runScript(t, in, buf, src)
	if err == nil {
		t.Fatalf("run %q: expected error", src)
	}
	var re *diag.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("run %q: got %T (%v), want *diag.RuntimeError", src, err, err)
	}
	return re
}

func global(t *testing.T, in *Interpreter, name string) value.Value {
	t.Helper()
	v, ok := in.Global(name)
	if !ok {
		t.Fatalf("global %q not set", name)
	}
	return v
}

func TestIfChainRunsFirstTrueBranch(t *testing.T) {
	tests := []struct {
		x    string
		want string
	}{
		{"5", "big\n"},
		{"1", "one\n"},
		{"0", "other\n"},
		{"-3", "other\n"},
	}
	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			src := "x = " + tt.x + "\nif x == 5 {\n echo \"big\"\n} else if x == 1 {\n echo \"one\"\n} else if x > 0 {\n echo \"positive\"\n} else {\n echo \"other\"\n}"
			got, _ := mustRun(t, src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRangeSum(t *testing.T) {
	_, in := mustRun(t, "sum = 0\nfor i in 1..3 {\n sum = sum + i\n}")
	if got := global(t, in, "sum"); got != int64(6) {
		t.Fatalf("sum: got %v, want 6", got)
	}
}

func TestRangeVisitsEveryValueInOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"literal", "for i in -1..2 {\n echo i\n}", "-1\n0\n1\n2\n"},
		{"single", "for i in 4..4 {\n echo i\n}", "4\n"},
		{"variable bounds", "a = 2\nb = 4\nfor i in a..b {\n echo i\n}", "2\n3\n4\n"},
		{"reversed at run time", "a = 3\nfor i in a..1 {\n echo i\n}\necho \"done\"", "done\n"},
		{"bounds fixed once", "n = 3\nfor i in 1..n {\n n = 10\n echo i\n}", "1\n2\n3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIterationLoops(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"list", "for x in [1, \"a\", true] {\n echo x\n}", "1\na\ntrue\n"},
		{"set", "for x in set(3, 1, 3) {\n echo x\n}", "3\n1\n"},
		{"map pairs", "m = {\"a\": 1, \"b\": 2}\nfor k, v in m {\n echo k, \"=\", v\n}", "a=1\nb=2\n"},
		{"snapshot", "xs = [1, 2]\nfor x in xs {\n append(xs, x)\n}\necho len(xs)", "4\n"},
		{"empty", "for x in [] {\n echo x\n}\necho \"end\"", "end\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBreakContinue(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"break inner only", "for i in 1..2 {\n for j in 1..3 {\n if j == 2 {\n break\n }\n echo i, j\n }\n}", "11\n21\n"},
		{"continue", "for i in 1..4 {\n if i % 2 == 0 {\n continue\n }\n echo i\n}", "1\n3\n"},
		{"breakall from if", "for i in 1..3 {\n for j in 1..3 {\n if i == 2 {\n breakall\n }\n echo i, j\n }\n}\necho \"after\"", "11\n12\n13\nafter\n"},
		{"breakall from switch", "for i in 1..3 {\n while true {\n switch i {\n case 2:\n breakall\n default:\n echo i\n break\n }\n }\n}\necho \"after\"", "1\nafter\n"},
		{"breakall three deep", "for a in 1..2 {\n for b in 1..2 {\n for c in 1..2 {\n echo a, b, c\n breakall\n }\n }\n}\necho \"x\"", "111\nx\n"},
		{"break in while", "i = 0\nwhile true {\n i = i + 1\n if i > 2 {\n break\n }\n}\necho i", "3\n"},
		{"do-while continue checks condition", "i = 0\ndo {\n i = i + 1\n if i < 3 {\n continue\n }\n echo i\n} while i < 5", "3\n4\n5\n"},
		{"do-while body runs once", "do {\n echo \"once\"\n} while false", "once\n"},
		{"control outside loop is absorbed", "if true {\n break\n echo \"skipped\"\n}\necho \"next\"", "next\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBreakAllStopsAtFunctionBoundary(t *testing.T) {
	src := "fun inner() {\n for j in 1..3 {\n breakall\n }\n echo \"inner done\"\n}\nfor i in 1..2 {\n inner()\n echo i\n}"
	got, _ := mustRun(t, src)
	if want := "inner done\n1\ninner done\n2\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSwitchIsStrict(t *testing.T) {
	tests := []struct {
		name string
		x    string
		want string
	}{
		{"int", "1", "int\n"},
		{"float", "1.0", "float\n"},
		{"string", "\"1\"", "default\n"},
		{"list value", "2", "two or three\n"},
		{"null", "null", "default\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "x = " + tt.x + "\nswitch x {\ncase 1:\n echo \"int\"\ncase 1.0:\n echo \"float\"\ncase 2, 3:\n echo \"two or three\"\ndefault:\n echo \"default\"\n}"
			got, _ := mustRun(t, src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionReferenceMatchesNamedCall(t *testing.T) {
	src := "fun dbl(int x) int {\n return x * 2\n}\ng = dbl\na = g(21)\nb = dbl(21)"
	_, in := mustRun(t, src)
	a, b := global(t, in, "a"), global(t, in, "b")
	if a != int64(42) || !value.Equal(a, b) {
		t.Fatalf("got a=%v b=%v, want both 42", a, b)
	}
	if ref, ok := global(t, in, "dbl").(*FunctionRef); !ok || ref.Type().String() != "Fun<int : int>" {
		t.Fatalf("double binding: got %v", global(t, in, "dbl"))
	}
}

func TestDefinitionExecutedTwiceKeepsOneRegistration(t *testing.T) {
	src := "for i in 1..2 {\n fun seven() int {\n return 7\n }\n}\nx = seven()"
	_, in := mustRun(t, src)
	if n := in.Functions().Len(); n != 1 {
		t.Fatalf("registry: got %d functions, want 1", n)
	}
	if got := global(t, in, "x"); got != int64(7) {
		t.Fatalf("x: got %v, want 7", got)
	}
}

func TestFirstDefinitionWins(t *testing.T) {
	got, _ := mustRun(t, "fun f() {\n echo \"first\"\n}\nfun f() {\n echo \"second\"\n}\nf()")
	if got != "first\n" {
		t.Fatalf("got %q, want %q", got, "first\n")
	}
}

func TestCalls(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"recursion", "fun fact(int n) int {\n if n < 2 {\n return 1\n }\n return n * fact(n - 1)\n}\necho fact(5)", "120\n"},
		{"called before definition", "echo twice(4)\nfun twice(int n) int {\n return n * 2\n}", "8\n"},
		{"variadic", "fun count(String... xs) int {\n return len(xs)\n}\necho count(\"a\", \"b\", \"c\")\necho count()", "3\n0\n"},
		{"multi return", "fun pair() int, String {\n return 1, \"x\"\n}\nvar a, b = pair()\necho b, a", "x1\n"},
		{"int widens to float", "fun half(float f) float {\n return f / 2\n}\necho half(3)", "1.5\n"},
		{"sees root", "base = 10\nfun add(int n) int {\n return base + n\n}\necho add(1)", "11\n"},
		{"return in loop", "fun first(List xs) {\n for x in xs {\n if x > 1 {\n return x\n }\n }\n return 0\n}\necho first([1, 5, 9])", "5\n"},
		{"builtin", "echo len(\"héllo\"), \" \", type(1.5), \" \", contains([1, 2], 2)", "5 float true\n"},
		{"type of string", "echo type(\"x\"), \" \", type([1])", "String List\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionLocalsStayLocal(t *testing.T) {
	_, in := mustRun(t, "fun f() {\n local = 1\n}\nf()")
	if _, ok := in.Global("local"); ok {
		t.Fatal("function local leaked into the root scope")
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		line int
	}{
		{"pair over list", "for k, v in [1, 2] {\n}", diag.RunTypeMismatch, 1},
		{"map needs pair", "for k in {\"a\": 1} {\n}", diag.RunIterationSource, 1},
		{"iterate null", "x = null\nfor v in x {\n}", diag.RunIterationSource, 2},
		{"iterate int", "for v in 5 {\n}", diag.RunIterationSource, 1},
		{"float bound", "n = 2.5\nfor i in 1..n {\n}", diag.RunRangeBound, 2},
		{"undefined bound", "for i in 1..nope {\n}", diag.RunUndefinedVariable, 1},
		{"arity", "fun f(int a) {\n}\nf(1, 2)", diag.RunArity, 3},
		{"too few", "fun f(int a, int b) {\n}\nf(1)", diag.RunArity, 3},
		{"param type", "fun f(int a) {\n}\nf(\"s\")", diag.RunTypeMismatch, 3},
		{"variadic type", "fun f(String... xs) {\n}\nf(\"a\", 1)", diag.RunTypeMismatch, 3},
		{"return type", "fun g() int {\n return \"s\"\n}\ng()", diag.RunReturnMismatch, 4},
		{"return count", "fun g() int, int {\n return 1\n}\ng()", diag.RunReturnMismatch, 4},
		{"final function", "fun f() {\n}\nf = 1", diag.RunFinalAssign, 3},
		{"undefined function", "nope(1)", diag.RunUndefinedFunction, 1},
		{"unpack count", "var a, b = [1, 2, 3]", diag.RunTypeMismatch, 1},
		{"typed var", "int n = \"s\"", diag.RunTypeMismatch, 1},
		{"call non-function", "x = 1\nx()", diag.RunUndefinedFunction, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := runErr(t, Options{}, tt.src)
			if re.Code != tt.code {
				t.Fatalf("code: got %v (%v), want %v", re.Code, re, tt.code)
			}
			if re.Line != tt.line {
				t.Fatalf("line: got %d, want %d (%v)", re.Line, tt.line, re)
			}
		})
	}
}

func TestPairLoopErrorNamesShape(t *testing.T) {
	re := runErr(t, Options{}, "for k, v in [1] {\n}")
	if !strings.Contains(re.Error(), "expects a Map") {
		t.Fatalf("message: got %q, want it to name the Map shape", re.Error())
	}
}

func TestCallDepthLimit(t *testing.T) {
	re := runErr(t, Options{MaxCallDepth: 16}, "fun f(int n) {\n f(n + 1)\n}\nf(0)")
	if re.Code != diag.RunCallDepth {
		t.Fatalf("code: got %v, want %v", re.Code, diag.RunCallDepth)
	}
}

func TestInfiniteLoopTimesOut(t *testing.T) {
	in, buf := newTestInterp(Options{Timeout: 20 * time.Millisecond})
	start := time.Now()
	_, _, err := runScript(t, in, buf, "while true {}")
	if !errors.Is(err, diag.ErrTimeout) {
		t.Fatalf("got %v, want timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout took %v", elapsed)
	}
}

func TestContextCancel(t *testing.T) {
	in, _ := newTestInterp(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.Run(ctx, parse(t, "while true {}"))
	if !errors.Is(err, diag.ErrCanceled) {
		t.Fatalf("got %v, want canceled", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	_, err = in.Run(ctx, parse(t, "do {} while true"))
	if !errors.Is(err, diag.ErrTimeout) {
		t.Fatalf("got %v, want timeout", err)
	}
}

func TestScriptReturn(t *testing.T) {
	in, buf := newTestInterp(Options{})
	out, res, err := runScript(t, in, buf, "echo 1\nreturn 2, \"x\"\necho 3")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n" {
		t.Fatalf("output: got %q, want %q", out, "1\n")
	}
	if !res.Returned || len(res.Values) != 2 || res.Values[0] != int64(2) || res.Values[1] != "x" {
		t.Fatalf("result: got %+v", res)
	}
}

func TestNoScopeLeakAcrossManyCalls(t *testing.T) {
	in, buf := newTestInterp(Options{})
	src := "fun f(int n) int {\n if n > 0 {\n for i in 1..2 {\n }\n }\n return n\n}\nfor i in 1..200 {\n f(i)\n}"
	if _, _, err := runScript(t, in, buf, src); err != nil {
		t.Fatal(err)
	}
	// runScript fails the test on a leak; an erroring run must release too.
	if _, _, err := runScript(t, in, buf, "for i in 1..3 {\n if i == 2 {\n nope()\n }\n}"); err == nil {
		t.Fatal("expected undefined function error")
	}
}

func TestHostBindings(t *testing.T) {
	in, buf := newTestInterp(Options{})
	if err := in.Set("$user", "ann"); err != nil {
		t.Fatal(err)
	}
	if err := in.Set("if", 1); err == nil {
		t.Fatal("Set accepted a keyword")
	}
	in.Define("shout", func(args []value.Value) (value.Value, error) {
		return strings.ToUpper(value.Format(args[0])) + "!", nil
	})
	in.Define("len", func([]value.Value) (value.Value, error) { return int64(-1), nil })

	out, _, err := runScript(t, in, buf, "echo shout($user)\nn = len(\"abc\")")
	if err != nil {
		t.Fatal(err)
	}
	if out != "ANN!\n" {
		t.Fatalf("output: got %q, want %q", out, "ANN!\n")
	}
	if got := global(t, in, "n"); got != int64(-1) {
		t.Fatalf("host function should shadow builtin: got %v", got)
	}

	// the root scope persists between runs
	if _, _, err := runScript(t, in, buf, "m = n + 1"); err != nil {
		t.Fatal(err)
	}
	if got := in.Vars()["m"]; got != int64(0) {
		t.Fatalf("m: got %v, want 0", got)
	}

	in.Reset()
	if _, ok := in.Global("m"); ok {
		t.Fatal("Reset kept bindings")
	}
}

func TestHostCall(t *testing.T) {
	_, in := mustRun(t, "fun greet(String who, int n) String {\n return who + \"#\" + str(n)\n}")
	got, err := in.Call("greet", "bob", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "bob#3" {
		t.Fatalf("got %v, want bob#3", got)
	}
	if _, err := in.Call("missing"); !errors.Is(err, diag.ErrUndefined) {
		t.Fatalf("got %v, want undefined", err)
	}
	if live := in.scopes.Live(); live != 1 {
		t.Fatalf("live scopes: got %d, want 1", live)
	}
}

func TestLambdas(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declared and passed", "fun applyOperation(Fun<int, int : int> op, int x, int y) int {\n return op(x, y)\n}\nFun<int, int : int> multiply = (a, b) -> {\n return a * b\n}\necho applyOperation(multiply, 5, 6)", "30\n"},
		{"inline argument", "fun apply(Fun<int : int> f, int x) int {\n return f(x)\n}\necho apply((n) -> { return n * n }, 5)", "25\n"},
		{"captures locals", "fun adder(int base) Fun {\n return (x) -> { return x + base }\n}\nadd3 = adder(3)\necho add3(4)", "7\n"},
		{"copies locals at creation", "fun make() Fun {\n int n = 1\n f = () -> { return n }\n n = 2\n return f\n}\ng = make()\necho g()", "1\n"},
		{"sees globals live", "count = 1\ninc = () -> { return count + 1 }\ncount = 10\necho inc()", "11\n"},
		{"untyped multi-line", "pick = (a, b) -> {\n if a > b {\n return a\n }\n return b\n}\necho pick(2, 9)", "9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionSignatureChecks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		line int
	}{
		{"declared type differs", "fun add(int a, int b) int {\n return a + b\n}\nFun<String, String : String> f = add", diag.RunTypeMismatch, 4},
		{"parameter arity differs", "fun two(int a, int b) int {\n return a\n}\nfun ap(Fun<int : int> g, int v) int {\n return g(v)\n}\nap(two, 4)", diag.RunTypeMismatch, 7},
		{"lambda arity differs", "Fun<int, int : int> f = (a) -> {\n return a\n}", diag.RunTypeMismatch, 1},
		{"lambda argument type", "Fun<int : int> sq = (x) -> {\n return x * x\n}\nsq(\"s\")", diag.RunTypeMismatch, 4},
		{"lambda result type", "Fun<int : String> f = (x) -> {\n return x\n}\nf(1)", diag.RunReturnMismatch, 4},
		{"assign other signature", "fun one() int {\n return 1\n}\nFun<: int> f = one\nfun two(int a) int {\n return a\n}\nf = two", diag.RunTypeMismatch, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := runErr(t, Options{}, tt.src)
			if re.Code != tt.code || re.Line != tt.line {
				t.Fatalf("got %v at line %d (%v), want %v at line %d", re.Code, re.Line, re, tt.code, tt.line)
			}
		})
	}

	re := runErr(t, Options{}, tests[0].src)
	if !strings.Contains(re.Error(), "want Fun<String, String : String>, got Fun<int, int : int>") {
		t.Fatalf("message: got %q", re.Error())
	}
}

func TestMatchingSignatureBinds(t *testing.T) {
	src := "fun add(int a, int b) int {\n return a + b\n}\nFun<int, int : int> f = add\necho f(2, 3)"
	if got, _ := mustRun(t, src); got != "5\n" {
		t.Fatalf("got %q, want %q", got, "5\n")
	}
}

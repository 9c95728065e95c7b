package syntax

import (
	"errors"
	"strings"
	"testing"

	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/lexer"
	"nfscript/internal/source"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

// tokensOf lexes src; lexical errors are ignored so the parser sees them too.
func tokensOf(src string) []token.Token {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.nf", []byte(src)))
	return lexer.New(file, lexer.Options{}).All()
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(tokensOf(src), Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func parseErr(t *testing.T, src string) *diag.SyntaxError {
	t.Helper()
	_, err := Parse(tokensOf(src), Options{})
	if err == nil {
		t.Fatalf("parse %q: expected error", src)
	}
	var se *diag.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("parse %q: got %T, want *diag.SyntaxError", src, err)
	}
	return se
}

func kinds(nodes []Node) []NodeKind {
	out := make([]NodeKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func expectKinds(t *testing.T, nodes []Node, want ...NodeKind) {
	t.Helper()
	got := kinds(nodes)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("node %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIfChain(t *testing.T) {
	src := "if x > 1 {\n echo 1\n} else if x > 0 {\n echo 2\n}\nelse {\n echo 3\n echo 4\n}\necho 5"
	prog := mustParse(t, src)
	expectKinds(t, prog.Nodes, NodeIf, NodeEcho)

	n := prog.Nodes[0].(*If)
	if n.Line() != 1 {
		t.Fatalf("if line: got %d, want 1", n.Line())
	}
	if len(n.Branches) != 3 {
		t.Fatalf("branches: got %d, want 3", len(n.Branches))
	}
	wantKinds := []BranchKind{BranchIf, BranchElseIf, BranchElse}
	for i, br := range n.Branches {
		if br.Kind != wantKinds[i] {
			t.Fatalf("branch %d: got %v, want %v", i, br.Kind, wantKinds[i])
		}
	}
	if got := n.Branches[1].Cond.String(); got != "(x > 0)" {
		t.Fatalf("else-if cond: got %q", got)
	}
	if n.Branches[2].Cond != nil {
		t.Fatalf("else must have no condition")
	}
	expectKinds(t, n.Branches[2].Body, NodeEcho, NodeEcho)
	if prog.Nodes[1].Line() != 10 {
		t.Fatalf("echo after if: got line %d, want 10", prog.Nodes[1].Line())
	}
}

func TestNestedIfInsideElse(t *testing.T) {
	src := "if a {\n if b {\n echo 1\n } else {\n echo 2\n }\n} else {\n echo 3\n}"
	prog := mustParse(t, src)
	expectKinds(t, prog.Nodes, NodeIf)
	outer := prog.Nodes[0].(*If)
	if len(outer.Branches) != 2 {
		t.Fatalf("outer branches: got %d, want 2", len(outer.Branches))
	}
	inner := outer.Branches[0].Body[0].(*If)
	if len(inner.Branches) != 2 {
		t.Fatalf("inner branches: got %d, want 2", len(inner.Branches))
	}
}

func TestForHeaders(t *testing.T) {
	prog := mustParse(t, "for i in 1..3 {\n sum = sum + i\n}")
	f := prog.Nodes[0].(*For)
	if f.Mode != ForRange || f.Var != "i" || f.Start.Value != 1 || f.End.Value != 3 {
		t.Fatalf("range header: got %+v", f)
	}
	expectKinds(t, f.Body, NodeAssign)

	prog = mustParse(t, "for i in -2..n {\n}")
	f = prog.Nodes[0].(*For)
	if f.Start.Value != -2 || f.Start.IsVar() || f.End.Name != "n" {
		t.Fatalf("bounds: got %+v %+v", f.Start, f.End)
	}

	prog = mustParse(t, "for k, v in m {\n}")
	f = prog.Nodes[0].(*For)
	if f.Mode != ForIter || f.Var != "k" || f.Value != "v" {
		t.Fatalf("iter header: got %+v", f)
	}
	if id, ok := f.Source.(*expr.Ident); !ok || id.Name != "m" {
		t.Fatalf("iter source: got %v", f.Source)
	}

	prog = mustParse(t, "for x in [1, 2] {\n}")
	if _, ok := prog.Nodes[0].(*For).Source.(*expr.ListLit); !ok {
		t.Fatalf("list literal source expected")
	}
}

func TestWhileAndDoWhile(t *testing.T) {
	prog := mustParse(t, "while i < 3 {\n i = i + 1\n}\ndo {\n i = i - 1\n} while i > 0\necho i")
	expectKinds(t, prog.Nodes, NodeWhile, NodeDoWhile, NodeEcho)
	dw := prog.Nodes[1].(*DoWhile)
	if got := dw.Cond.String(); got != "(i > 0)" {
		t.Fatalf("do-while cond: got %q", got)
	}
}

func TestEmptyBlocks(t *testing.T) {
	prog := mustParse(t, "while true {}\nif x {} else {}\ndo {} while false")
	expectKinds(t, prog.Nodes, NodeWhile, NodeIf, NodeDoWhile)
	if n := len(prog.Nodes[0].(*While).Body); n != 0 {
		t.Fatalf("while body: got %d nodes, want 0", n)
	}
	if n := len(prog.Nodes[1].(*If).Branches); n != 2 {
		t.Fatalf("if branches: got %d, want 2", n)
	}
}

func TestSwitch(t *testing.T) {
	src := "switch x {\ncase 1, 2:\n echo \"a\"\ncase \"s\"\n echo \"b\"\n echo \"c\"\ncase -1.5\ndefault:\n echo \"d\"\n}"
	prog := mustParse(t, src)
	sw := prog.Nodes[0].(*Switch)
	if len(sw.Cases) != 3 || !sw.HasDefault {
		t.Fatalf("switch: got %d cases default=%v", len(sw.Cases), sw.HasDefault)
	}
	if v := sw.Cases[0].Values; len(v) != 2 || v[0] != int64(1) || v[1] != int64(2) {
		t.Fatalf("case 0 values: got %v", v)
	}
	if v := sw.Cases[1].Values; len(v) != 1 || v[0] != "s" {
		t.Fatalf("case 1 values: got %v", v)
	}
	expectKinds(t, sw.Cases[1].Body, NodeEcho, NodeEcho)
	if v := sw.Cases[2].Values[0]; v != -1.5 {
		t.Fatalf("negative float case: got %v", v)
	}
	if len(sw.Cases[2].Body) != 0 {
		t.Fatalf("empty case body expected")
	}
	expectKinds(t, sw.Default, NodeEcho)
}

func TestSwitchCaseWithNestedBlock(t *testing.T) {
	src := "switch n {\ncase 1:\n if y {\n echo 1\n }\ncase 2:\n echo 2\n}"
	sw := mustParse(t, src).Nodes[0].(*Switch)
	if len(sw.Cases) != 2 {
		t.Fatalf("cases: got %d, want 2", len(sw.Cases))
	}
	expectKinds(t, sw.Cases[0].Body, NodeIf)
}

func TestFunctionDefinition(t *testing.T) {
	src := "fun add(int a, int b) int {\n return a + b\n}\nfun pair(String... xs) int, String {\n return 1, \"x\"\n}\nfun apply(Fun<int : int> f, int v) {\n}"
	prog := mustParse(t, src)
	if len(prog.Funcs) != 3 {
		t.Fatalf("funcs: got %d, want 3", len(prog.Funcs))
	}
	add := prog.Funcs[0]
	if add.Name != "add" || len(add.Params) != 2 || len(add.Returns) != 1 || add.Returns[0].Kind != value.KindInt {
		t.Fatalf("add: got %+v", add)
	}
	pair := prog.Funcs[1]
	if !pair.Params[0].Variadic || len(pair.Returns) != 2 {
		t.Fatalf("pair: got %+v", pair)
	}
	if got := pair.Signature().String(); got != "Fun<String... : int, String>" {
		t.Fatalf("pair signature: got %q", got)
	}
	apply := prog.Funcs[2]
	if ft := apply.Params[0].Type; ft.Kind != value.KindFunc || ft.Func == nil || len(ft.Func.Params) != 1 || len(ft.Func.Returns) != 1 {
		t.Fatalf("Fun<> param: got %v", ft)
	}
	ret := add.Body[0].(*Return)
	if len(ret.Values) != 1 {
		t.Fatalf("return values: got %d", len(ret.Values))
	}
}

func TestNestedFunctionsAreCollected(t *testing.T) {
	prog := mustParse(t, "if x {\n fun inner() {\n }\n}\nfun outer() {\n}")
	if len(prog.Funcs) != 2 || prog.Funcs[0].Name != "inner" || prog.Funcs[1].Name != "outer" {
		t.Fatalf("funcs: got %v", prog.Funcs)
	}
}

func TestLineStatements(t *testing.T) {
	src := "var a, b: int = f()\nint n = 5\nFun<int : int> g\nList<String> xs = [\"a\"]\nx = 1\necho\nprint(1, 2)\nreturn"
	prog := mustParse(t, src)
	expectKinds(t, prog.Nodes, NodeVarDecl, NodeVarDecl, NodeVarDecl, NodeVarDecl, NodeAssign, NodeEcho, NodeExpr, NodeReturn)

	v := prog.Nodes[0].(*VarDecl)
	if len(v.Names) != 2 || v.Type.Kind != value.KindInt || v.Value == nil {
		t.Fatalf("multi var: got %+v", v)
	}
	g := prog.Nodes[2].(*VarDecl)
	if g.Value != nil || g.Type.Kind != value.KindFunc {
		t.Fatalf("Fun decl: got %+v", g)
	}
	if xs := prog.Nodes[3].(*VarDecl); xs.Type.Kind != value.KindList {
		t.Fatalf("List decl: got %v", xs.Type)
	}
	if call, ok := prog.Nodes[6].(*ExprStmt).X.(*expr.Call); !ok || len(call.Args) != 2 {
		t.Fatalf("call stmt: got %v", prog.Nodes[6].(*ExprStmt).X)
	}
}

func TestMultilineLiteralInsideBlock(t *testing.T) {
	prog := mustParse(t, "if x {\n m = {\n\"a\": 1\n}\n echo m\n}")
	expectKinds(t, prog.Nodes[0].(*If).Branches[0].Body, NodeAssign, NodeEcho)
}

func TestShadowingRules(t *testing.T) {
	mustParse(t, "var x = 1\nfun f(int x) {\n echo x\n}")
	mustParse(t, "if a {\n var t = 1\n}\nif b {\n var t = 2\n}")
	mustParse(t, "x = 1\nx = 2")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"empty if condition", "if {\n}", diag.SynEmptyCondition},
		{"missing block", "if x\necho 1", diag.SynMissingBlock},
		{"unclosed block", "while x {\n echo 1\n", diag.SynUnclosedBlock},
		{"dangling else", "if x {\n} else echo 1", diag.SynDanglingElse},
		{"stray else", "else {\n}", diag.SynStrayToken},
		{"stray case", "case 1", diag.SynStrayToken},
		{"for missing in", "for i 1..3 {\n}", diag.SynForMissingIn},
		{"for empty header", "for {\n}", diag.SynForBadHeader},
		{"for missing source", "for i in {\n}", diag.SynForBadHeader},
		{"for two vars range", "for a, b in 1..3 {\n}", diag.SynForBadHeader},
		{"for three vars", "for a, b, c in m {\n}", diag.SynForBadHeader},
		{"for keyword var", "for if in x {\n}", diag.SynReservedName},
		{"for float bound", "for i in 1.5..3 {\n}", diag.SynForBadRange},
		{"for reversed", "for i in 3..1 {\n}", diag.SynForBadRange},
		{"do without while", "do {\n}\nwhile x", diag.SynDoMissingWhile},
		{"do with header", "do x {\n} while y", diag.SynMissingBlock},
		{"do empty cond", "do {\n} while", diag.SynEmptyCondition},
		{"switch expression", "switch x + 1 {\n}", diag.SynSwitchBadScrutinee},
		{"switch non-literal case", "switch x {\ncase y:\n}", diag.SynSwitchBadCase},
		{"switch default first", "switch x {\ndefault:\ncase 1:\n}", diag.SynSwitchDefaultNotLast},
		{"switch text before case", "switch x {\necho 1\n}", diag.SynSwitchBadCase},
		{"fun keyword name", "fun if() {\n}", diag.SynFunBadName},
		{"fun no parens", "fun f {\n}", diag.SynFunBadSignature},
		{"fun unknown type", "fun f(Foo a) {\n}", diag.SynExpectType},
		{"fun reserved param", "fun f(int this) {\n}", diag.SynReservedName},
		{"fun duplicate param", "fun f(int a, int a) {\n}", diag.SynDuplicateVariable},
		{"fun variadic not last", "fun f(String... xs, int n) {\n}", diag.SynVariadicMustBeLast},
		{"fun param redeclared", "fun f(int a) {\n var a = 1\n}", diag.SynDuplicateVariable},
		{"var redeclared", "var x = 1\nvar x = 2", diag.SynDuplicateVariable},
		{"var redeclared in block", "var x = 1\nif y {\n int x = 2\n}", diag.SynDuplicateVariable},
		{"dollar var", "var $x = 1", diag.SynReservedName},
		{"var without value", "var x =", diag.SynExpectExpression},
		{"break with operand", "break 1", diag.SynUnexpectedToken},
		{"assign without value", "x =", diag.SynExpectExpression},
		{"for literal var", "for 1 in x {\n}", diag.SynExpectIdentifier},
		{"fun type without colon", "fun f(Fun<int, int> g) {\n}", diag.SynExpectType},
		{"fun type variadic not last", "fun f(Fun<int..., int : int> g) {\n}", diag.SynVariadicMustBeLast},
		{"lambda reserved param", "f = (this) -> {\n}", diag.SynReservedName},
		{"lambda param redeclared", "f = (a) -> {\n var a = 1\n}", diag.SynDuplicateVariable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := parseErr(t, tt.src)
			if se.Code != tt.code {
				t.Fatalf("code: got %v, want %v (%v)", se.Code, tt.code, se)
			}
			if se.Line == 0 {
				t.Fatalf("error without line: %v", se)
			}
		})
	}
}

func TestReversedRangeSuggestsSwap(t *testing.T) {
	se := parseErr(t, "for i in 5..1 {\n}")
	if !strings.Contains(se.Suggestion, "1..5") {
		t.Fatalf("suggestion: got %q", se.Suggestion)
	}
	if !strings.Contains(se.Error(), "hint:") {
		t.Fatalf("rendered error lacks hint: %q", se.Error())
	}
}

func TestLoopControlWarnings(t *testing.T) {
	prog := mustParse(t, "break")
	if len(prog.Warnings) != 1 || prog.Warnings[0].Code != diag.SynLoopControlOutsideLoop {
		t.Fatalf("warnings: got %v", prog.Warnings)
	}

	prog = mustParse(t, "for i in 1..2 {\n if i == 1 {\n break\n }\n switch i {\n case 2:\n continue\n }\n}")
	if len(prog.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", prog.Warnings)
	}

	// function bodies start outside any loop
	prog = mustParse(t, "while x {\n fun f() {\n breakall\n }\n}")
	if len(prog.Warnings) != 1 {
		t.Fatalf("warnings: got %v", prog.Warnings)
	}
}

func TestDuplicateFunctionWarnsAndReports(t *testing.T) {
	bag := diag.NewBag(8)
	prog, err := Parse(tokensOf("fun f() {\n}\nfun f() {\n}"), Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Funcs) != 2 {
		t.Fatalf("funcs: got %d, want 2", len(prog.Funcs))
	}
	if len(prog.Warnings) != 1 || prog.Warnings[0].Code != diag.SynDuplicateFunction || prog.Warnings[0].Line != 3 {
		t.Fatalf("warnings: got %v", prog.Warnings)
	}
	if !bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("bag: got %v", bag.Items())
	}
}

func TestSiblingsConsumedInOrder(t *testing.T) {
	src := "for i in 1..2 {\n for j in 1..2 {\n breakall\n }\n}\necho i\nwhile false {\n}\n"
	prog := mustParse(t, src)
	expectKinds(t, prog.Nodes, NodeFor, NodeEcho, NodeWhile)
	want := []int{1, 6, 7}
	for i, n := range prog.Nodes {
		if n.Line() != want[i] {
			t.Fatalf("node %d line: got %d, want %d", i, n.Line(), want[i])
		}
	}
}

func TestMissingBlockHintKeepsKeyword(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"while x\necho 1", "while x {"},
		{"if a > 1\necho 1", "if a > 1 {"},
	}
	for _, tt := range tests {
		se := parseErr(t, tt.src)
		if se.Suggestion != tt.want {
			t.Fatalf("%q: suggestion got %q, want %q", tt.src, se.Suggestion, tt.want)
		}
		if se.Snippet != strings.TrimSuffix(tt.want, " {") {
			t.Fatalf("%q: snippet got %q", tt.src, se.Snippet)
		}
	}

	se := parseErr(t, "while x {\n echo 1\n")
	if se.Snippet != "while x {" {
		t.Fatalf("unclosed block snippet: got %q, want %q", se.Snippet, "while x {")
	}
}

func TestFunTypeAnnotations(t *testing.T) {
	src := "fun ap(Fun<int : int> g, int v) int {\n return g(v)\n}\nFun<int, int : int> f = add\nFun< : Void> h\nFun<Fun<int : int>, String... : int, String> k"
	prog := mustParse(t, src)
	ap := prog.Funcs[0]
	if got := ap.Signature().String(); got != "Fun<Fun<int : int>, int : int>" {
		t.Fatalf("ap signature: got %q", got)
	}
	want := []string{"Fun<int, int : int>", "Fun<: Void>", "Fun<Fun<int : int>, String... : int, String>"}
	for i, w := range want {
		d := prog.Nodes[i+1].(*VarDecl)
		if got := d.Type.String(); got != w {
			t.Fatalf("decl %s: got %q, want %q", d.Names[0], got, w)
		}
	}
}

func TestLambdaBodiesAreParsed(t *testing.T) {
	src := "Fun<int : int> sq = (x) -> {\n int y = x * x\n return y\n}\nr = apply((a, b) -> { return a + b }, 1, 2)\nif ok {\n f = () -> {\n echo 1\n }\n f()\n}"
	prog := mustParse(t, src)
	expectKinds(t, prog.Nodes, NodeVarDecl, NodeAssign, NodeIf)

	sq := prog.Nodes[0].(*VarDecl).Value.(*expr.Lambda)
	if len(sq.Params) != 1 || sq.Params[0] != "x" {
		t.Fatalf("params: got %v", sq.Params)
	}
	expectKinds(t, sq.Body.([]Node), NodeVarDecl, NodeReturn)

	call := prog.Nodes[1].(*Assign).Value.(*expr.Call)
	inline := call.Args[0].(*expr.Lambda)
	expectKinds(t, inline.Body.([]Node), NodeReturn)

	body := prog.Nodes[2].(*If).Branches[0].Body
	expectKinds(t, body, NodeAssign, NodeExpr)
}

func TestLambdaBodyStartsOutsideLoops(t *testing.T) {
	prog := mustParse(t, "for i in 1..2 {\n f = () -> {\n break\n }\n}")
	if len(prog.Warnings) != 1 || prog.Warnings[0].Code != diag.SynLoopControlOutsideLoop {
		t.Fatalf("warnings: got %v", prog.Warnings)
	}
}

package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/expr"
	"nfscript/internal/value"
)

// Node is a built statement. The set of implementations is closed; the
// interpreter switches on the concrete type.
type Node interface {
	Line() int
	Kind() NodeKind
	stmtNode()
}

type NodeKind uint8

const (
	NodeIf NodeKind = iota
	NodeFor
	NodeWhile
	NodeDoWhile
	NodeSwitch
	NodeFuncDef
	NodeVarDecl
	NodeAssign
	NodeEcho
	NodeReturn
	NodeBreak
	NodeContinue
	NodeBreakAll
	NodeExpr
)

var nodeKindNames = [...]string{
	NodeIf:       "If",
	NodeFor:      "For",
	NodeWhile:    "While",
	NodeDoWhile:  "DoWhile",
	NodeSwitch:   "Switch",
	NodeFuncDef:  "FuncDef",
	NodeVarDecl:  "VarDecl",
	NodeAssign:   "Assign",
	NodeEcho:     "Echo",
	NodeReturn:   "Return",
	NodeBreak:    "Break",
	NodeContinue: "Continue",
	NodeBreakAll: "BreakAll",
	NodeExpr:     "Expr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Node(?)"
}

type base struct {
	At int
}

func (b base) Line() int { return b.At }
func (base) stmtNode()   {}

type BranchKind uint8

const (
	BranchIf BranchKind = iota
	BranchElseIf
	BranchElse
)

func (k BranchKind) String() string {
	switch k {
	case BranchIf:
		return "if"
	case BranchElseIf:
		return "else if"
	default:
		return "else"
	}
}

// Branch is one arm of an if chain; Cond is nil for else.
type Branch struct {
	Kind BranchKind
	Line int
	Cond expr.Expr
	Body []Node
}

// If holds branches in source order: one BranchIf, any BranchElseIf, at
// most one trailing BranchElse.
type If struct {
	base
	Branches []Branch
}

type ForMode uint8

const (
	ForRange ForMode = iota
	ForIter
)

func (m ForMode) String() string {
	if m == ForRange {
		return "range"
	}
	return "iteration"
}

// Bound is a range limit: an integer literal or a variable name.
type Bound struct {
	Name  string // empty for literals
	Value int64
}

func (b Bound) IsVar() bool { return b.Name != "" }

// For is either `for v in a..b` (Range) or `for v in src` / `for k, v in src`
// (Iteration). Value is empty for the single-variable forms.
type For struct {
	base
	Mode       ForMode
	Var        string
	Value      string
	Start, End Bound
	Source     expr.Expr
	Body       []Node
}

type While struct {
	base
	Cond expr.Expr
	Body []Node
}

type DoWhile struct {
	base
	Cond expr.Expr
	Body []Node
}

// Case matches when the scrutinee equals one of Values by type and value.
type Case struct {
	Line   int
	Values []value.Value
	Body   []Node
}

type Switch struct {
	base
	Scrutinee  expr.Expr
	Cases      []Case
	HasDefault bool
	Default    []Node
}

type Param struct {
	Name     string
	Type     value.Type
	Variadic bool
}

type FuncDef struct {
	base
	Name    string
	Params  []Param
	Returns []value.Type
	Body    []Node
}

// Signature derives the callable signature of the definition.
func (f *FuncDef) Signature() value.Signature {
	sig := value.Signature{Returns: f.Returns}
	for _, p := range f.Params {
		sig.Params = append(sig.Params, p.Type)
		sig.Variadic = p.Variadic
	}
	return sig
}

// VarDecl covers `var a, b: T = e`, `T x = e` and `T x`. Value is nil when
// the declaration has no initializer.
type VarDecl struct {
	base
	Names []string
	Type  value.Type
	Value expr.Expr
}

type Assign struct {
	base
	Name  string
	Value expr.Expr
}

type Echo struct {
	base
	Args []expr.Expr
}

type Return struct {
	base
	Values []expr.Expr
}

type Break struct{ base }

type Continue struct{ base }

type BreakAll struct{ base }

type ExprStmt struct {
	base
	X expr.Expr
}

func (*If) Kind() NodeKind       { return NodeIf }
func (*For) Kind() NodeKind      { return NodeFor }
func (*While) Kind() NodeKind    { return NodeWhile }
func (*DoWhile) Kind() NodeKind  { return NodeDoWhile }
func (*Switch) Kind() NodeKind   { return NodeSwitch }
func (*FuncDef) Kind() NodeKind  { return NodeFuncDef }
func (*VarDecl) Kind() NodeKind  { return NodeVarDecl }
func (*Assign) Kind() NodeKind   { return NodeAssign }
func (*Echo) Kind() NodeKind     { return NodeEcho }
func (*Return) Kind() NodeKind   { return NodeReturn }
func (*Break) Kind() NodeKind    { return NodeBreak }
func (*Continue) Kind() NodeKind { return NodeContinue }
func (*BreakAll) Kind() NodeKind { return NodeBreakAll }
func (*ExprStmt) Kind() NodeKind { return NodeExpr }

// Program is a parsed script.
type Program struct {
	Nodes []Node
	// Funcs lists every function definition at any depth, in source order.
	Funcs    []*FuncDef
	Warnings []diag.Diagnostic
}

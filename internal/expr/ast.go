// Package expr parses and evaluates NF expressions: conditions, right-hand
// sides, call arguments and template placeholders.
//
// Parsing happens once at build time; Eval runs against an Env supplied by
// the interpreter.
package expr

import (
	"strings"

	"nfscript/internal/token"
	"nfscript/internal/value"
)

// Expr is a parsed expression. The set of implementations is closed.
type Expr interface {
	Line() int
	String() string
	exprNode()
}

type pos struct{ line int }

func (p pos) Line() int { return p.line }
func (pos) exprNode()   {}

// Lit is a literal constant.
type Lit struct {
	pos
	Value value.Value
}

// Ident is a variable reference.
type Ident struct {
	pos
	Name string
}

type Unary struct {
	pos
	Op token.Kind // Minus or Bang
	X  Expr
}

// Binary covers arithmetic, comparison, equality and the logical operators.
// KwAnd/KwOr are normalised to AndAnd/OrOr by the parser.
type Binary struct {
	pos
	Op          token.Kind
	Left, Right Expr
}

type Call struct {
	pos
	Fn   Expr
	Args []Expr
}

type Index struct {
	pos
	X, Index Expr
}

type ListLit struct {
	pos
	Items []Expr
}

type MapLit struct {
	pos
	Keys, Values []Expr
}

// Template is a ```...``` string; Parts alternate freely between string
// literals and placeholder expressions.
type Template struct {
	pos
	Parts []Expr
}

// Lambda is `(a, b) -> { … }`. Tokens is the body between the braces;
// Body holds what the statement parser built from it.
type Lambda struct {
	pos
	Params []string
	Tokens []token.Token
	Body   any
}

func (e *Lit) String() string   { return value.Quote(e.Value) }
func (e *Ident) String() string { return e.Name }

func (e *Unary) String() string {
	op, _ := e.Op.Lexeme()
	return op + e.X.String()
}

func (e *Binary) String() string {
	op, _ := e.Op.Lexeme()
	return "(" + e.Left.String() + " " + op + " " + e.Right.String() + ")"
}

func (e *Call) String() string {
	return e.Fn.String() + "(" + joinExprs(e.Args) + ")"
}

func (e *Index) String() string {
	return e.X.String() + "[" + e.Index.String() + "]"
}

func (e *ListLit) String() string { return "[" + joinExprs(e.Items) + "]" }

func (e *MapLit) String() string {
	parts := make([]string, len(e.Keys))
	for i := range e.Keys {
		parts[i] = e.Keys[i].String() + ": " + e.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (e *Template) String() string {
	var b strings.Builder
	b.WriteString("```")
	for _, p := range e.Parts {
		if lit, ok := p.(*Lit); ok {
			if s, isStr := lit.Value.(string); isStr {
				b.WriteString(s)
				continue
			}
		}
		b.WriteString("{" + p.String() + "}")
	}
	b.WriteString("```")
	return b.String()
}

func (e *Lambda) String() string {
	return "(" + strings.Join(e.Params, ", ") + ") -> {…}"
}

func joinExprs(list []Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// IsLiteral reports whether e is a constant (after folding a unary minus on
// a number).
func IsLiteral(e Expr) (value.Value, bool) {
	switch x := e.(type) {
	case *Lit:
		return x.Value, true
	case *Unary:
		if x.Op != token.Minus {
			return nil, false
		}
		if lit, ok := x.X.(*Lit); ok {
			switch n := lit.Value.(type) {
			case int64:
				return -n, true
			case float64:
				return -n, true
			}
		}
	}
	return nil, false
}

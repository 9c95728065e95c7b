package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// LineEnd terminates a statement; produced for '\n' and ';'.
	LineEnd

	// Ident represents an identifier token (type names included).
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents a quoted string literal; Text holds the decoded value.
	StringLit
	// TemplateLit represents a ```template``` string; Text holds the body.
	TemplateLit

	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwFun represents the 'fun' keyword.
	KwFun // fun
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwBreakAll represents the 'breakall' keyword.
	KwBreakAll // breakall
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwEcho represents the 'echo' keyword.
	KwEcho // echo
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false
	// KwNull represents the 'null' literal keyword.
	KwNull // null
	// KwAnd is the word form of '&&'.
	KwAnd // and
	// KwOr is the word form of '||'.
	KwOr // or

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // =
	EqEq      // ==
	Bang      // !
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	AndAnd    // &&
	OrOr      // ||
	Colon     // :
	Comma     // ,
	DotDot    // ..
	DotDotDot // ... (vararg)
	Arrow     // -> (lambda)
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	LineEnd:     "LineEnd",
	Ident:       "Ident",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	TemplateLit: "TemplateLit",
	KwIf:        "KwIf",
	KwElse:      "KwElse",
	KwSwitch:    "KwSwitch",
	KwCase:      "KwCase",
	KwDefault:   "KwDefault",
	KwWhile:     "KwWhile",
	KwDo:        "KwDo",
	KwFor:       "KwFor",
	KwIn:        "KwIn",
	KwFun:       "KwFun",
	KwReturn:    "KwReturn",
	KwBreak:     "KwBreak",
	KwBreakAll:  "KwBreakAll",
	KwContinue:  "KwContinue",
	KwEcho:      "KwEcho",
	KwVar:       "KwVar",
	KwTrue:      "KwTrue",
	KwFalse:     "KwFalse",
	KwNull:      "KwNull",
	KwAnd:       "KwAnd",
	KwOr:        "KwOr",
	Plus:        "Plus",
	Minus:       "Minus",
	Star:        "Star",
	Slash:       "Slash",
	Percent:     "Percent",
	Assign:      "Assign",
	EqEq:        "EqEq",
	Bang:        "Bang",
	BangEq:      "BangEq",
	Lt:          "Lt",
	LtEq:        "LtEq",
	Gt:          "Gt",
	GtEq:        "GtEq",
	AndAnd:      "AndAnd",
	OrOr:        "OrOr",
	Colon:       "Colon",
	Comma:       "Comma",
	DotDot:      "DotDot",
	DotDotDot:   "DotDotDot",
	Arrow:       "Arrow",
	LParen:      "LParen",
	RParen:      "RParen",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

var punctText = map[Kind]string{
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", AndAnd: "&&", OrOr: "||",
	Colon: ":", Comma: ",", DotDot: "..", DotDotDot: "...", Arrow: "->",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

// Lexeme returns the canonical source spelling of punctuation kinds.
func (k Kind) Lexeme() (string, bool) {
	s, ok := punctText[k]
	return s, ok
}

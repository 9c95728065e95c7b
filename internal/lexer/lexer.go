package lexer

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"nfscript/internal/diag"
	"nfscript/internal/source"
	"nfscript/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	last   token.Kind
	open   []token.Token // стек открытых скобок
	errors int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		last:   token.LineEnd,
	}
}

// Next returns the next significant token. Runs of newlines and ';' collapse
// into one LineEnd; a LineEnd is never emitted at the start of input.
// After EOF Next keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for {
		tok := lx.scan()
		if tok.Kind == token.LineEnd && lx.last == token.LineEnd {
			continue
		}
		if tok.Kind == token.EOF {
			lx.closeUnbalanced()
		}
		lx.last = tok.Kind
		return tok
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// ErrorCount reports how many lexical errors were emitted so far.
func (lx *Lexer) ErrorCount() int { return lx.errors }

// All drains the lexer; the result always ends with EOF.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/3+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scan() token.Token {
	lx.skipSpaceAndComments()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Line: lx.cursor.Line, Span: lx.emptySpan()}
	}

	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n' || ch == ';':
		lx.cursor.Bump()
		tok = token.Token{Kind: token.LineEnd, Text: string(ch)}
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)
	case lx.cursor.HasPrefix("```"):
		tok = lx.scanTemplate()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Line = start.line
	tok.Span = lx.cursor.SpanFrom(start)
	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, fmt.Sprintf("token exceeds %d bytes", maxTokenLength))
		lx.cursor.Off = lx.cursor.Limit
		return token.Token{Kind: token.Invalid, Line: start.line, Span: tok.Span}
	}
	lx.trackBrackets(tok)
	return tok
}

func (lx *Lexer) skipSpaceAndComments() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\f':
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.BumpN(2)
			return
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}

func (lx *Lexer) trackBrackets(tok token.Token) {
	switch tok.Kind {
	case token.LParen, token.LBrace, token.LBracket:
		lx.open = append(lx.open, tok)
	case token.RParen, token.RBrace, token.RBracket:
		if len(lx.open) == 0 {
			lx.errLex(diag.LexUnbalancedBracket, tok.Span, fmt.Sprintf("line %d: unexpected '%s'", tok.Line, tok.Text))
			return
		}
		top := lx.open[len(lx.open)-1]
		lx.open = lx.open[:len(lx.open)-1]
		if closerOf(top.Kind) != tok.Kind {
			lx.errLex(diag.LexUnbalancedBracket, tok.Span,
				fmt.Sprintf("line %d: '%s' closes '%s' opened on line %d", tok.Line, tok.Text, top.Text, top.Line))
		}
	}
}

func (lx *Lexer) closeUnbalanced() {
	for i := len(lx.open) - 1; i >= 0; i-- {
		o := lx.open[i]
		lx.errLex(diag.LexUnbalancedBracket, o.Span, fmt.Sprintf("line %d: '%s' is never closed", o.Line, o.Text))
	}
	lx.open = nil
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBrace:
		return token.RBrace
	default:
		return token.RBracket
	}
}

func (lx *Lexer) normalize(s string) string {
	if lx.opts.NoNormalize || norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

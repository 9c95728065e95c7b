package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"if":       KwIf,
		"else":     KwElse,
		"fun":      KwFun,
		"breakall": KwBreakAll,
		"do":       KwDo,
		"switch":   KwSwitch,
		"and":      KwAnd,
		"null":     KwNull,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Заведомо НЕ ключевые слова
	notKw := []string{
		"If", "ELSE", "BreakAll", // регистр важен
		"int", "String", "Map", "Fun", // имена типов - Ident
		"import", "task", // host bindings are not part of the language
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestIsReservedName(t *testing.T) {
	for _, name := range []string{"while", "this", "params"} {
		if !IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"sum", "Integer", "$x"} {
		if IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = true, want false", name)
		}
	}
}

func TestJoinSnippet(t *testing.T) {
	toks := []Token{
		{Kind: KwFor, Text: "for"},
		{Kind: Ident, Text: "i"},
		{Kind: KwIn, Text: "in"},
		{Kind: IntLit, Text: "1"},
		{Kind: DotDot},
		{Kind: IntLit, Text: "3"},
		{Kind: LBrace},
		{Kind: LineEnd},
	}
	if got, want := Join(toks), "for i in 1..3 {"; got != want {
		t.Fatalf("Join = %q, want %q", got, want)
	}

	call := []Token{
		{Kind: Ident, Text: "echo"},
		{Kind: Ident, Text: "f"},
		{Kind: LParen},
		{Kind: StringLit, Text: "a\"b"},
		{Kind: Comma},
		{Kind: Ident, Text: "x"},
		{Kind: RParen},
	}
	if got, want := Join(call), `echo f("a\"b", x)`; got != want {
		t.Fatalf("Join = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	if got := DotDotDot.String(); got != "DotDotDot" {
		t.Fatalf("DotDotDot.String() = %q", got)
	}
	if s, ok := LBrace.Lexeme(); !ok || s != "{" {
		t.Fatalf("LBrace.Lexeme() = %q, %v", s, ok)
	}
}

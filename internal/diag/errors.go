package diag

import (
	"errors"
	"fmt"
	"strings"

	"nfscript/internal/source"
)

var (
	// ErrTimeout is wrapped by every RunTimeout error.
	ErrTimeout = errors.New("script execution timed out")
	// ErrUndefined is wrapped by undefined variable and function errors.
	ErrUndefined = errors.New("undefined name")
	// ErrCanceled is wrapped when the host context is canceled mid-run.
	ErrCanceled = errors.New("script execution canceled")
)

// SyntaxError aborts parsing. Line is 1-based; Snippet is the offending
// source fragment rebuilt from tokens.
type SyntaxError struct {
	Code       Code
	Line       int
	Title      string
	Detail     string
	Snippet    string
	Suggestion string
	Span       source.Span
}

func Syntax(code Code, line int, detail string) *SyntaxError {
	return &SyntaxError{Code: code, Line: line, Title: code.Title(), Detail: detail}
}

func Syntaxf(code Code, line int, format string, args ...any) *SyntaxError {
	return Syntax(code, line, fmt.Sprintf(format, args...))
}

func (e *SyntaxError) At(sp source.Span) *SyntaxError {
	e.Span = sp
	return e
}

func (e *SyntaxError) WithSnippet(s string) *SyntaxError {
	e.Snippet = s
	return e
}

func (e *SyntaxError) WithHint(s string) *SyntaxError {
	e.Suggestion = s
	return e
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	title := e.Title
	if title == "" {
		title = e.Code.Title()
	}
	fmt.Fprintf(&b, "[%s]", title)
	if e.Detail != "" {
		b.WriteByte(' ')
		b.WriteString(e.Detail)
	}
	if e.Snippet != "" {
		b.WriteString("\n  at: ")
		b.WriteString(e.Snippet)
	}
	if e.Suggestion != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

func (e *SyntaxError) Diagnostic() Diagnostic {
	msg := e.Detail
	if msg == "" {
		msg = e.Code.Title()
	}
	d := NewError(e.Code, e.Span, msg).AtLine(e.Line)
	if e.Snippet != "" {
		d = d.WithNote(e.Span, "at: "+e.Snippet)
	}
	if e.Suggestion != "" {
		d = d.WithFix(e.Suggestion)
	}
	return d
}

// RuntimeError aborts execution. Err, when set, is reachable through errors.Is.
type RuntimeError struct {
	Code    Code
	Line    int
	Message string
	Err     error
}

func Runtime(code Code, line int, format string, args ...any) *RuntimeError {
	e := &RuntimeError{Code: code, Line: line, Message: fmt.Sprintf(format, args...)}
	switch code {
	case RunTimeout:
		e.Err = ErrTimeout
	case RunUndefinedVariable, RunUndefinedFunction:
		e.Err = ErrUndefined
	case RunCanceled:
		e.Err = ErrCanceled
	}
	return e
}

// WrapRuntime attaches a line to err unless it already carries one.
func WrapRuntime(code Code, line int, err error) *RuntimeError {
	var re *RuntimeError
	if errors.As(err, &re) {
		if re.Line == 0 {
			re.Line = line
		}
		return re
	}
	return &RuntimeError{Code: code, Line: line, Message: err.Error(), Err: err}
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func (e *RuntimeError) Diagnostic() Diagnostic {
	return NewError(e.Code, source.Span{}, e.Message).AtLine(e.Line)
}

// AsDiagnostic converts syntax and runtime errors into a Diagnostic.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Diagnostic(), true
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Diagnostic(), true
	}
	return Diagnostic{}, false
}

package expr

import (
	"strings"

	"nfscript/internal/diag"
	"nfscript/internal/lexer"
	"nfscript/internal/source"
	"nfscript/internal/token"
)

// parseTemplate splits a template body into literal text and {expr}
// placeholders. \{ and \} produce literal braces.
func parseTemplate(t token.Token) (Expr, error) {
	tpl := &Template{pos: pos{t.Line}}
	body := t.Text
	line := t.Line
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tpl.Parts = append(tpl.Parts, &Lit{pos: pos{line}, Value: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch body[i] {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			default:
				lit.WriteByte(body[i])
			}
		case c == '{':
			end := matchBrace(body, i)
			if end < 0 {
				return nil, diag.Syntax(diag.SynUnexpectedToken, line, "unclosed '{' in template string").
					At(t.Span).WithSnippet(token.Join([]token.Token{t}))
			}
			flush()
			inner := body[i+1 : end]
			e, err := parsePlaceholder(inner, line)
			if err != nil {
				return nil, err
			}
			tpl.Parts = append(tpl.Parts, e)
			line += strings.Count(inner, "\n")
			i = end
		default:
			if c == '\n' {
				line++
			}
			lit.WriteByte(c)
		}
	}
	flush()
	return tpl, nil
}

// matchBrace returns the index of the '}' closing the '{' at open, skipping
// quoted strings, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parsePlaceholder(src string, line int) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, diag.Syntax(diag.SynExpectExpression, line, "empty placeholder in template string")
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("template", []byte(src)))
	bag := diag.NewBag(8)
	toks := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	if d, ok := bag.FirstError(); ok {
		return nil, diag.Syntax(d.Code, line, d.Message).WithSnippet("{" + src + "}")
	}
	for i := range toks {
		toks[i].Line += line - 1
	}
	return Parse(toks)
}

package syntax

import (
	"nfscript/internal/diag"
	"nfscript/internal/token"
)

type Options struct {
	// Reporter, if set, also receives every warning recorded in
	// Program.Warnings.
	Reporter diag.Reporter
}

// builder claims a construct starting at the stream's current token (its
// head keyword) and leaves the stream on the first token after it.
type builder func(p *Parser, s *Stream) (Node, error)

// families - распознаватели конструкций по ключевому слову.
// Заполняется в init: builders рекурсивно вызывают диспетчер.
var families map[token.Kind]builder

func init() {
	families = map[token.Kind]builder{
		token.KwIf:     (*Parser).parseIf,
		token.KwFor:    (*Parser).parseFor,
		token.KwWhile:  (*Parser).parseWhile,
		token.KwDo:     (*Parser).parseDoWhile,
		token.KwSwitch: (*Parser).parseSwitch,
		token.KwFun:    (*Parser).parseFun,
	}
}

// Parser - состояние разбора одного скрипта
type Parser struct {
	opts      Options
	track     *tracker
	loopDepth int // loops enclosing the current position in this function
	funcs     []*FuncDef
	funcLines map[string]int
	warnings  []diag.Diagnostic
}

// Parse builds the statement tree of a whole script. toks is the lexer
// output; a trailing EOF is optional. The first syntax error aborts parsing.
func Parse(toks []token.Token, opts Options) (*Program, error) {
	p := &Parser{
		opts:      opts,
		track:     newTracker(),
		funcLines: make(map[string]int),
	}
	nodes, err := p.statements(toks)
	if err != nil {
		return nil, err
	}
	return &Program{Nodes: nodes, Funcs: p.funcs, Warnings: p.warnings}, nil
}

// statements is the dispatcher: it parses a flat run of tokens into sibling
// nodes, left to right.
func (p *Parser) statements(toks []token.Token) ([]Node, error) {
	s := NewStream(toks)
	var out []Node
	for {
		s.SkipLineEnds()
		if s.AtEnd() {
			return out, nil
		}
		n, err := p.statement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

func (p *Parser) statement(s *Stream) (Node, error) {
	head := s.Peek()
	if build, ok := families[head.Kind]; ok {
		return build(p, s)
	}
	switch head.Kind {
	case token.KwElse, token.KwCase, token.KwDefault, token.RBrace:
		return nil, diag.Syntaxf(diag.SynStrayToken, head.Line, "'%s' without a matching construct", head.Source()).
			At(head.Span).
			WithSnippet(token.Join(headerLine(s.Tokens(), s.Pos())))
	}
	return p.parseLine(s)
}

// body parses the children of blk inside a new tracker frame.
func (p *Parser) body(toks []token.Token, blk block, seed ...string) ([]Node, error) {
	p.track.push(frameBlock, seed...)
	defer p.track.pop()
	return p.statements(blk.body(toks))
}

// loopBody is body with the loop depth raised for break/continue checks.
func (p *Parser) loopBody(toks []token.Token, blk block, seed ...string) ([]Node, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.body(toks, blk, seed...)
}

func (p *Parser) warn(code diag.Code, tok token.Token, msg string) {
	d := diag.NewWarning(code, tok.Span, msg).AtLine(tok.Line)
	p.warnings = append(p.warnings, d)
	if p.opts.Reporter != nil {
		diag.ReportWarning(p.opts.Reporter, code, tok.Span, msg).Emit()
	}
}

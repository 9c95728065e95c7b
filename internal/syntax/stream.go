package syntax

import "nfscript/internal/token"

// Stream is a read cursor over an immutable token buffer. Builders consume
// their construct and leave the cursor on the first token of the next
// sibling.
type Stream struct {
	toks []token.Token
	pos  int
}

func NewStream(toks []token.Token) *Stream {
	return &Stream{toks: toks}
}

// Peek returns the current token, or EOF past the end.
func (s *Stream) Peek() token.Token { return s.PeekAt(0) }

// PeekAt looks n tokens ahead.
func (s *Stream) PeekAt(n int) token.Token {
	if i := s.pos + n; i < len(s.toks) {
		return s.toks[i]
	}
	return s.eof()
}

func (s *Stream) Next() token.Token {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func (s *Stream) At(k token.Kind) bool { return s.Peek().Kind == k }

// AtEnd reports whether only EOF (or nothing) remains.
func (s *Stream) AtEnd() bool {
	return s.pos >= len(s.toks) || s.toks[s.pos].Kind == token.EOF
}

// SkipLineEnds advances past blank statement separators.
func (s *Stream) SkipLineEnds() {
	for s.pos < len(s.toks) && s.toks[s.pos].Kind == token.LineEnd {
		s.pos++
	}
}

// Pos is the absolute index of the current token.
func (s *Stream) Pos() int { return s.pos }

// Seek moves the cursor to an absolute index obtained from Pos or from the
// boundary scanner. Moving backwards is not allowed.
func (s *Stream) Seek(pos int) {
	if pos < s.pos {
		panic("syntax.Stream: seek backwards")
	}
	s.pos = min(pos, len(s.toks))
}

// Tokens returns the underlying buffer. Callers must not modify it.
func (s *Stream) Tokens() []token.Token { return s.toks }

// Slice returns toks[from:to] clamped to the buffer.
func (s *Stream) Slice(from, to int) []token.Token {
	to = min(to, len(s.toks))
	from = min(from, to)
	return s.toks[from:to]
}

func (s *Stream) eof() token.Token {
	line := 0
	if n := len(s.toks); n > 0 {
		line = s.toks[n-1].Line
	}
	return token.Token{Kind: token.EOF, Line: line}
}

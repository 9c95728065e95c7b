// Package token defines lexical token kinds for NF scripts.
// Invariants:
//   - Token.Line is the 1-based line of the first byte of the token.
//   - Token.Span covers the token in its source file; StringLit spans include
//     the quotes while Text holds the decoded value.
//   - Statement ends ('\n' and ';') are explicit LineEnd tokens; comments never
//     reach the token stream.
//   - Type names (int, String, Map, Fun, ...) are identifiers. They are
//     recognized by the value layer, not the lexer.
package token

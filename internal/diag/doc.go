// Package diag holds the diagnostic model shared by the lexer, the parser
// and the interpreter.
//
// Diagnostic is the central record: Severity, Code (stable ID such as
// SYN2001), Message, the primary span, the 1-based line, and optional notes
// and fix titles. Producers emit through a Reporter; BagReporter collects into
// a Bag, DedupReporter drops repeats.
//
// Fatal failures travel as errors: *SyntaxError stops parsing, *RuntimeError
// stops execution. Both convert to a Diagnostic via AsDiagnostic. Timeouts and
// undefined names wrap ErrTimeout and ErrUndefined so hosts can use errors.Is.
//
// Rendering lives in internal/diagfmt; FormatShortDiagnostics is the only
// formatter kept here because tests and `nf check` share it.
package diag

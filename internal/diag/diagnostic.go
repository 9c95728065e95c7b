package diag

import (
	"nfscript/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested correction. Scripts diagnostics mostly carry a title
// only (the suggested form); Edits stay empty in that case.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Line     int // 1-based; 0 when unknown
	Notes    []Note
	Fixes    []Fix
}

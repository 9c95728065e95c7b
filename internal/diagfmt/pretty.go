package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nfscript/internal/diag"
	"nfscript/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note, help *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		help:   color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.help} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | for i 1..3 {
//	     |       ^~~~
//
// затем notes и fixes, если включены. Колонки считаются по ширине
// символов на экране, а не по байтам.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i := range bag.Items() {
		d := bag.Items()[i]
		writeDiagnostic(w, &d, fs, opts, p)
	}
}

// position resolves where d points. A diagnostic with an empty span but a
// known line (run-time errors) has col 0 and no caret.
type position struct {
	file      *source.File
	line, col uint32
	endCol    uint32
}

func resolve(d *diag.Diagnostic, fs *source.FileSet) position {
	var pos position
	if fs != nil {
		pos.file = fs.Get(d.Primary.File)
	}
	if pos.file == nil {
		pos.line = lineOf(d.Line)
		return pos
	}
	if d.Primary.Empty() && d.Line > 0 {
		pos.line = lineOf(d.Line)
		return pos
	}
	start, end := fs.Resolve(d.Primary)
	pos.line, pos.col = start.Line, start.Col
	pos.endCol = start.Col + 1
	if end.Line == start.Line && end.Col > start.Col {
		pos.endCol = end.Col
	}
	return pos
}

func lineOf(line int) uint32 {
	if line <= 0 {
		return 0
	}
	return uint32(line) // #nosec G115 -- non-negative line numbers
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	pos := resolve(d, fs)

	var loc strings.Builder
	if pos.file != nil {
		loc.WriteString(pos.file.FormatPath(opts.PathMode.mode(), fs.BaseDir()))
	} else {
		loc.WriteString("<script>")
	}
	if pos.line > 0 {
		fmt.Fprintf(&loc, ":%d", pos.line)
		if pos.col > 0 {
			fmt.Fprintf(&loc, ":%d", pos.col)
		}
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc.String()),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	if pos.file != nil && pos.line > 0 {
		writeSnippet(w, pos, opts, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s try `%s`\n", p.help.Sprint("help:"), f.Title)
		}
	}
}

func writeSnippet(w io.Writer, pos position, opts PrettyOpts, p palette) {
	first := pos.line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first -= ctx
	} else {
		first = 1
	}
	gutter := len(fmt.Sprint(pos.line))
	for ln := first; ln <= pos.line; ln++ {
		text := expandTabs(pos.file.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), text)
	}
	if pos.col == 0 {
		return
	}

	line := pos.file.GetLine(pos.line)
	startByte := min(int(pos.col-1), len(line))
	endByte := min(max(int(pos.endCol-1), startByte), len(line))
	pad := runewidth.StringWidth(expandTabs(line[:startByte]))
	width := max(runewidth.StringWidth(expandTabs(line[startByte:endByte])), 1)
	marks := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprint(strings.Repeat(" ", gutter)+" |"), strings.Repeat(" ", pad), p.caret.Sprint(marks))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

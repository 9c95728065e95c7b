package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"nfscript/internal/diagfmt"
	"nfscript/internal/driver"
	"nfscript/internal/interp"
	"nfscript/internal/lexer"
	"nfscript/internal/source"
	"nfscript/internal/token"
	"nfscript/internal/value"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive NF session",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

const replHelp = `:quit   leave the session
:reset  drop every variable and function
:vars   list variables of the session
:help   show this help
Blocks may span lines; input runs once its braces balance.
`

// repl keeps one interpreter across inputs; unfinished blocks are buffered.
type repl struct {
	in     *interp.Interpreter
	opts   driver.Options
	out    io.Writer
	errOut io.Writer
	color  bool
	buf    strings.Builder
	inputs int
}

func newREPL(opts driver.Options, out, errOut io.Writer) *repl {
	opts.Stdout = out
	return &repl{in: driver.NewInterpreter(opts), opts: opts, out: out, errOut: errOut}
}

func (r *repl) prompt() string {
	if r.buf.Len() > 0 {
		return "... "
	}
	return "nf> "
}

// feed handles one input line and reports whether the session should end.
func (r *repl) feed(ctx context.Context, line string) bool {
	if r.buf.Len() == 0 {
		switch strings.TrimSpace(line) {
		case "":
			return false
		case ":quit", ":q":
			return true
		case ":reset":
			r.in.Reset()
			fmt.Fprintln(r.out, "session reset")
			return false
		case ":vars":
			r.printVars()
			return false
		case ":help":
			fmt.Fprint(r.out, replHelp)
			return false
		}
	}

	r.buf.WriteString(line)
	r.buf.WriteByte('\n')
	if braceDepth(r.buf.String()) > 0 {
		return false
	}
	src := r.buf.String()
	r.buf.Reset()
	r.inputs++

	res := driver.RunSource(ctx, r.in, fmt.Sprintf("<repl:%d>", r.inputs), []byte(src), r.opts)
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(r.errOut, res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: r.color, ShowFixes: true})
	}
	if res.Err == nil && res.Result.Returned {
		vals := make([]string, len(res.Result.Values))
		for i, v := range res.Result.Values {
			vals[i] = value.Quote(v)
		}
		fmt.Fprintf(r.out, "=> %s\n", strings.Join(vals, ", "))
	}
	return false
}

// abort drops a half-typed block.
func (r *repl) abort() {
	r.buf.Reset()
}

func (r *repl) printVars() {
	vars := r.in.Vars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := vars[name]
		fmt.Fprintf(r.out, "%s %s = %s\n", value.KindOf(v), name, value.Quote(v))
	}
}

// braceDepth counts unclosed `{` in src using the lexer, so braces inside
// strings and comments do not count.
func braceDepth(src string) int {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<repl>", []byte(src)))
	depth := 0
	for _, tok := range lexer.New(file, lexer.Options{}).All() {
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	return depth
}

func runREPL(cmd *cobra.Command, _ []string) error {
	r := newREPL(driverOptions(cmd, false), cmd.OutOrStdout(), cmd.ErrOrStderr())
	r.color = useColor(os.Stderr)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if dir, err := driver.DefaultCacheDir("nf"); err == nil {
		historyPath = filepath.Join(dir, "repl_history")
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
	}

	if !quiet(cmd) {
		fmt.Fprintln(r.out, "nf repl, :help for commands")
	}
	for {
		input, err := line.Prompt(r.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			r.abort()
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if r.feed(cmd.Context(), input) {
			break
		}
	}

	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o750); err == nil {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = line.WriteHistory(f)
				_ = f.Close()
			}
		}
	}
	return nil
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"
	"gopkg.in/yaml.v2"

	"nfscript/internal/expr"
	"nfscript/internal/syntax"
	"nfscript/internal/value"
)

// TreeFormat selects the statement tree dump.
type TreeFormat string

const (
	TreePretty TreeFormat = "pretty"
	TreeYAML   TreeFormat = "yaml"
	TreeRepr   TreeFormat = "repr"
)

// ParseTreeFormat validates a --format value.
func ParseTreeFormat(s string) (TreeFormat, error) {
	switch f := TreeFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", TreePretty:
		return TreePretty, nil
	case TreeYAML, TreeRepr:
		return f, nil
	}
	return "", fmt.Errorf("unknown tree format %q (want pretty, yaml or repr)", s)
}

// FormatTree dumps prog. Expressions are rendered in their source-like
// form; repr prints the raw Go values.
func FormatTree(w io.Writer, prog *syntax.Program, format TreeFormat) error {
	switch format {
	case TreeRepr:
		repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(prog.Nodes)
		return nil
	case TreeYAML:
		data, err := yaml.Marshal(programTree(prog))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return writePretty(w, programTree(prog), 0)
}

func programTree(prog *syntax.Program) yaml.MapSlice {
	funcs := make([]string, len(prog.Funcs))
	for i, f := range prog.Funcs {
		funcs[i] = fmt.Sprintf("%s %s", f.Name, f.Signature())
	}
	out := yaml.MapSlice{{Key: "nodes", Value: nodeList(prog.Nodes)}}
	if len(funcs) > 0 {
		out = append(out, yaml.MapItem{Key: "functions", Value: funcs})
	}
	return out
}

func nodeList(nodes []syntax.Node) []yaml.MapSlice {
	out := make([]yaml.MapSlice, len(nodes))
	for i, n := range nodes {
		out[i] = nodeTree(n)
	}
	return out
}

func exprList(list []expr.Expr) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.String()
	}
	return out
}

func nodeTree(n syntax.Node) yaml.MapSlice {
	m := yaml.MapSlice{
		{Key: "kind", Value: n.Kind().String()},
		{Key: "line", Value: n.Line()},
	}
	add := func(k string, v any) { m = append(m, yaml.MapItem{Key: k, Value: v}) }

	switch n := n.(type) {
	case *syntax.If:
		branches := make([]yaml.MapSlice, len(n.Branches))
		for i, br := range n.Branches {
			b := yaml.MapSlice{{Key: "branch", Value: br.Kind.String()}, {Key: "line", Value: br.Line}}
			if br.Cond != nil {
				b = append(b, yaml.MapItem{Key: "cond", Value: br.Cond.String()})
			}
			branches[i] = append(b, yaml.MapItem{Key: "body", Value: nodeList(br.Body)})
		}
		add("branches", branches)
	case *syntax.For:
		add("mode", n.Mode.String())
		add("var", n.Var)
		if n.Value != "" {
			add("value", n.Value)
		}
		if n.Mode == syntax.ForRange {
			add("range", boundString(n.Start)+".."+boundString(n.End))
		} else {
			add("source", n.Source.String())
		}
		add("body", nodeList(n.Body))
	case *syntax.While:
		add("cond", n.Cond.String())
		add("body", nodeList(n.Body))
	case *syntax.DoWhile:
		add("body", nodeList(n.Body))
		add("cond", n.Cond.String())
	case *syntax.Switch:
		add("scrutinee", n.Scrutinee.String())
		cases := make([]yaml.MapSlice, len(n.Cases))
		for i, c := range n.Cases {
			vals := make([]string, len(c.Values))
			for j, v := range c.Values {
				vals[j] = value.Quote(v)
			}
			cases[i] = yaml.MapSlice{{Key: "line", Value: c.Line}, {Key: "values", Value: vals}, {Key: "body", Value: nodeList(c.Body)}}
		}
		add("cases", cases)
		if n.HasDefault {
			add("default", nodeList(n.Default))
		}
	case *syntax.FuncDef:
		add("name", n.Name)
		add("signature", n.Signature().String())
		add("body", nodeList(n.Body))
	case *syntax.VarDecl:
		add("names", n.Names)
		add("type", n.Type.String())
		if n.Value != nil {
			add("value", n.Value.String())
		}
	case *syntax.Assign:
		add("name", n.Name)
		add("value", n.Value.String())
	case *syntax.Echo:
		add("args", exprList(n.Args))
	case *syntax.Return:
		if len(n.Values) > 0 {
			add("values", exprList(n.Values))
		}
	case *syntax.ExprStmt:
		add("expr", n.X.String())
	}
	return m
}

func boundString(b syntax.Bound) string {
	if b.IsVar() {
		return b.Name
	}
	return fmt.Sprint(b.Value)
}

// writePretty prints the tree as indented "key: value" lines; nested
// statement lists are shown as child blocks.
func writePretty(w io.Writer, m yaml.MapSlice, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, it := range m {
		switch v := it.Value.(type) {
		case []yaml.MapSlice:
			if len(v) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s%v:\n", indent, it.Key)
			for _, child := range v {
				fmt.Fprintf(w, "%s  -\n", indent)
				if err := writePretty(w, child, depth+2); err != nil {
					return err
				}
			}
		case []string:
			fmt.Fprintf(w, "%s%v: %s\n", indent, it.Key, strings.Join(v, ", "))
		default:
			if _, err := fmt.Fprintf(w, "%s%v: %v\n", indent, it.Key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

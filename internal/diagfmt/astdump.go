package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"obanlint/internal/ast"
	"obanlint/internal/source"
)

// FormatAST writes an indented tree dump of a parsed file, one node per
// line with its kind, salient payload and resolved start position.
func FormatAST(w io.Writer, file *ast.File, fs *source.FileSet) error {
	if file == nil {
		return nil
	}
	p := astPrinter{w: w, fs: fs}
	for i := range file.Modules {
		mod := &file.Modules[i]
		p.linef(0, mod.Span, "Module %s", strings.Join(mod.Name, "."))
		for _, dir := range mod.Header {
			p.linef(1, dir.Span, "Directive %s", dir.Kind)
			p.node(2, dir.Arg)
		}
		for _, def := range mod.Defs {
			kw := "def"
			if def.Private {
				kw = "defp"
			}
			p.linef(1, def.Span, "%s %s/%d", kw, def.Name, def.Arity)
			p.node(2, def.Body)
		}
	}
	return p.err
}

type astPrinter struct {
	w   io.Writer
	fs  *source.FileSet
	err error
}

func (p *astPrinter) linef(depth int, span source.Span, format string, args ...any) {
	if p.err != nil {
		return
	}
	start, _ := p.fs.Resolve(span)
	_, p.err = fmt.Fprintf(p.w, "%s%s @%d:%d\n",
		strings.Repeat("  ", depth), fmt.Sprintf(format, args...), start.Line, start.Col)
}

func (p *astPrinter) node(depth int, n *ast.Node) {
	if n == nil || p.err != nil {
		return
	}
	p.linef(depth, n.Span, "%s%s", n.Kind, nodeDetail(n))

	switch n.Kind {
	case ast.NodeCall:
		for _, arg := range n.Args {
			p.node(depth+1, arg)
		}
	case ast.NodePipe, ast.NodeBinary:
		p.node(depth+1, n.Left)
		p.node(depth+1, n.Right)
	case ast.NodeUnary:
		p.node(depth+1, n.Operand)
	case ast.NodeTuple, ast.NodeList, ast.NodeMap:
		for _, e := range n.Elems {
			p.node(depth+1, e)
		}
	case ast.NodeMatchClause:
		p.node(depth+1, n.Pattern)
		if n.Guard != nil {
			p.node(depth+1, n.Guard)
		}
		p.node(depth+1, n.Body)
	case ast.NodeMultiClause:
		for _, c := range n.Clauses {
			p.node(depth+1, c)
		}
	case ast.NodeCase:
		if n.Subject != nil {
			p.node(depth+1, n.Subject)
		}
		p.node(depth+1, n.Body)
	case ast.NodeFn:
		p.node(depth+1, n.Body)
	case ast.NodeBlock:
		for _, s := range n.Stmts {
			p.node(depth+1, s)
		}
	case ast.NodeAssign:
		p.node(depth+1, n.Pattern)
		p.node(depth+1, n.Value)
	case ast.NodeCond:
		p.node(depth+1, n.Cond)
		p.node(depth+1, n.Then)
		if n.Else != nil {
			p.node(depth+1, n.Else)
		}
	}
}

func nodeDetail(n *ast.Node) string {
	switch n.Kind {
	case ast.NodeCall, ast.NodeAlias:
		return " " + strings.Join(n.Path, ".")
	case ast.NodeName, ast.NodeBind:
		return " " + n.Name
	case ast.NodeLit:
		if n.Text != "" {
			return fmt.Sprintf(" %q", n.Text)
		}
	}
	return ""
}

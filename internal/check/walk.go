package check

import (
	"strings"

	"obanlint/internal/ast"
)

// lowercase dynamic-repo variable recognized alongside ExecutorTail.
const dynamicRepoName = "repo"

// Walk folds one expression tree into the evidence. It is a pure fold with
// no early exit: every recognized shape either contributes a sighting or is
// transparently descended into, and every unrecognized shape is an opaque
// stop that returns the evidence unchanged. Opaque stops trade recall for
// robustness; a shape the walk cannot interpret can only cost a missed
// diagnostic, never a wrong one.
func Walk(n *ast.Node, ev Evidence, opts Options) Evidence {
	if n == nil {
		return ev
	}
	switch n.Kind {
	case ast.NodePipe:
		for _, stage := range ast.FlattenPipe(n) {
			ev = Walk(stage, ev, opts)
		}
		return ev

	case ast.NodeCall:
		ev = matchCall(n, ev, opts)
		for _, arg := range n.Args {
			ev = Walk(arg, ev, opts)
		}
		return ev

	case ast.NodeCase:
		ev = Walk(n.Subject, ev, opts)
		return walkClauses(n.Body, ev, opts)

	case ast.NodeMultiClause:
		return walkClauses(n, ev, opts)

	case ast.NodeUnary:
		if n.UnOp == ast.UnaryNot {
			return Walk(n.Operand, ev, opts)
		}
		return ev

	case ast.NodeBinary:
		if n.BinOp == ast.BinaryAnd || n.BinOp == ast.BinaryAccess {
			ev = Walk(n.Left, ev, opts)
			return Walk(n.Right, ev, opts)
		}
		return ev

	case ast.NodeAssign:
		ev = Walk(n.Pattern, ev, opts)
		return Walk(n.Value, ev, opts)

	case ast.NodeBlock:
		for _, stmt := range n.Stmts {
			ev = Walk(stmt, ev, opts)
		}
		return ev

	case ast.NodeCond:
		ev = Walk(n.Cond, ev, opts)
		for _, stmt := range ast.Statements(n.Then) {
			ev = Walk(stmt, ev, opts)
		}
		for _, stmt := range ast.Statements(n.Else) {
			ev = Walk(stmt, ev, opts)
		}
		return ev
	}
	return ev
}

// matchCall records builder and executor sightings. Matching is by name
// tail only; `Ecto.Multi.new()` and an aliased `Multi.new()` are the same
// call to this rule, and `repo.transaction(m)` covers dynamic repos.
func matchCall(n *ast.Node, ev Evidence, opts Options) Evidence {
	tail := ast.PathTail(n.Path)
	switch tail {
	case "new":
		if ast.PathContains(n.Path, opts.BuilderTail) {
			ev = ev.sawBuilder(n.Span, strings.Join(n.Path, "."))
		}
	case "transaction":
		if ast.PathContains(n.Path, opts.ExecutorTail) ||
			ast.PathContains(n.Path, dynamicRepoName) {
			ev = ev.sawTransaction(n.Span)
		}
	}
	return ev
}

// walkClauses classifies every arm of a multi-clause construct, then
// re-walks any arm body whose statement sequence ends in a further
// pipeline. That keeps patterns visible where a case result is piped
// onward instead of being the arm's final expression.
func walkClauses(mc *ast.Node, ev Evidence, opts Options) Evidence {
	if mc == nil || mc.Kind != ast.NodeMultiClause {
		return ev
	}
	for _, clause := range mc.Clauses {
		ev = ClassifyClause(clause, ev, opts)
		if clause == nil || clause.Kind != ast.NodeMatchClause {
			continue
		}
		stmts := ast.Statements(clause.Body)
		if len(stmts) > 0 {
			if last := stmts[len(stmts)-1]; last != nil && last.Kind == ast.NodePipe {
				ev = Walk(last, ev, opts)
			}
		}
	}
	return ev
}

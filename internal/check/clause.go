package check

import (
	"obanlint/internal/ast"
)

// ClassifyClause folds one arm of a branching construct into the evidence.
// Exactly one shape credits the narrowing:
//
//	{:error, _step, _reason, _changes} -> {:error, reason}
//
// a four-element failure tuple whose last three positions are all wildcards,
// rewritten to a two-element failure tuple. The success arm `{:ok, _} -> ...`
// is safe on its own and stays neutral. Two ambiguous shapes also stay
// neutral, neither credited nor separately flagged: a catch-all bind whose
// body builds a three-element failure tuple, and a three-element failure
// pattern rewritten to a two-element one. Arms never contribute builder or
// transaction sightings.
func ClassifyClause(clause *ast.Node, ev Evidence, opts Options) Evidence {
	if clause == nil || clause.Kind != ast.NodeMatchClause {
		return ev
	}
	pat, body := clause.Pattern, clause.Body
	if isFailureTuple(pat, 4, opts) && allWildcards(pat.Elems[1:]) &&
		isFailureTuple(lastExpr(body), 2, opts) {
		return ev.sawNarrowing(body)
	}
	return ev
}

// isFailureTuple reports whether n is a tagged tuple of the given arity
// whose tag is the failure tag.
func isFailureTuple(n *ast.Node, arity int, opts Options) bool {
	if n == nil || n.Kind != ast.NodeTuple || len(n.Elems) != arity {
		return false
	}
	tag, ok := ast.Tag(n)
	return ok && tag == opts.FailureTag
}

func allWildcards(elems []*ast.Node) bool {
	for _, e := range elems {
		if !ast.IsWildcard(e) {
			return false
		}
	}
	return true
}

// lastExpr unwraps a block body to its final statement, so an arm like
// `{:error, _, _, _} -> log(...); {:error, reason}` still counts.
func lastExpr(n *ast.Node) *ast.Node {
	stmts := ast.Statements(n)
	if len(stmts) == 0 {
		return nil
	}
	return stmts[len(stmts)-1]
}

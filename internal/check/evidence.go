package check

import (
	"obanlint/internal/ast"
	"obanlint/internal/source"
)

// Evidence is the per-function fold state. Every field is set-once: the
// first sighting wins and later ones are no-ops, so the fold is monotonic
// and the observation order cannot change the verdict.
type Evidence struct {
	// BuilderAt is where the transaction builder was constructed, and
	// BuilderName the dotted callee path of that call.
	BuilderAt   *source.Span
	BuilderName string
	// TransactionAt is where the transaction was executed.
	TransactionAt *source.Span
	// Narrowed is the clause body that maps the four-element failure
	// tuple down to the two-element shape.
	Narrowed *ast.Node
}

func (ev Evidence) sawBuilder(sp source.Span, name string) Evidence {
	if ev.BuilderAt == nil {
		ev.BuilderAt = &sp
		ev.BuilderName = name
	}
	return ev
}

func (ev Evidence) sawTransaction(sp source.Span) Evidence {
	if ev.TransactionAt == nil {
		ev.TransactionAt = &sp
	}
	return ev
}

func (ev Evidence) sawNarrowing(body *ast.Node) Evidence {
	if ev.Narrowed == nil {
		ev.Narrowed = body
	}
	return ev
}

package check

import (
	"fmt"

	"obanlint/internal/source"
)

// Issue is one flagged function.
type Issue struct {
	// Message describes the unhandled failure shape.
	Message string
	// Trigger is the builder call the issue is anchored at, e.g.
	// "Ecto.Multi.new".
	Trigger string
	// Span covers the builder construction call.
	Span source.Span
}

// Verdict inspects the final evidence and emits at most one issue. A
// function is flagged only when it exhibits the full two-call shape, a
// builder construction and a transaction execution, without any narrowing
// arm observed anywhere in its body. Missing either call means the rule
// does not apply; an observed narrowing clears it.
func Verdict(ev Evidence, opts Options) *Issue {
	if ev.BuilderAt == nil || ev.TransactionAt == nil || ev.Narrowed != nil {
		return nil
	}
	return &Issue{
		Message: fmt.Sprintf(
			"transaction result may surface as {:%s, step, reason, changes}, which the job runner treats as success; add a clause narrowing it to {:%s, reason}",
			opts.FailureTag, opts.FailureTag),
		Trigger: ev.BuilderName,
		Span:    *ev.BuilderAt,
	}
}

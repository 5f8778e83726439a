// Package check implements the Oban/Ecto.Multi transaction-narrowing rule.
//
// An Oban worker that pipes an Ecto.Multi into Repo.transaction/1 gets
// {:error, step, reason, changes} back when a step fails. Oban only treats
// {:error, reason} (or a raise) as a job failure, so without an explicit
// narrowing clause the failed transaction is recorded as a successful job.
//
// The rule works on purely local, structural evidence. It matches module
// names by their last path segment, never resolves aliases, and does not
// follow dataflow; an unrecognized tree shape simply stops the descent.
// That trades missed detections for zero false crashes on exotic code.
package check

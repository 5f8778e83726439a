// Package ast is the tree the parser produces and the check reads. It is a
// closed tagged-variant model of the Elixir subset: every construct the
// check can reason about has its own NodeKind, and everything else is
// NodeOpaque. Nodes are immutable after parsing; the check only reads and
// folds over them.
package ast

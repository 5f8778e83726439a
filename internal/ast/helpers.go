package ast

// Tag returns the atom tag of a tagged tuple: the Text of Elems[0] when it
// is an atom literal. ok=false for anything else.
func Tag(n *Node) (string, bool) {
	if n == nil || n.Kind != NodeTuple || len(n.Elems) == 0 {
		return "", false
	}
	first := n.Elems[0]
	if first == nil || first.Kind != NodeLit || first.Lit != LitAtom {
		return "", false
	}
	return first.Text, true
}

// PathTail returns the last segment of a call or alias path.
func PathTail(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// PathContains reports whether any segment of path equals seg.
func PathContains(path []string, seg string) bool {
	for _, p := range path {
		if p == seg {
			return true
		}
	}
	return false
}

// IsWildcard reports whether a pattern node matches anything without
// inspecting it: `_`, `_reason`, or a plain variable.
func IsWildcard(n *Node) bool {
	return n != nil && (n.Kind == NodeBind || n.Kind == NodeName)
}

// FlattenPipe unrolls a pipe chain into its ordered stage sequence.
// A non-pipe node flattens to a one-element sequence.
func FlattenPipe(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.Kind != NodePipe {
		return []*Node{n}
	}
	return append(FlattenPipe(n.Left), FlattenPipe(n.Right)...)
}

// Statements normalizes a node to a statement sequence: a block yields its
// statements, anything else is a one-element sequence.
func Statements(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == NodeBlock {
		return n.Stmts
	}
	return []*Node{n}
}

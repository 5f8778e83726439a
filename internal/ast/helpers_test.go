package ast

import (
	"testing"
)

func atom(text string) *Node {
	return &Node{Kind: NodeLit, Lit: LitAtom, Text: text}
}

func TestTag(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected string
		ok       bool
	}{
		{
			name:     "tagged error tuple",
			node:     &Node{Kind: NodeTuple, Elems: []*Node{atom("error"), {Kind: NodeBind, Name: "_"}}},
			expected: "error",
			ok:       true,
		},
		{
			name:     "tagged ok tuple",
			node:     &Node{Kind: NodeTuple, Elems: []*Node{atom("ok"), {Kind: NodeName, Name: "result"}}},
			expected: "ok",
			ok:       true,
		},
		{
			name: "untagged tuple",
			node: &Node{Kind: NodeTuple, Elems: []*Node{{Kind: NodeName, Name: "a"}, {Kind: NodeName, Name: "b"}}},
			ok:   false,
		},
		{
			name: "empty tuple",
			node: &Node{Kind: NodeTuple},
			ok:   false,
		},
		{
			name: "non-tuple",
			node: atom("error"),
			ok:   false,
		},
		{
			name: "nil",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Tag(tt.node)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("Tag() = (%q, %v), want (%q, %v)", got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestFlattenPipe(t *testing.T) {
	a := &Node{Kind: NodeName, Name: "a"}
	b := &Node{Kind: NodeName, Name: "b"}
	c := &Node{Kind: NodeName, Name: "c"}

	// (a |> b) |> c — the shape the parser builds for a 3-stage pipeline
	chain := &Node{Kind: NodePipe, Left: &Node{Kind: NodePipe, Left: a, Right: b}, Right: c}

	stages := FlattenPipe(chain)
	if len(stages) != 3 {
		t.Fatalf("len = %d, want 3", len(stages))
	}
	if stages[0] != a || stages[1] != b || stages[2] != c {
		t.Errorf("stages out of order: %v", stages)
	}

	single := FlattenPipe(a)
	if len(single) != 1 || single[0] != a {
		t.Errorf("FlattenPipe(non-pipe) = %v, want [a]", single)
	}
}

func TestIsWildcard(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected bool
	}{
		{"underscore", &Node{Kind: NodeBind, Name: "_"}, true},
		{"named underscore", &Node{Kind: NodeBind, Name: "_step"}, true},
		{"plain variable", &Node{Kind: NodeName, Name: "reason"}, true},
		{"atom literal", atom("error"), false},
		{"tuple", &Node{Kind: NodeTuple}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWildcard(tt.node); got != tt.expected {
				t.Errorf("IsWildcard() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	a := &Node{Kind: NodeName, Name: "a"}
	b := &Node{Kind: NodeName, Name: "b"}

	block := &Node{Kind: NodeBlock, Stmts: []*Node{a, b}}
	if got := Statements(block); len(got) != 2 {
		t.Errorf("Statements(block) len = %d, want 2", len(got))
	}
	if got := Statements(a); len(got) != 1 || got[0] != a {
		t.Errorf("Statements(single) = %v, want [a]", got)
	}
	if got := Statements(nil); got != nil {
		t.Errorf("Statements(nil) = %v, want nil", got)
	}
}

func TestPathHelpers(t *testing.T) {
	path := []string{"Ecto", "Multi", "new"}
	if PathTail(path) != "new" {
		t.Errorf("PathTail = %q, want new", PathTail(path))
	}
	if PathTail(nil) != "" {
		t.Errorf("PathTail(nil) should be empty")
	}
	if !PathContains(path, "Multi") {
		t.Error("PathContains should find Multi")
	}
	if PathContains(path, "Repo") {
		t.Error("PathContains should not find Repo")
	}
}

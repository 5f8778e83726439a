package ast

import (
	"obanlint/internal/source"
)

// NodeKind identifies the variant of a Node.
type NodeKind uint8

const (
	// NodeOpaque is any accepted-but-uninterpreted construct. The check
	// never descends into one.
	NodeOpaque NodeKind = iota
	NodeCall            // Path, Args
	NodePipe            // Left |> Right
	NodeTuple           // Elems
	NodeList            // Elems
	NodeMap             // Elems (pairs, opaque to the check)
	NodeMatchClause     // Pattern [when Guard] -> Body
	NodeMultiClause     // Clauses (all arms of one construct)
	NodeCase            // Subject (nil when piped into), Body (MultiClause)
	NodeBlock           // Stmts
	NodeAssign          // Pattern = Value
	NodeCond            // if/unless: Cond, Then, Else (Else may be nil)
	NodeBind            // wildcard or plain variable in pattern position
	NodeName            // variable reference in expression position
	NodeAlias           // bare module path, e.g. Ecto.Multi
	NodeLit             // atom/int/float/string/bool/nil
	NodeUnary           // Op Operand
	NodeBinary          // Left Op Right
	NodeFn              // anonymous function: Body (MultiClause)
)

var nodeKindNames = [...]string{
	NodeOpaque:      "Opaque",
	NodeCall:        "Call",
	NodePipe:        "Pipe",
	NodeTuple:       "Tuple",
	NodeList:        "List",
	NodeMap:         "Map",
	NodeMatchClause: "MatchClause",
	NodeMultiClause: "MultiClause",
	NodeCase:        "Case",
	NodeBlock:       "Block",
	NodeAssign:      "Assign",
	NodeCond:        "Cond",
	NodeBind:        "Bind",
	NodeName:        "Name",
	NodeAlias:       "Alias",
	NodeLit:         "Lit",
	NodeUnary:       "Unary",
	NodeBinary:      "Binary",
	NodeFn:          "Fn",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// LitKind classifies NodeLit values.
type LitKind uint8

const (
	LitAtom LitKind = iota
	LitInt
	LitFloat
	LitString
	LitBool
	LitNil
)

// UnaryOp classifies NodeUnary operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota // ! and not
	UnaryNeg                // -
	UnaryOther
)

// BinaryOp classifies NodeBinary operators.
type BinaryOp uint8

const (
	BinaryAnd    BinaryOp = iota // && and and
	BinaryOr                     // || and or
	BinaryAccess                 // qualified access: expr.field
	BinaryCmp
	BinaryConcat
	BinaryOther
)

// Node is one vertex of the tree. Which fields are meaningful depends on
// Kind; unused fields stay zero. Every node carries a span sufficient to
// anchor a diagnostic.
type Node struct {
	Kind NodeKind
	Span source.Span

	// NodeCall: callee segments, e.g. ["Ecto","Multi","new"]; NodeAlias: the path.
	Path []string
	// NodeCall arguments.
	Args []*Node
	// NodePipe, NodeBinary.
	Left  *Node
	Right *Node
	// NodeBinary, NodeUnary operator classes.
	BinOp BinaryOp
	UnOp  UnaryOp
	// NodeUnary.
	Operand *Node
	// NodeTuple, NodeList, NodeMap.
	Elems []*Node
	// NodeMatchClause (Pattern/Guard/Body); NodeCase and NodeFn reuse Body
	// to hold their NodeMultiClause.
	Pattern *Node
	Guard   *Node
	Body    *Node
	// NodeMultiClause: the arms, each a NodeMatchClause.
	Clauses []*Node
	// NodeCase scrutinee; nil when the case is a pipe target.
	Subject *Node
	// NodeBlock.
	Stmts []*Node
	// NodeAssign.
	Value *Node
	// NodeCond.
	Cond *Node
	Then *Node
	Else *Node
	// NodeBind, NodeName.
	Name string
	// NodeLit.
	Lit  LitKind
	Text string
}

package ast

import (
	"obanlint/internal/source"
)

// DirectiveKind classifies module header statements.
type DirectiveKind uint8

const (
	DirUse DirectiveKind = iota
	DirAlias
	DirImport
	DirRequire
	DirAttr // @attr ...
)

func (k DirectiveKind) String() string {
	switch k {
	case DirUse:
		return "use"
	case DirAlias:
		return "alias"
	case DirImport:
		return "import"
	case DirRequire:
		return "require"
	case DirAttr:
		return "attr"
	}
	return "unknown"
}

// Directive is one declaration-level statement of a module header:
// use/alias/import/require or a module attribute. Arg is the first argument
// (an alias path or expression); trailing options are not retained.
type Directive struct {
	Kind DirectiveKind
	Arg  *Node
	Span source.Span
}

// FuncDef is one def/defp definition.
type FuncDef struct {
	Name    string
	Arity   int
	Private bool
	Body    *Node
	Span    source.Span
}

// Module is one defmodule with its header directives and definitions.
// Nested modules are flattened into separate Module values by the parser.
type Module struct {
	Name   []string
	Header []Directive
	Defs   []FuncDef
	Span   source.Span
}

// File is the parse result for one source file.
type File struct {
	ID      source.FileID
	Modules []Module
}

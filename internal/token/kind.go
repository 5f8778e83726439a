package token

// Kind identifies a token class.
type Kind uint8

const (
	EOF Kind = iota
	Invalid
	Newline

	Ident     // snake_case identifier
	Alias     // Capitalized module segment
	Atom      // :ok, :"quoted"
	KwListKey // keyword-list key, `do:` / `queue:`
	Int
	Float
	String

	KwDefmodule
	KwDef
	KwDefp
	KwDo
	KwEnd
	KwUse
	KwAlias
	KwImport
	KwRequire
	KwCase
	KwCond
	KwIf
	KwUnless
	KwElse
	KwFn
	KwWhen
	KwWith
	KwTrue
	KwFalse
	KwNil
	KwAnd
	KwOr
	KwNot
	KwIn

	PipeOp   // |>
	Arrow    // ->
	FatArrow // =>
	LArrow   // <-
	Assign   // =
	EqEq     // == and ===
	NotEq    // != and !==
	LtEq
	GtEq
	Lt
	Gt
	Plus
	Minus
	Star
	Slash
	Bang
	AmpAmp // &&
	OrOr   // ||
	Bar    // |
	Amp    // & capture
	At     // @ module attribute
	Concat // <>
	PlusPlus
	MinusMinus
	Dot
	Comma
	Semicolon
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	PercentLBrace // %{
	Percent       // % struct literal head
	OtherOp       // anything else that looks like an operator
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	Invalid:       "Invalid",
	Newline:       "Newline",
	Ident:         "Ident",
	Alias:         "Alias",
	Atom:          "Atom",
	KwListKey:     "KwListKey",
	Int:           "Int",
	Float:         "Float",
	String:        "String",
	KwDefmodule:   "defmodule",
	KwDef:         "def",
	KwDefp:        "defp",
	KwDo:          "do",
	KwEnd:         "end",
	KwUse:         "use",
	KwAlias:       "alias",
	KwImport:      "import",
	KwRequire:     "require",
	KwCase:        "case",
	KwCond:        "cond",
	KwIf:          "if",
	KwUnless:      "unless",
	KwElse:        "else",
	KwFn:          "fn",
	KwWhen:        "when",
	KwWith:        "with",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNil:         "nil",
	KwAnd:         "and",
	KwOr:          "or",
	KwNot:         "not",
	KwIn:          "in",
	PipeOp:        "|>",
	Arrow:         "->",
	FatArrow:      "=>",
	LArrow:        "<-",
	Assign:        "=",
	EqEq:          "==",
	NotEq:         "!=",
	LtEq:          "<=",
	GtEq:          ">=",
	Lt:            "<",
	Gt:            ">",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Bang:          "!",
	AmpAmp:        "&&",
	OrOr:          "||",
	Bar:           "|",
	Amp:           "&",
	At:            "@",
	Concat:        "<>",
	PlusPlus:      "++",
	MinusMinus:    "--",
	Dot:           ".",
	Comma:         ",",
	Semicolon:     ";",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	PercentLBrace: "%{",
	Percent:       "%",
	OtherOp:       "OtherOp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

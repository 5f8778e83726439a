package token

import (
	"obanlint/internal/source"
)

// Token represents a single source token with its location.
// Text carries the lexeme for kinds that need one (Ident, Alias, Atom,
// KwListKey, Int, Float, String, OtherOp); it is empty otherwise.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is an atom, numeric, boolean,
// nil, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Atom, Int, Float, String, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved word of the subset.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwDefmodule, KwDef, KwDefp, KwDo, KwEnd, KwUse, KwAlias, KwImport,
		KwRequire, KwCase, KwCond, KwIf, KwUnless, KwElse, KwFn, KwWhen,
		KwWith, KwTrue, KwFalse, KwNil, KwAnd, KwOr, KwNot, KwIn:
		return true
	default:
		return false
	}
}

// CanEndExpr reports whether an expression may end at this token. The lexer
// uses it to decide if a newline right after the token is a statement
// terminator or mere formatting.
func (t Token) CanEndExpr() bool {
	switch t.Kind {
	case Ident, Alias, Atom, Int, Float, String, KwTrue, KwFalse, KwNil,
		KwEnd, RParen, RBrace, RBracket:
		return true
	default:
		return false
	}
}

package token

var keywords = map[string]Kind{
	"defmodule": KwDefmodule,
	"def":       KwDef,
	"defp":      KwDefp,
	"do":        KwDo,
	"end":       KwEnd,
	"use":       KwUse,
	"alias":     KwAlias,
	"import":    KwImport,
	"require":   KwRequire,
	"case":      KwCase,
	"cond":      KwCond,
	"if":        KwIf,
	"unless":    KwUnless,
	"else":      KwElse,
	"fn":        KwFn,
	"when":      KwWhen,
	"with":      KwWith,
	"true":      KwTrue,
	"false":     KwFalse,
	"nil":       KwNil,
	"and":       KwAnd,
	"or":        KwOr,
	"not":       KwNot,
	"in":        KwIn,
}

// Lookup maps an identifier to its keyword kind, or Ident if it is not one.
func Lookup(name string) Kind {
	if k, ok := keywords[name]; ok {
		return k
	}
	return Ident
}

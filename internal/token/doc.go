// Package token defines the token kinds produced by the lexer for the
// Elixir subset obanlint understands. The set is deliberately closed:
// operators outside the subset lex as OtherOp and flow through the parser
// as opaque material rather than failing the file.
package token

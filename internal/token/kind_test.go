package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Kind
	}{
		{"defmodule", "defmodule", KwDefmodule},
		{"defp", "defp", KwDefp},
		{"case", "case", KwCase},
		{"plain identifier", "perform", Ident},
		{"keyword prefix is still an identifier", "defper", Ident},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(tt.input); got != tt.expected {
				t.Errorf("Lookup(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToken_CanEndExpr(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected bool
	}{
		{Ident, true},
		{Atom, true},
		{RParen, true},
		{KwEnd, true},
		{PipeOp, false},
		{Comma, false},
		{KwDo, false},
		{Arrow, false},
	}
	for _, tt := range tests {
		tok := Token{Kind: tt.kind}
		if got := tok.CanEndExpr(); got != tt.expected {
			t.Errorf("CanEndExpr(%v) = %v, want %v", tt.kind, got, tt.expected)
		}
	}
}

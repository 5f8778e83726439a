package parser

import (
	"obanlint/internal/ast"
	"obanlint/internal/diag"
	"obanlint/internal/token"
)

// parseModule parses one defmodule. Nested modules are flattened into the
// returned slice with their names prefixed by the enclosing module path.
func (p *Parser) parseModule(prefix []string) []ast.Module {
	kw, _ := p.expect(token.KwDefmodule, diag.SynUnexpectedToken)

	name, ok := p.parseAliasSegments()
	if !ok {
		p.emit(diag.SynExpectAliasPath, p.peek().Span, "expected module name after defmodule")
		p.resyncLine()
		return nil
	}
	full := make([]string, 0, len(prefix)+len(name))
	full = append(full, prefix...)
	full = append(full, name...)

	if _, ok := p.expect(token.KwDo, diag.SynExpectDo); !ok {
		p.resyncLine()
		return nil
	}

	mod := ast.Module{Name: full, Span: kw.Span}
	var nested []ast.Module

	for {
		p.skipNewlines()
		switch p.peek().Kind {
		case token.EOF:
			p.emit(diag.SynExpectEnd, p.lastSpan, "missing end for defmodule")
			mod.Span = mod.Span.Cover(p.lastSpan)
			return append([]ast.Module{mod}, nested...)

		case token.KwEnd:
			end := p.bump()
			mod.Span = mod.Span.Cover(end.Span)
			return append([]ast.Module{mod}, nested...)

		case token.KwDefmodule:
			nested = append(nested, p.parseModule(full)...)

		case token.KwUse, token.KwAlias, token.KwImport, token.KwRequire:
			mod.Header = append(mod.Header, p.parseDirective())

		case token.At:
			mod.Header = append(mod.Header, p.parseAttr())

		case token.KwDef, token.KwDefp:
			if def, ok := p.parseDef(); ok {
				mod.Defs = append(mod.Defs, def)
			}

		default:
			// module-level expression (macro invocations and the like)
			p.parseExpr()
		}
	}
}

// parseDirective parses use/alias/import/require. Only the first argument
// is retained; trailing options are skipped to the statement boundary.
func (p *Parser) parseDirective() ast.Directive {
	kw := p.bump()
	var kind ast.DirectiveKind
	switch kw.Kind {
	case token.KwUse:
		kind = ast.DirUse
	case token.KwAlias:
		kind = ast.DirAlias
	case token.KwImport:
		kind = ast.DirImport
	default:
		kind = ast.DirRequire
	}

	dir := ast.Directive{Kind: kind, Span: kw.Span}
	if p.at(token.Alias) {
		start := p.peek().Span
		segs, _ := p.parseAliasSegments()
		dir.Arg = &ast.Node{Kind: ast.NodeAlias, Span: start.Cover(p.lastSpan), Path: segs}
	} else if !p.at(token.Newline) && !p.at(token.EOF) {
		dir.Arg = p.parseExpr()
	}
	dir.Span = dir.Span.Cover(p.lastSpan)

	// options, multi-alias braces, `as:` clauses
	p.skipToStatementEnd()
	return dir
}

// parseAttr parses a @attribute line (`@impl Oban.Worker`, `@moduledoc "..."`).
func (p *Parser) parseAttr() ast.Directive {
	at := p.bump()
	dir := ast.Directive{Kind: ast.DirAttr, Span: at.Span}
	if p.at(token.Ident) {
		p.bump()
	}
	if !p.at(token.Newline) && !p.at(token.EOF) {
		dir.Arg = p.parseExpr()
	}
	dir.Span = dir.Span.Cover(p.lastSpan)
	return dir
}

// parseDef parses def/defp with either a do-block or a `, do:` one-liner.
func (p *Parser) parseDef() (ast.FuncDef, bool) {
	kw := p.bump()
	def := ast.FuncDef{Private: kw.Kind == token.KwDefp, Span: kw.Span}

	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		p.resyncLine()
		return def, false
	}
	def.Name = name.Text

	if p.at(token.LParen) {
		p.bump()
		def.Arity = p.parseDefParams()
	}

	if p.at(token.KwWhen) {
		p.bump()
		p.parseExpr() // guard does not contribute evidence
	}

	switch {
	case p.at(token.KwDo):
		p.bump()
		def.Body = p.parseBody(token.KwEnd)
		if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd); !ok {
			p.resyncLine()
		}

	case p.at(token.Comma):
		p.bump()
		p.skipNewlines()
		if p.at(token.KwListKey) && p.peek().Text == "do" {
			p.bump()
			def.Body = p.parseExpr()
		} else {
			p.emit(diag.SynExpectDo, p.peek().Span, "expected do: after def head")
			p.resyncLine()
			return def, false
		}

	default:
		p.emit(diag.SynExpectDo, p.peek().Span, "expected do block after def head")
		p.resyncLine()
		return def, false
	}

	def.Span = def.Span.Cover(p.lastSpan)
	return def, true
}

// parseDefParams parses the parenthesized parameter patterns and returns
// the arity. The opening paren is already consumed.
func (p *Parser) parseDefParams() int {
	arity := 0
	p.skipNewlines()
	if p.at(token.RParen) {
		p.bump()
		return 0
	}
	for {
		p.parseExpr()
		arity++
		p.skipNewlines()
		if p.at(token.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter); !ok {
		p.resyncLine()
	}
	return arity
}

// parseBody parses a statement sequence up to (not consuming) the stop
// keyword. One statement stays bare; several become a block.
func (p *Parser) parseBody(stop token.Kind) *ast.Node {
	start := p.peek().Span
	var stmts []*ast.Node
	for {
		p.skipNewlines()
		if p.at(stop) || p.at(token.EOF) {
			break
		}
		stmts = append(stmts, p.parseExpr())
	}
	switch len(stmts) {
	case 0:
		return &ast.Node{Kind: ast.NodeBlock, Span: start}
	case 1:
		return stmts[0]
	default:
		return &ast.Node{Kind: ast.NodeBlock, Span: start.Cover(p.lastSpan), Stmts: stmts}
	}
}

// parseAliasSegments reads Alias (.Alias)* and returns the segments.
func (p *Parser) parseAliasSegments() ([]string, bool) {
	if !p.at(token.Alias) {
		return nil, false
	}
	segs := []string{p.bump().Text}
	for p.at(token.Dot) && p.lx.PeekN(1).Kind == token.Alias {
		p.bump()
		segs = append(segs, p.bump().Text)
	}
	return segs, true
}

// skipToStatementEnd drops tokens until a newline at bracket depth zero.
func (p *Parser) skipToStatementEnd() {
	depth := 0
	for {
		switch p.peek().Kind {
		case token.EOF, token.KwEnd:
			return
		case token.Newline:
			if depth == 0 {
				p.bump()
				return
			}
			p.bump()
		case token.LParen, token.LBrace, token.LBracket, token.PercentLBrace:
			depth++
			p.bump()
		case token.RParen, token.RBrace, token.RBracket:
			if depth > 0 {
				depth--
			}
			p.bump()
		default:
			p.bump()
		}
	}
}

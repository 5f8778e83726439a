package parser

import (
	"obanlint/internal/ast"
	"obanlint/internal/diag"
	"obanlint/internal/token"
)

// parseCase parses `case subject do arms end` and the piped form
// `|> case do arms end` (no subject).
func (p *Parser) parseCase() *ast.Node {
	kw := p.bump()
	node := &ast.Node{Kind: ast.NodeCase, Span: kw.Span}

	if !p.at(token.KwDo) {
		node.Subject = p.parseExpr()
	}
	if _, ok := p.expect(token.KwDo, diag.SynExpectDo); !ok {
		p.resyncLine()
		node.Span = node.Span.Cover(p.lastSpan)
		return node
	}

	node.Body = p.parseClauses()
	if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

// parseCondConstruct parses `cond do guard -> body ... end`. It is shaped
// like a subject-less case; its arms never look like result narrowing, so
// the classifier stays neutral on them.
func (p *Parser) parseCondConstruct() *ast.Node {
	kw := p.bump()
	node := &ast.Node{Kind: ast.NodeCase, Span: kw.Span}

	if _, ok := p.expect(token.KwDo, diag.SynExpectDo); !ok {
		p.resyncLine()
		return node
	}
	node.Body = p.parseClauses()
	if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

// parseIf parses if/unless with do/else blocks or the `, do: x, else: y`
// one-line form.
func (p *Parser) parseIf() *ast.Node {
	kw := p.bump()
	node := &ast.Node{Kind: ast.NodeCond, Span: kw.Span}
	node.Cond = p.parseExpr()

	switch {
	case p.at(token.KwDo):
		p.bump()
		node.Then = p.parseBodyUntil(token.KwEnd, token.KwElse)
		if p.at(token.KwElse) {
			p.bump()
			node.Else = p.parseBodyUntil(token.KwEnd)
		}
		if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd); !ok {
			p.resyncLine()
		}

	case p.at(token.Comma):
		p.bump()
		p.skipNewlines()
		if p.at(token.KwListKey) && p.peek().Text == "do" {
			p.bump()
			node.Then = p.parseExpr()
			if p.at(token.Comma) && p.lx.PeekN(1).Kind == token.KwListKey && p.lx.PeekN(1).Text == "else" {
				p.bump()
				p.bump()
				node.Else = p.parseExpr()
			}
		} else {
			p.emit(diag.SynExpectDo, p.peek().Span, "expected do: after if condition")
			p.resyncLine()
		}

	default:
		p.emit(diag.SynExpectDo, p.peek().Span, "expected do after if condition")
		p.resyncLine()
	}

	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

// parseFn parses an anonymous function `fn arms end`.
func (p *Parser) parseFn() *ast.Node {
	kw := p.bump()
	node := &ast.Node{Kind: ast.NodeFn, Span: kw.Span}
	node.Body = p.parseClauses()
	if _, ok := p.expect(token.KwEnd, diag.SynExpectEnd); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

// parseBodyUntil is parseBody with multiple stop keywords.
func (p *Parser) parseBodyUntil(stops ...token.Kind) *ast.Node {
	start := p.peek().Span
	var stmts []*ast.Node
	for {
		p.skipNewlines()
		if p.at(token.EOF) || p.atAny(stops...) {
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

func (p *Parser) atAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}
	return false
}

// parseClauses parses `pattern [when guard] -> body` arms up to (not
// consuming) end. Returns a NodeMultiClause.
func (p *Parser) parseClauses() *ast.Node {
	start := p.peek().Span
	multi := &ast.Node{Kind: ast.NodeMultiClause, Span: start}

	for {
		p.skipNewlines()
		if p.at(token.KwEnd) || p.at(token.EOF) {
			break
		}
		clause, ok := p.parseClause()
		if !ok {
			p.resyncLine()
			continue
		}
		multi.Clauses = append(multi.Clauses, clause)
	}
	multi.Span = multi.Span.Cover(p.lastSpan)
	return multi
}

func (p *Parser) parseClause() (*ast.Node, bool) {
	start := p.peek().Span
	clause := &ast.Node{Kind: ast.NodeMatchClause, Span: start}

	// fn clauses may take several comma-separated patterns
	patterns := []*ast.Node{p.parseExpr()}
	for p.at(token.Comma) {
		p.bump()
		p.skipNewlines()
		patterns = append(patterns, p.parseExpr())
	}
	if len(patterns) == 1 {
		clause.Pattern = patterns[0]
	} else {
		clause.Pattern = &ast.Node{
			Kind:  ast.NodeTuple,
			Span:  patterns[0].Span.Cover(patterns[len(patterns)-1].Span),
			Elems: patterns,
		}
	}

	if p.at(token.KwWhen) {
		p.bump()
		clause.Guard = p.parseExpr()
	}

	if _, ok := p.expect(token.Arrow, diag.SynExpectArrow); !ok {
		return nil, false
	}
	p.skipNewlines()
	clause.Body = p.parseClauseBody()
	clause.Span = clause.Span.Cover(p.lastSpan)
	return clause, true
}

// parseClauseBody collects statements until the next arm or the closing
// end. Arms are detected by an -> at bracket depth zero on the upcoming
// line.
func (p *Parser) parseClauseBody() *ast.Node {
	start := p.peek().Span
	var stmts []*ast.Node
	for {
		p.skipNewlines()
		if p.at(token.KwEnd) || p.at(token.EOF) {
			break
		}
		if p.lineStartsClause() {
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

// lineStartsClause looks ahead over the current line for an -> at bracket
// depth zero, which marks the start of the next arm.
func (p *Parser) lineStartsClause() bool {
	depth := 0
	for n := 0; n < maxClauseLookahead; n++ {
		switch p.lx.PeekN(n).Kind {
		case token.Arrow:
			if depth == 0 {
				return true
			}
		case token.Newline, token.EOF, token.KwEnd, token.KwDo:
			return false
		case token.LParen, token.LBrace, token.LBracket, token.PercentLBrace:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			if depth == 0 {
				return false
			}
			depth--
		case token.KwFn:
			// an -> after fn belongs to the nested fn
			return false
		}
	}
	return false
}

// Arm patterns are single-line in practice; the lookahead gives up after
// a generous number of tokens rather than scanning the whole stream.
const maxClauseLookahead = 128

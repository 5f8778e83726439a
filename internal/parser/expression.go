package parser

import (
	"obanlint/internal/ast"
	"obanlint/internal/diag"
	"obanlint/internal/source"
	"obanlint/internal/token"
)

// Binding powers, low to high. Only operators the check may need to see
// through get their own class; the rest are NodeBinary/BinaryOther.
const (
	precAssign = iota + 1
	precPipe
	precOr
	precAnd
	precCmp
	precConcat
	precAdd
	precMul
)

func binaryPrec(k token.Kind) (int, ast.BinaryOp) {
	switch k {
	case token.Assign:
		return precAssign, ast.BinaryOther
	case token.PipeOp:
		return precPipe, ast.BinaryOther
	case token.OrOr, token.KwOr:
		return precOr, ast.BinaryOr
	case token.AmpAmp, token.KwAnd:
		return precAnd, ast.BinaryAnd
	case token.EqEq, token.NotEq, token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwIn:
		return precCmp, ast.BinaryCmp
	case token.Concat, token.PlusPlus, token.MinusMinus, token.Bar, token.LArrow, token.FatArrow:
		return precConcat, ast.BinaryConcat
	case token.Plus, token.Minus:
		return precAdd, ast.BinaryOther
	case token.Star, token.Slash:
		return precMul, ast.BinaryOther
	default:
		return 0, ast.BinaryOther
	}
}

func (p *Parser) parseExpr() *ast.Node {
	return p.parseBinary(precAssign)
}

func (p *Parser) parseBinary(minPrec int) *ast.Node {
	left := p.parseUnary()

	for {
		// multi-line pipelines put |> at line starts; join across the break
		if p.at(token.Newline) && p.nextSignificantIs(token.PipeOp) {
			p.skipNewlines()
		}

		prec, op := binaryPrec(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		opTok := p.bump()
		p.skipNewlines()

		switch opTok.Kind {
		case token.Assign:
			// right-assoc match operator
			value := p.parseBinary(precAssign)
			left = &ast.Node{
				Kind:    ast.NodeAssign,
				Span:    left.Span.Cover(value.Span),
				Pattern: left,
				Value:   value,
			}
		case token.PipeOp:
			right := p.parseBinary(precPipe + 1)
			left = &ast.Node{
				Kind:  ast.NodePipe,
				Span:  left.Span.Cover(right.Span),
				Left:  left,
				Right: right,
			}
		default:
			right := p.parseBinary(prec + 1)
			left = &ast.Node{
				Kind:  ast.NodeBinary,
				Span:  left.Span.Cover(right.Span),
				BinOp: op,
				Left:  left,
				Right: right,
			}
		}
	}
}

// nextSignificantIs looks past newlines for the given kind.
func (p *Parser) nextSignificantIs(k token.Kind) bool {
	n := 0
	for p.lx.PeekN(n).Kind == token.Newline {
		n++
	}
	return p.lx.PeekN(n).Kind == k
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.peek().Kind {
	case token.Bang, token.KwNot:
		tok := p.bump()
		operand := p.parseUnary()
		return &ast.Node{
			Kind:    ast.NodeUnary,
			Span:    tok.Span.Cover(operand.Span),
			UnOp:    ast.UnaryNot,
			Operand: operand,
		}
	case token.Minus:
		tok := p.bump()
		operand := p.parseUnary()
		return &ast.Node{
			Kind:    ast.NodeUnary,
			Span:    tok.Span.Cover(operand.Span),
			UnOp:    ast.UnaryNeg,
			Operand: operand,
		}
	case token.Amp:
		// capture: &Mod.fun/1 or &(&1 + 1); opaque either way
		tok := p.bump()
		p.parseUnary()
		return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span.Cover(p.lastSpan)}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary and extends it with dot chains and call
// parens. Name/alias-rooted dot chains fold into a single call path so
// `Ecto.Multi.new()` and `repo.transaction(multi)` both match by path.
func (p *Parser) parsePostfix() *ast.Node {
	node := p.parsePrimary()

	for p.at(token.Dot) {
		if p.lx.PeekN(1).Kind == token.Ident {
			p.bump()
			seg := p.bump()
			if path, ok := pathOf(node); ok {
				full := make([]string, 0, len(path)+1)
				full = append(full, path...)
				full = append(full, seg.Text)
				call := &ast.Node{
					Kind: ast.NodeCall,
					Span: node.Span.Cover(seg.Span),
					Path: full,
				}
				if p.at(token.LParen) {
					p.bump()
					call.Args = p.parseCallArgs()
					call.Span = call.Span.Cover(p.lastSpan)
				}
				node = call
				continue
			}
			// access on a computed base: conn.assigns, changeset.errors
			right := &ast.Node{Kind: ast.NodeName, Span: seg.Span, Name: seg.Text}
			if p.at(token.LParen) {
				p.bump()
				right = &ast.Node{
					Kind: ast.NodeCall,
					Span: seg.Span,
					Path: []string{seg.Text},
					Args: p.parseCallArgs(),
				}
				right.Span = right.Span.Cover(p.lastSpan)
			}
			node = &ast.Node{
				Kind:  ast.NodeBinary,
				Span:  node.Span.Cover(right.Span),
				BinOp: ast.BinaryAccess,
				Left:  node,
				Right: right,
			}
			continue
		}

		// anonymous call f.(x) or multi-alias .{...}: opaque remainder
		p.bump()
		if p.at(token.LParen) || p.at(token.LBrace) {
			p.bump()
			sp := p.skipDelimited()
			node = &ast.Node{Kind: ast.NodeOpaque, Span: node.Span.Cover(sp)}
			continue
		}
		node = &ast.Node{Kind: ast.NodeOpaque, Span: node.Span.Cover(p.lastSpan)}
	}
	return node
}

// pathOf returns the foldable call path of a node: alias paths, bare
// names, and zero-arg no-paren calls extend; anything else does not.
func pathOf(n *ast.Node) ([]string, bool) {
	switch n.Kind {
	case ast.NodeAlias:
		return n.Path, true
	case ast.NodeName:
		return []string{n.Name}, true
	case ast.NodeCall:
		if n.Args == nil {
			return n.Path, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.bump()
		if p.at(token.LParen) {
			p.bump()
			call := &ast.Node{Kind: ast.NodeCall, Span: tok.Span, Path: []string{tok.Text}}
			call.Args = p.parseCallArgs()
			call.Span = call.Span.Cover(p.lastSpan)
			return call
		}
		return &ast.Node{Kind: identKind(tok.Text), Span: tok.Span, Name: tok.Text}

	case token.Alias:
		start := tok.Span
		segs, _ := p.parseAliasSegments()
		node := &ast.Node{Kind: ast.NodeAlias, Span: start.Cover(p.lastSpan), Path: segs}
		return node

	case token.Atom:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitAtom, Text: tok.Text}

	case token.Int:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitInt, Text: tok.Text}

	case token.Float:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitFloat, Text: tok.Text}

	case token.String:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitString, Text: tok.Text}

	case token.KwTrue, token.KwFalse:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitBool, Text: tok.Kind.String()}

	case token.KwNil:
		p.bump()
		return &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitNil, Text: "nil"}

	case token.LBrace:
		return p.parseTuple()

	case token.LBracket:
		return p.parseList()

	case token.PercentLBrace:
		return p.parseMap()

	case token.Percent:
		// struct literal %Alias{...}
		p.bump()
		p.parseAliasSegments()
		if p.at(token.LBrace) {
			p.bump()
			sp := p.skipDelimited()
			return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span.Cover(sp)}
		}
		return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span.Cover(p.lastSpan)}

	case token.LParen:
		p.bump()
		p.skipNewlines()
		if p.at(token.RParen) {
			p.bump()
			return &ast.Node{Kind: ast.NodeLit, Span: tok.Span.Cover(p.lastSpan), Lit: ast.LitNil, Text: "nil"}
		}
		inner := p.parseExpr()
		p.skipNewlines()
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter); !ok {
			p.resyncLine()
		}
		inner.Span = tok.Span.Cover(p.lastSpan)
		return inner

	case token.KwCase:
		return p.parseCase()

	case token.KwCond:
		return p.parseCondConstruct()

	case token.KwIf, token.KwUnless:
		return p.parseIf()

	case token.KwFn:
		return p.parseFn()

	case token.KwWith:
		p.bump()
		sp := p.skipOpaqueConstruct()
		return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span.Cover(sp)}

	case token.At:
		p.bump()
		if p.at(token.Ident) {
			p.bump()
		}
		return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span.Cover(p.lastSpan)}

	case token.KwListKey:
		// keyword pair outside a bracketed list: `key: value`
		p.bump()
		key := &ast.Node{Kind: ast.NodeLit, Span: tok.Span, Lit: ast.LitAtom, Text: tok.Text}
		value := p.parseExpr()
		return &ast.Node{
			Kind:  ast.NodeBinary,
			Span:  tok.Span.Cover(value.Span),
			BinOp: ast.BinaryOther,
			Left:  key,
			Right: value,
		}

	default:
		p.emit(diag.SynExpectExpression, tok.Span, "expected expression, found "+tok.Kind.String())
		p.bump()
		return &ast.Node{Kind: ast.NodeOpaque, Span: tok.Span}
	}
}

// identKind decides between a wildcard bind and a plain name. The parser
// has no binding context, so only the underscore prefix marks a bind;
// pattern positions treat plain names as wildcards via ast.IsWildcard.
func identKind(name string) ast.NodeKind {
	if len(name) > 0 && name[0] == '_' {
		return ast.NodeBind
	}
	return ast.NodeName
}

// parseCallArgs parses a comma-separated argument list, the opening paren
// already consumed.
func (p *Parser) parseCallArgs() []*ast.Node {
	args := make([]*ast.Node, 0, 4)
	p.skipNewlines()
	if p.at(token.RParen) {
		p.bump()
		return args
	}
	for {
		args = append(args, p.parseExpr())
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
	return args
}

func (p *Parser) parseTuple() *ast.Node {
	open := p.bump() // {
	node := &ast.Node{Kind: ast.NodeTuple, Span: open.Span}
	p.skipNewlines()
	if p.at(token.RBrace) {
		p.bump()
		node.Span = node.Span.Cover(p.lastSpan)
		return node
	}
	for {
		node.Elems = append(node.Elems, p.parseExpr())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

func (p *Parser) parseList() *ast.Node {
	open := p.bump() // [
	node := &ast.Node{Kind: ast.NodeList, Span: open.Span}
	p.skipNewlines()
	if p.at(token.RBracket) {
		p.bump()
		node.Span = node.Span.Cover(p.lastSpan)
		return node
	}
	for {
		node.Elems = append(node.Elems, p.parseExpr())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

func (p *Parser) parseMap() *ast.Node {
	open := p.bump() // %{
	node := &ast.Node{Kind: ast.NodeMap, Span: open.Span}
	p.skipNewlines()
	if p.at(token.RBrace) {
		p.bump()
		node.Span = node.Span.Cover(p.lastSpan)
		return node
	}
	for {
		node.Elems = append(node.Elems, p.parseExpr())
		p.skipNewlines()
		if p.at(token.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter); !ok {
		p.resyncLine()
	}
	node.Span = node.Span.Cover(p.lastSpan)
	return node
}

// skipOpaqueConstruct consumes a construct the subset does not model,
// balancing do/fn against end. A construct that turns out to be a
// one-liner (`with ..., do: x`) ends at its newline instead.
func (p *Parser) skipOpaqueConstruct() source.Span {
	start := p.lastSpan
	blockDepth, brDepth := 0, 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwDo, token.KwFn:
			blockDepth++
		case token.KwEnd:
			if blockDepth == 0 {
				return start.Cover(p.lastSpan)
			}
			blockDepth--
			if blockDepth == 0 {
				p.bump()
				return start.Cover(p.lastSpan)
			}
		case token.Newline:
			if blockDepth == 0 && brDepth == 0 {
				return start.Cover(p.lastSpan)
			}
		case token.LParen, token.LBrace, token.LBracket, token.PercentLBrace:
			brDepth++
		case token.RParen, token.RBrace, token.RBracket:
			if brDepth > 0 {
				brDepth--
			}
		}
		p.bump()
	}
	return start.Cover(p.lastSpan)
}

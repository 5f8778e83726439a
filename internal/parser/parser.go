// Package parser turns the token stream into the ast model. It is
// recall-oriented: constructs outside the subset become opaque nodes and
// parsing always runs to EOF, so one exotic expression never costs the
// whole file.
package parser

import (
	"obanlint/internal/ast"
	"obanlint/internal/diag"
	"obanlint/internal/lexer"
	"obanlint/internal/source"
	"obanlint/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is exhausted.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// Parser holds per-file parsing state.
type Parser struct {
	lx       *lexer.Lexer
	fs       *source.FileSet
	fileID   source.FileID
	opts     Options
	lastSpan source.Span
}

// ParseFile is the entry point for one file. It requires an already
// constructed lexer over a source.File.
func ParseFile(fs *source.FileSet, fileID source.FileID, lx *lexer.Lexer, opts Options) Result {
	p := Parser{
		lx:       lx,
		fs:       fs,
		fileID:   fileID,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	file := &ast.File{ID: fileID}
	for !p.at(token.EOF) {
		p.skipNewlines()
		switch p.peek().Kind {
		case token.EOF:
			// done
		case token.KwDefmodule:
			mods := p.parseModule(nil)
			file.Modules = append(file.Modules, mods...)
		default:
			// top-level scripts (.exs) may have loose expressions; they
			// cannot carry the anti-pattern without a module header, so
			// they are consumed and dropped
			p.parseExpr()
		}
	}

	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{File: file, Bag: bag}
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) bump() token.Token {
	tok := p.lx.Next()
	p.lastSpan = tok.Span
	return tok
}

// expect consumes a token of the given kind, or reports code and leaves the
// stream untouched.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	p.emit(code, p.peek().Span, "expected "+k.String()+", found "+p.peek().Kind.String())
	return token.Token{Kind: token.Invalid, Span: p.peek().Span}, false
}

func (p *Parser) emit(code diag.Code, sp source.Span, msg string) {
	if p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) || p.at(token.Semicolon) {
		p.bump()
	}
}

// resyncLine drops tokens up to the next statement boundary.
func (p *Parser) resyncLine() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.KwEnd:
			return
		case token.Newline, token.Semicolon:
			p.bump()
			return
		default:
			p.bump()
		}
	}
}

// skipBalanced consumes tokens until the do/end nesting opened by the
// current construct closes. Called with the stream positioned after a
// block-opening token; fn and do open, end closes.
func (p *Parser) skipBalanced() source.Span {
	start := p.peek().Span
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwDo, token.KwFn:
			depth++
		case token.KwEnd:
			depth--
		}
		p.bump()
	}
	return start.Cover(p.lastSpan)
}

// skipDelimited consumes tokens until the bracket nesting of depth 1
// closes, assuming the opener was already consumed.
func (p *Parser) skipDelimited() source.Span {
	start := p.lastSpan
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBrace, token.LBracket, token.PercentLBrace:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
		p.bump()
	}
	return start.Cover(p.lastSpan)
}

package lexer

import (
	"obanlint/internal/diag"
	"obanlint/internal/source"
	"obanlint/internal/token"
)

// Lexer scans one file into a token stream. Whitespace and # comments are
// skipped; newlines become statement-terminator tokens only where an
// expression could end, so multi-line pipelines stay joinable by the parser.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   []token.Token // lookahead buffer
	prev   token.Kind    // last significant token handed out or buffered
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		prev:   token.Newline, // file start: suppress leading newlines
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if len(lx.look) > 0 {
		tok := lx.look[0]
		lx.look = lx.look[1:]
		return tok
	}
	return lx.scan()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	return lx.PeekN(0)
}

// PeekN returns the token n positions ahead without consuming anything.
func (lx *Lexer) PeekN(n int) token.Token {
	for len(lx.look) <= n {
		lx.look = append(lx.look, lx.scan())
	}
	return lx.look[n]
}

// EmptySpan returns a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) scan() token.Token {
	tok := lx.scanRaw()
	lx.prev = tok.Kind
	return tok
}

func (lx *Lexer) scanRaw() token.Token {
	for {
		ch := lx.cursor.Peek()
		switch {
		case lx.cursor.EOF():
			return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}

		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.cursor.Bump()

		case ch == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}

		case ch == '\n':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			// A newline terminates a statement only when the previous token
			// could end an expression; otherwise it is formatting.
			if (token.Token{Kind: lx.prev}).CanEndExpr() {
				return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(m)}
			}

		case ch == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()

		default:
			return lx.scanToken()
		}
	}
}

func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isLowerIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isUpper(ch):
		return lx.scanAlias()
	case ch == ':':
		return lx.scanAtomOrColon()
	case isDigit(ch):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	case ch == '?':
		return lx.scanCharLiteral()
	default:
		return lx.scanOperator()
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	m := lx.cursor.Mark()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// trailing ? or ! are part of the name (valid?, persist!)
	if b := lx.cursor.Peek(); b == '?' || b == '!' {
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(m)

	// `name:` immediately after the identifier is a keyword-list key, even
	// for reserved words (`do: :ok`). `::` stays an operator.
	if lx.cursor.Peek() == ':' && lx.cursor.PeekAt(1) != ':' {
		lx.cursor.Bump()
		return token.Token{Kind: token.KwListKey, Span: lx.cursor.SpanFrom(m), Text: text}
	}

	kind := token.Lookup(text)
	if kind == token.Ident {
		return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(m), Text: text}
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(m), Text: text}
}

func (lx *Lexer) scanAlias() token.Token {
	m := lx.cursor.Mark()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.TextFrom(m)
	if lx.cursor.Peek() == ':' && lx.cursor.PeekAt(1) != ':' {
		lx.cursor.Bump()
		return token.Token{Kind: token.KwListKey, Span: lx.cursor.SpanFrom(m), Text: text}
	}
	return token.Token{Kind: token.Alias, Span: lx.cursor.SpanFrom(m), Text: text}
}

func (lx *Lexer) scanAtomOrColon() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // ':'

	switch {
	case lx.cursor.Peek() == ':':
		lx.cursor.Bump()
		return token.Token{Kind: token.OtherOp, Span: lx.cursor.SpanFrom(m), Text: "::"}

	case lx.cursor.Peek() == '"':
		lx.cursor.Bump()
		nm := lx.cursor.Mark()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '"' && lx.cursor.Peek() != '\n' {
			if lx.cursor.Peek() == '\\' {
				lx.cursor.Bump()
			}
			lx.cursor.Bump()
		}
		text := lx.cursor.TextFrom(nm)
		if lx.cursor.Peek() != '"' {
			lx.report(diag.LexUnterminatedAtom, lx.cursor.SpanFrom(m), "unterminated quoted atom")
		} else {
			lx.cursor.Bump()
		}
		return token.Token{Kind: token.Atom, Span: lx.cursor.SpanFrom(m), Text: text}

	case isIdentStart(lx.cursor.Peek()):
		nm := lx.cursor.Mark()
		for isIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if b := lx.cursor.Peek(); b == '?' || b == '!' {
			lx.cursor.Bump()
		}
		return token.Token{Kind: token.Atom, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(nm)}

	default:
		// bare ':' (operator atoms like :+ are outside the subset)
		return token.Token{Kind: token.OtherOp, Span: lx.cursor.SpanFrom(m), Text: ":"}
	}
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	isFloat := false

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'b' || lx.cursor.PeekAt(1) == 'o') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for isHexDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		return token.Token{Kind: token.Int, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
	}

	for isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDigit(lx.cursor.PeekAt(1)) {
		isFloat = true
		lx.cursor.Bump()
		for isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.cursor.PeekAt(2))) {
			isFloat = true
			lx.cursor.Bump()
			if b := lx.cursor.Peek(); b == '+' || b == '-' {
				lx.cursor.Bump()
			}
			for isDigit(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	kind := token.Int
	if isFloat {
		kind = token.Float
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
}

// scanString handles "...", '...', and """heredocs""". Interpolation is kept
// as raw text; the checker never looks inside strings.
func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	quote := lx.cursor.Bump()

	if quote == '"' && lx.cursor.Peek() == '"' && lx.cursor.PeekAt(1) == '"' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			if lx.cursor.Peek() == '"' && lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				lx.cursor.Bump()
				return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
			}
			lx.cursor.Bump()
		}
		lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(m), "unterminated heredoc")
		return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\\' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			lx.cursor.Bump()
			return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(m), "unterminated string")
	return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
}

// scanCharLiteral handles ?a and ?\n forms.
func (lx *Lexer) scanCharLiteral() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '?'
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
	}
	lx.cursor.Bump()
	return token.Token{Kind: token.Int, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.TextFrom(m)}
}

type opEntry struct {
	text string
	kind token.Kind
}

// Longest match first. Unlisted sequences fall through to OtherOp.
var opTable = []opEntry{
	{"===", token.EqEq},
	{"!==", token.NotEq},
	{"<<~", token.OtherOp},
	{"~>>", token.OtherOp},
	{"|>", token.PipeOp},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"<-", token.LArrow},
	{"==", token.EqEq},
	{"!=", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"&&", token.AmpAmp},
	{"||", token.OrOr},
	{"<>", token.Concat},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"<<", token.OtherOp},
	{">>", token.OtherOp},
	{"%{", token.PercentLBrace},
	{"=", token.Assign},
	{"<", token.Lt},
	{">", token.Gt},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"!", token.Bang},
	{"|", token.Bar},
	{"&", token.Amp},
	{"@", token.At},
	{".", token.Dot},
	{",", token.Comma},
	{";", token.Semicolon},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"%", token.Percent},
	{"~", token.OtherOp},
	{"^", token.OtherOp},
}

func (lx *Lexer) scanOperator() token.Token {
	m := lx.cursor.Mark()
	for _, op := range opTable {
		if lx.matchAt(op.text) {
			for range op.text {
				lx.cursor.Bump()
			}
			tok := token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(m)}
			if op.kind == token.OtherOp {
				tok.Text = op.text
			}
			return tok
		}
	}

	b := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(m)
	lx.report(diag.LexUnknownChar, sp, "unknown character "+string(rune(b)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(rune(b))}
}

func (lx *Lexer) matchAt(text string) bool {
	for i := 0; i < len(text); i++ {
		if lx.cursor.PeekAt(uint32(i)) != text[i] { //nolint:gosec // i < len of a short literal
			return false
		}
	}
	return true
}

func isLowerIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || b == '_'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isIdentStart(b byte) bool {
	return isLowerIdentStart(b) || isUpper(b)
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

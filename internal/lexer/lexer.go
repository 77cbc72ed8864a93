package lexer

import (
	"fmt"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

type mode uint8

const (
	modeNormal mode = iota
	modeClass       // между '[' и ']'
	modeCount       // между '{' и '}'
)

// Lexer classifies a pattern into tokens. Classification follows the
// grammar's context: see package token for the rules.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	mode   mode
	cls    classState
}

// classState tracks whether a '-' inside a class can be a range operator.
type classState uint8

const (
	clsNone   classState = iota // nothing a dash could attach to
	clsMember                   // previous token was a standalone member
	clsDash                     // previous token was a range dash
)

// New creates a lexer over the whole file.
func New(file *source.File, opts Options) *Lexer {
	return NewSpan(file, file.Span(), opts)
}

// NewSpan creates a lexer over one pattern inside file.
func NewSpan(file *source.File, sp source.Span, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursorSpan(file, sp),
		opts:   opts,
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.Here()}
	}

	switch lx.mode {
	case modeClass:
		return lx.scanClass()
	case modeCount:
		if tok, ok := lx.scanCount(); ok {
			return tok
		}
		lx.mode = modeNormal
	}
	return lx.scanNormal()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns an empty span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return lx.cursor.Here()
}

// All lexes the remaining input, EOF included.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, 16)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scanNormal() token.Token {
	m := lx.cursor.Mark()
	if lx.cursor.BadRune() {
		return lx.badRune(m)
	}
	r := lx.cursor.Bump()
	kind := token.Literal
	switch r {
	case '\\':
		return lx.scanEscape(m)
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '|':
		kind = token.Pipe
	case '*':
		kind = token.Star
	case '+':
		kind = token.Plus
	case '?':
		if lx.opts.Extended {
			kind = token.Question
		}
	case '[':
		if lx.opts.Extended && lx.eatCustomClass() {
			return lx.emit(token.CustomClass, m)
		}
		kind = token.LBracket
		lx.mode = modeClass
		lx.cls = clsNone
	case '{':
		kind = token.LBrace
		lx.mode = modeCount
	}
	return lx.emit(kind, m)
}

func (lx *Lexer) scanClass() token.Token {
	m := lx.cursor.Mark()
	if lx.cursor.BadRune() {
		return lx.badRune(m)
	}
	r0, r1 := lx.cursor.Peek2()
	switch {
	case r0 == ']':
		lx.cursor.Bump()
		lx.mode = modeNormal
		lx.cls = clsNone
		return lx.emit(token.RBracket, m)
	case r0 == '-' && lx.cls == clsMember && r1 != ']' && r1 != EOF:
		lx.cursor.Bump()
		lx.cls = clsDash
		return lx.emit(token.Dash, m)
	}

	var tok token.Token
	lx.cursor.Bump()
	if r0 == '\\' {
		tok = lx.scanEscape(m)
	} else {
		tok = lx.emit(token.Literal, m)
	}
	// the high end of a range is not a member a dash can attach to
	if lx.cls == clsDash {
		lx.cls = clsNone
	} else {
		lx.cls = clsMember
	}
	return tok
}

func (lx *Lexer) scanCount() (token.Token, bool) {
	m := lx.cursor.Mark()
	r := lx.cursor.Peek()
	switch {
	case r >= '0' && r <= '9':
		for r := lx.cursor.Peek(); r >= '0' && r <= '9'; r = lx.cursor.Peek() {
			lx.cursor.Bump()
		}
		return lx.emit(token.Number, m), true
	case r == ',':
		lx.cursor.Bump()
		return lx.emit(token.Comma, m), true
	case r == '}':
		lx.cursor.Bump()
		lx.mode = modeNormal
		return lx.emit(token.RBrace, m), true
	}
	return token.Token{}, false
}

// scanEscape finishes an escape whose backslash is already consumed.
func (lx *Lexer) scanEscape(m Mark) token.Token {
	if lx.cursor.BadRune() {
		return lx.badRune(m)
	}
	if _, err := lx.cursor.Advance(); err != nil {
		tok := lx.emit(token.Invalid, m)
		lx.report(diag.LexDanglingEscape, tok.Span, "'\\' at end of pattern")
		return tok
	}
	return lx.emit(token.Escape, m)
}

// eatCustomClass consumes ":NAME:]" right after a '[' and reports whether
// it did; on a miss the cursor stays put. NAME runs up to the first ']'
// and is not checked here.
func (lx *Lexer) eatCustomClass() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat(':') {
		return false
	}
	nameStart := lx.cursor.Off
	for {
		at := lx.cursor.Off
		switch lx.cursor.Bump() {
		case EOF:
			lx.cursor.Reset(start)
			return false
		case ']':
			if at > nameStart && lx.file.Content[at-1] == ':' {
				return true
			}
			lx.cursor.Reset(start)
			return false
		}
	}
}

// badRune consumes one byte that is not valid UTF-8, together with the
// text since m, as an Invalid token.
func (lx *Lexer) badRune(m Mark) token.Token {
	lx.cursor.Bump()
	tok := lx.emit(token.Invalid, m)
	lx.report(diag.LexInvalidUTF8, tok.Span, fmt.Sprintf("invalid UTF-8 byte %#02x", tok.Text[len(tok.Text)-1]))
	return tok
}

func (lx *Lexer) emit(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

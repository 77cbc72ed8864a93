package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

// parsePattern := Alternation EOF
func (p *Parser) parsePattern() (ast.Node, bool) {
	parent := p.parent
	sp := p.rule("pattern")
	n, ok := p.parseAlternation(nil)
	if ok && p.at(token.RParen) {
		tok := p.advance()
		ok = p.fail(diag.SynUnbalancedGroup, tok.Span, "')' without a matching '('")
	}
	p.done(sp, parent, ok)
	return n, ok
}

// parseAlternation := Sequence ('|' Sequence)*
// group is the '(' this alternation sits in, nil at top level.
func (p *Parser) parseAlternation(group *token.Token) (ast.Node, bool) {
	parent := p.parent
	sp := p.rule("alternation")
	n, ok := p.alternation(group)
	p.done(sp, parent, ok)
	return n, ok
}

func (p *Parser) alternation(group *token.Token) (ast.Node, bool) {
	var branches []ast.Node
	sawPipe := false
	for {
		seq, ok := p.parseSequence()
		if !ok {
			return nil, false
		}
		if seq == nil {
			next := p.lx.Peek()
			switch {
			case next.Kind == token.EOF && group != nil:
				return nil, p.unclosedGroup(*group, next.Span)
			case next.Kind == token.EOF && !sawPipe:
				// пустой паттерн: не ошибка, просто нет дерева
				return nil, true
			case next.Kind == token.RParen && group == nil:
				return nil, p.fail(diag.SynUnbalancedGroup, next.Span, "')' without a matching '('")
			}
			return nil, p.fail(diag.SynEmptyBranch, source.Span{File: next.Span.File, Start: next.Span.Start, End: next.Span.Start},
				"alternative branch is empty")
		}
		branches = append(branches, seq)
		if !p.at(token.Pipe) {
			return ast.Alt(branches), true
		}
		p.advance()
		sawPipe = true
	}
}

// parseSequence := Atom*, up to '|', ')' or end of input.
func (p *Parser) parseSequence() (ast.Node, bool) {
	var atoms []ast.Node
	for !p.lx.Peek().EndsSequence() {
		atom, ok := p.parseAtom()
		if !ok {
			return nil, false
		}
		atoms = append(atoms, atom)
	}
	return ast.Seq(atoms), true
}

// parseAtom := Element Quantifier?
func (p *Parser) parseAtom() (ast.Node, bool) {
	elem, ok := p.parseElement()
	if !ok {
		return nil, false
	}
	if !p.lx.Peek().IsQuantifier() {
		return elem, true
	}
	q, ok := p.parseQuantifier()
	if !ok {
		return nil, false
	}
	return ast.Quantify{Child: elem, Q: q}, true
}

// parseElement := Literal | EscapeClass | Group | CharacterClass
// and, extended, CustomClass.
func (p *Parser) parseElement() (ast.Node, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Literal:
		p.advance()
		return literalOf(tok), true
	case token.Escape:
		p.advance()
		return p.parseEscape(tok, false)
	case token.Invalid:
		p.advance()
		return nil, p.invalid(tok)
	case token.CustomClass:
		p.advance()
		return p.customClass(tok)
	case token.LParen:
		return p.parseGroup()
	case token.LBracket:
		return p.parseClass()
	}
	if tok.IsQuantifier() {
		p.advance()
		return nil, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("nothing to repeat before %q", tok.Text))
	}
	return nil, p.fail(diag.SynUnexpectedEOF, tok.Span, fmt.Sprintf("unexpected %s", tok.Kind))
}

// parseGroup := '(' Alternation ')'; the group itself adds no node.
func (p *Parser) parseGroup() (ast.Node, bool) {
	parent := p.parent
	sp := p.rule("group")
	open := p.advance()
	n, ok := p.parseAlternation(&open)
	if ok {
		if p.at(token.RParen) {
			p.advance()
		} else {
			ok = p.unclosedGroup(open, p.lx.Peek().Span)
		}
	}
	p.done(sp, parent, ok)
	return n, ok
}

func (p *Parser) unclosedGroup(open token.Token, end source.Span) bool {
	return p.failWith(diag.SynUnbalancedGroup, open.Span, "'(' is never closed",
		[]diag.Note{{Span: end, Msg: "pattern ends here"}},
		[]diag.Fix{insertAt(end, ")")})
}

func insertAt(at source.Span, text string) diag.Fix {
	return diag.Fix{
		Title: fmt.Sprintf("insert '%s'", text),
		Edits: []diag.FixEdit{diag.Insert(at, text)},
	}
}

// parseClass := '[' ClassMember+ ']'; always wrapped in a CharClass.
func (p *Parser) parseClass() (ast.Node, bool) {
	parent := p.parent
	sp := p.rule("class")
	n, ok := p.class()
	p.done(sp, parent, ok)
	return n, ok
}

func (p *Parser) class() (ast.Node, bool) {
	open := p.advance()
	var members []ast.ClassMember
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.RBracket:
			p.advance()
			if len(members) == 0 {
				return nil, p.fail(diag.SynEmptyClass, open.Span.Cover(tok.Span), "character class has no members")
			}
			return ast.CharClass{Members: members}, true
		case token.EOF:
			return nil, p.failWith(diag.SynUnbalancedClass, open.Span, "'[' is never closed",
				[]diag.Note{{Span: tok.Span, Msg: "pattern ends here"}},
				[]diag.Fix{insertAt(tok.Span, "]")})
		}

		low, ok := p.parseClassLiteral()
		if !ok {
			return nil, false
		}
		// лексер выдаёт Dash только если за ним есть второй литерал
		if !p.at(token.Dash) {
			members = append(members, low)
			continue
		}
		p.advance()
		lowSpan := tok.Span
		high, ok := p.parseClassLiteral()
		if !ok {
			return nil, false
		}
		if low.Char > high.Char {
			end := p.lastEnd(lowSpan)
			return nil, p.fail(diag.SynInvalidRange, lowSpan.Cover(end),
				fmt.Sprintf("range %c-%c is out of order", low.Char, high.Char))
		}
		members = append(members, ast.Range{Low: low, High: high})
	}
}

// lastEnd returns an empty span right before the next token.
func (p *Parser) lastEnd(fallback source.Span) source.Span {
	next := p.lx.Peek().Span
	if next.Start < fallback.End {
		return fallback
	}
	return source.Span{File: next.File, Start: next.Start, End: next.Start}
}

func (p *Parser) parseClassLiteral() (ast.Literal, bool) {
	tok := p.advance()
	switch tok.Kind {
	case token.Literal:
		return literalOf(tok), true
	case token.Escape:
		n, ok := p.parseEscape(tok, true)
		if !ok {
			return ast.Literal{}, false
		}
		return n.(ast.Literal), true
	case token.Invalid:
		return ast.Literal{}, p.invalid(tok)
	}
	return ast.Literal{}, p.fail(diag.SynUnbalancedClass, tok.Span, fmt.Sprintf("unexpected %s inside a character class", tok.Kind))
}

// parseEscape resolves `\x`: a class letter becomes Random, any other
// rune stands for itself. Inside a class only the latter is allowed.
func (p *Parser) parseEscape(tok token.Token, inClass bool) (ast.Node, bool) {
	r, _ := utf8.DecodeRuneInString(tok.Text[1:])
	if !ast.IsEscapeLetter(r) {
		return ast.Literal{Char: r}, true
	}
	class, known := p.classes.Lookup(r)
	switch {
	case known && !inClass:
		return ast.Random{Class: class}, true
	case known:
		return nil, p.fail(diag.SynUnknownEscape, tok.Span,
			fmt.Sprintf("escape class %s cannot be used inside [...]", tok.Text))
	}
	return nil, p.fail(diag.SynUnknownEscape, tok.Span, fmt.Sprintf("unknown escape class %s", tok.Text))
}

// customClass resolves `[:NAME:]` to a Random node of class NAME.
func (p *Parser) customClass(tok token.Token) (ast.Node, bool) {
	name := tok.Text[2 : len(tok.Text)-2]
	if !ast.ValidClassName(name) {
		return nil, p.fail(diag.SynInvalidClassName, tok.Span,
			fmt.Sprintf("%q is not a class name (want upper-case letters, digits and '_')", name))
	}
	return ast.Random{Class: ast.Class(name)}, true
}

// invalid fails on a token the lexer could not classify: bytes that are not
// UTF-8, or a '\' with nothing after it.
func (p *Parser) invalid(tok token.Token) bool {
	if !utf8.ValidString(tok.Text) {
		return p.fail(diag.LexInvalidUTF8, tok.Span, "pattern is not valid UTF-8")
	}
	return p.fail(diag.SynUnexpectedEOF, tok.Span, "pattern ends inside an escape")
}

// parseQuantifier := '*' | '+' | '{' Integer (',' Integer)? '}'
// and, extended, '?' | '*?' | '+?'.
func (p *Parser) parseQuantifier() (ast.Quantifier, bool) {
	tok := p.advance()
	switch tok.Kind {
	case token.Star:
		if p.opts.extended() && p.at(token.Question) {
			p.advance()
			return ast.LazyStar, true
		}
		return ast.Star, true
	case token.Plus:
		if p.opts.extended() && p.at(token.Question) {
			p.advance()
			return ast.LazyPlus, true
		}
		return ast.Plus, true
	case token.Question:
		return ast.Optional, true
	}
	return p.parseCount(tok)
}

func (p *Parser) parseCount(open token.Token) (ast.Quantifier, bool) {
	low, ok := p.parseCountNumber(open)
	if !ok {
		return ast.Quantifier{}, false
	}
	tok := p.advance()
	switch tok.Kind {
	case token.RBrace:
		return ast.Exact(low), true
	case token.Comma:
	case token.EOF:
		return ast.Quantifier{}, p.fail(diag.SynUnexpectedEOF, tok.Span, "pattern ends inside '{...}'")
	default:
		return ast.Quantifier{}, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("expected ',' or '}', found %q", tok.Text))
	}

	high, ok := p.parseCountNumber(open)
	if !ok {
		return ast.Quantifier{}, false
	}
	tok = p.advance()
	switch tok.Kind {
	case token.RBrace:
	case token.EOF:
		return ast.Quantifier{}, p.fail(diag.SynUnexpectedEOF, tok.Span, "pattern ends inside '{...}'")
	default:
		return ast.Quantifier{}, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("expected '}', found %q", tok.Text))
	}
	if low > high {
		return ast.Quantifier{}, p.fail(diag.SynInvalidQuantifier, open.Span.Cover(tok.Span),
			fmt.Sprintf("lower bound %d is greater than upper bound %d", low, high))
	}
	return ast.Bounded(low, high), true
}

func (p *Parser) parseCountNumber(open token.Token) (int32, bool) {
	tok := p.advance()
	switch tok.Kind {
	case token.Number:
	case token.EOF:
		return 0, p.fail(diag.SynUnexpectedEOF, tok.Span, "pattern ends inside '{...}'",
			diag.Note{Span: open.Span, Msg: "quantifier starts here"})
	default:
		return 0, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("expected a repeat count, found %q", tok.Text))
	}
	v, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return 0, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("repeat count %s is too large", tok.Text))
	}
	n, err := safecast.Conv[int32](v)
	if err != nil {
		return 0, p.fail(diag.SynInvalidQuantifier, tok.Span, fmt.Sprintf("repeat count %s is too large", tok.Text))
	}
	return n, true
}

func literalOf(tok token.Token) ast.Literal {
	r, _ := utf8.DecodeRuneInString(tok.Text)
	return ast.Literal{Char: r}
}

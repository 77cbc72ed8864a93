package ast

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The canonical form is context sensitive in one place: the payload of a
// LITERAL is any single rune, parentheses and commas included. The lexer
// switches to the Payload state right after "(LITERAL," for exactly one rune.
var canonLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "LiteralOpen", Pattern: `\(LITERAL,`, Action: lexer.Push("Payload")},
		{Name: "RangeOpen", Pattern: `Range\[`},
		{Name: "Open", Pattern: `\(`},
		{Name: "Close", Pattern: `\)`},
		{Name: "Comma", Pattern: `,`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Name", Pattern: `[A-Z][A-Z0-9_]*`},
		{Name: "Op", Pattern: `\*\?|\+\?|[*+?]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
	"Payload": {
		{Name: "Char", Pattern: `(?s).`, Action: lexer.Pop()},
	},
})

type canonExpr struct {
	Char     *string        `parser:"  LiteralOpen @Char Close"`
	Compound *canonCompound `parser:"| Open @@ Close"`
}

type canonCompound struct {
	Random   *string        `parser:"  'RANDOM' Comma @Name"`
	Quantify *canonQuantify `parser:"| 'QUANTIFY' Comma @@"`
	Kind     string         `parser:"| @('RANGE' | 'CHARCLASS' | 'UNION' | 'INTERSECTION')"`
	Children []*canonExpr   `parser:"  (Comma @@)*"`
}

type canonQuantify struct {
	Child   *canonExpr    `parser:"@@ Comma"`
	Op      *string       `parser:"( @Op"`
	Exact   *string       `parser:"| @Int"`
	Bounded *canonBounded `parser:"| @@ )"`
}

type canonBounded struct {
	Low  string `parser:"RangeOpen @Int Comma"`
	High string `parser:"@Int RBracket"`
}

var canonOps = map[string]Quantifier{
	"*": Star, "+": Plus, "?": Optional, "*?": LazyStar, "+?": LazyPlus,
}

var canonParser = participle.MustBuild[canonExpr](
	participle.Lexer(canonLexer),
	participle.Elide("Whitespace"),
)

// ParseCanonical reads the canonical text form back into a tree.
// The result satisfies Validate; "" yields a nil tree.
func ParseCanonical(text string) (Node, error) {
	if text == "" {
		return nil, nil
	}
	expr, err := canonParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("canonical form: %w", err)
	}
	n, err := expr.build()
	if err != nil {
		return nil, fmt.Errorf("canonical form: %w", err)
	}
	if err := Validate(n); err != nil {
		return nil, fmt.Errorf("canonical form: %w", err)
	}
	return n, nil
}

func (e *canonExpr) build() (Node, error) {
	if e.Char != nil {
		r, size := utf8.DecodeRuneInString(*e.Char)
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("LITERAL holds an invalid character")
		}
		return Literal{Char: r}, nil
	}
	c := e.Compound
	switch {
	case c.Random != nil:
		return Random{Class: Class(*c.Random)}, nil
	case c.Quantify != nil:
		return c.Quantify.build()
	}

	children := make([]Node, 0, len(c.Children))
	for _, ch := range c.Children {
		n, err := ch.build()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	switch c.Kind {
	case "RANGE":
		if len(children) != 2 {
			return nil, fmt.Errorf("RANGE needs 2 children, got %d", len(children))
		}
		lo, okLo := children[0].(Literal)
		hi, okHi := children[1].(Literal)
		if !okLo || !okHi {
			return nil, fmt.Errorf("RANGE children must be LITERAL")
		}
		return Range{Low: lo, High: hi}, nil
	case "CHARCLASS":
		members := make([]ClassMember, 0, len(children))
		for _, ch := range children {
			m, ok := ch.(ClassMember)
			if !ok {
				return nil, fmt.Errorf("CHARCLASS cannot hold %s", ch.Kind())
			}
			members = append(members, m)
		}
		return CharClass{Members: members}, nil
	case "UNION":
		return Union{Nodes: children}, nil
	default:
		return Intersection{Nodes: children}, nil
	}
}

func (q *canonQuantify) build() (Node, error) {
	child, err := q.Child.build()
	if err != nil {
		return nil, err
	}
	var quant Quantifier
	switch {
	case q.Op != nil:
		quant = canonOps[*q.Op]
	case q.Exact != nil:
		n, err := parseCount(*q.Exact)
		if err != nil {
			return nil, err
		}
		quant = Exact(n)
	default:
		lo, err := parseCount(q.Bounded.Low)
		if err != nil {
			return nil, err
		}
		hi, err := parseCount(q.Bounded.High)
		if err != nil {
			return nil, err
		}
		quant = Bounded(lo, hi)
	}
	return Quantify{Child: child, Q: quant}, nil
}

func parseCount(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("repeat count %q: %w", s, err)
	}
	return int32(v), nil
}

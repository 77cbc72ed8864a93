package token

import (
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// Token is one classified lexical unit with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsQuantifier reports whether the token opens a quantifier.
func (t Token) IsQuantifier() bool {
	switch t.Kind {
	case Star, Plus, Question, LBrace:
		return true
	default:
		return false
	}
}

// IsDelimiter reports whether the token opens or closes a group or class.
func (t Token) IsDelimiter() bool {
	switch t.Kind {
	case LParen, RParen, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// EndsSequence reports whether the token terminates a sequence of atoms.
func (t Token) EndsSequence() bool {
	return t.Kind == Pipe || t.Kind == RParen || t.Kind == EOF
}

package ast

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidTree marks trees that break the shape rules.
var ErrInvalidTree = errors.New("invalid tree")

// Validate checks the shape rules for n and all its descendants.
// A nil tree is valid: it is what the empty pattern parses to.
func Validate(n Node) error {
	if n == nil {
		return nil
	}
	return validate(n, KindInvalid, "")
}

func validate(n Node, parent Kind, path string) error {
	if n == nil {
		return invalid(path, "missing node")
	}
	path += "/" + n.Kind().String()
	switch n := n.(type) {
	case Literal:
		if !utf8.ValidRune(n.Char) {
			return invalid(path, fmt.Sprintf("invalid rune %U", n.Char))
		}
		return nil
	case Random:
		if !ValidClassName(string(n.Class)) {
			return invalid(path, fmt.Sprintf("bad class name %q", n.Class))
		}
		return nil
	case Range:
		if parent != KindCharClass {
			return invalid(path, "range outside a character class")
		}
		if n.Low.Char > n.High.Char {
			return invalid(path, fmt.Sprintf("%q > %q", n.Low.Char, n.High.Char))
		}
	case CharClass:
		if len(n.Members) == 0 {
			return invalid(path, "no members")
		}
		for _, m := range n.Members {
			if m == nil {
				return invalid(path, "missing member")
			}
		}
	case Quantify:
		if err := n.Q.Valid(); err != nil {
			return invalid(path, err.Error())
		}
	case Union:
		if len(n.Nodes) < 2 {
			return invalid(path, fmt.Sprintf("%d children, want at least 2", len(n.Nodes)))
		}
	case Intersection:
		if len(n.Nodes) < 2 {
			return invalid(path, fmt.Sprintf("%d children, want at least 2", len(n.Nodes)))
		}
	default:
		return invalid(path, fmt.Sprintf("unknown node %T", n))
	}
	for _, c := range Children(n) {
		if err := validate(c, n.Kind(), path); err != nil {
			return err
		}
	}
	return nil
}

func invalid(path, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidTree, path, msg)
}

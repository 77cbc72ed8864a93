package ast

import (
	"fmt"
	"maps"
	"slices"
)

// Class names a set of characters a Random node draws from.
type Class string

const (
	ClassWord  Class = "WORD"
	ClassDigit Class = "DIGIT"
)

// ClassTable maps escape letters (the x in \x) to classes.
// A table is read-only once handed to a parser; use Clone to extend a shared one.
type ClassTable struct {
	byLetter map[rune]Class
}

// NewClassTable returns an empty table.
func NewClassTable() *ClassTable {
	return &ClassTable{byLetter: make(map[rune]Class)}
}

// DefaultClasses returns a fresh table with \w -> WORD and \d -> DIGIT.
func DefaultClasses() *ClassTable {
	t := NewClassTable()
	t.byLetter['w'] = ClassWord
	t.byLetter['d'] = ClassDigit
	return t
}

// Register binds letter to class, replacing an earlier binding.
func (t *ClassTable) Register(letter rune, class Class) error {
	if !isEscapeLetter(letter) {
		return fmt.Errorf("escape letter %q must be an ASCII letter or digit", letter)
	}
	if !ValidClassName(string(class)) {
		return fmt.Errorf("class name %q must match [A-Z][A-Z0-9_]*", class)
	}
	t.byLetter[letter] = class
	return nil
}

// Lookup returns the class bound to letter.
func (t *ClassTable) Lookup(letter rune) (Class, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.byLetter[letter]
	return c, ok
}

// Letters returns the bound letters in ascending order.
func (t *ClassTable) Letters() []rune {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.byLetter))
}

// Len returns the number of bindings.
func (t *ClassTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byLetter)
}

// Clone returns an independent copy of t.
func (t *ClassTable) Clone() *ClassTable {
	out := NewClassTable()
	if t != nil {
		maps.Copy(out.byLetter, t.byLetter)
	}
	return out
}

// IsEscapeLetter reports whether \r is reserved for a class, bound or not.
// Every other escaped rune stands for itself.
func IsEscapeLetter(r rune) bool {
	return isEscapeLetter(r)
}

func isEscapeLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// ValidClassName reports whether s can name a class.
func ValidClassName(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

package token

// Kind represents the category of a lexical unit.
type Kind uint8

const (
	// Invalid marks a unit the lexer could not classify (e.g. a dangling '\').
	Invalid Kind = iota
	// EOF marks the end of the pattern.
	EOF

	// Literal is a plain character.
	Literal
	// Escape is '\' followed by one rune (class marker or escaped literal).
	Escape

	LParen   // (
	RParen   // )
	Pipe     // |
	LBracket // [
	RBracket // ]
	// Dash is '-' inside a character class.
	Dash
	Star     // *
	Plus     // +
	Question // ?
	LBrace   // {
	RBrace   // }
	// Comma separates the bounds of a counted quantifier.
	Comma
	// Number is a run of decimal digits inside a counted quantifier.
	Number
	// CustomClass is a whole `[:NAME:]` (extended syntax only).
	CustomClass
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	Literal:  "Literal",
	Escape:   "Escape",
	LParen:   "LParen",
	RParen:   "RParen",
	Pipe:     "Pipe",
	LBracket: "LBracket",
	RBracket: "RBracket",
	Dash:     "Dash",
	Star:     "Star",
	Plus:     "Plus",
	Question: "Question",
	LBrace:   "LBrace",
	RBrace:   "RBrace",
	Comma:    "Comma",
	Number:   "Number",

	CustomClass: "CustomClass",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

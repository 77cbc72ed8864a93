// Package token defines the lexical units of a bfgex pattern.
// Invariants:
//   - Token.Text is a slice of the original pattern (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Classification is context-sensitive: Dash only appears inside a
//     character class, Number and Comma only inside a counted quantifier.
//     Everywhere else the same runes are Literal.
//   - An escape is a single Escape token covering the backslash and the
//     escaped rune; whether it names a class or a literal is decided by
//     the parser's class table.
package token

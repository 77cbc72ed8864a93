// Package ast defines the parse tree produced by internal/parser.
//
// Node is a closed variant: Literal, Random, Range, CharClass, Quantify,
// Union and Intersection are the only implementations. ClassMember narrows
// it further to Literal and Range, so a Range can only live inside a
// CharClass and a CharClass can only hold literals and ranges.
//
// Shape rules the parser guarantees and Validate checks:
//
//   - Union and Intersection always have at least two children; a single
//     element is stored directly, never wrapped.
//   - CharClass always wraps its members, even a single one.
//   - Range.Low <= Range.High.
//
// Every node renders to the canonical text form via String / Render, reads
// back via ParseCanonical and has a compact msgpack form (MarshalMsgpack).
package ast

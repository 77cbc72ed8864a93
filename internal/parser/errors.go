package parser

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// ErrMalformedPattern matches every parse failure.
var ErrMalformedPattern = errors.New("malformed pattern")

// Kinds of parse failures; match with errors.Is.
var (
	ErrUnexpectedEndOfInput     = errors.New("UnexpectedEndOfInput")
	ErrUnbalancedGroup          = errors.New("UnbalancedGroup")
	ErrUnbalancedCharacterClass = errors.New("UnbalancedCharacterClass")
	ErrUnknownEscapeClass       = errors.New("UnknownEscapeClass")
	ErrInvalidQuantifier        = errors.New("InvalidQuantifier")
	ErrEmptyAlternativeBranch   = errors.New("EmptyAlternativeBranch")
	ErrEmptyCharacterClass      = errors.New("EmptyCharacterClass")
	ErrInvalidRange             = errors.New("InvalidRange")
	ErrInvalidClassName         = errors.New("InvalidClassName")
	ErrInvalidEncoding          = errors.New("InvalidEncoding")
)

var kindByCode = map[diag.Code]error{
	diag.SynUnexpectedEOF:     ErrUnexpectedEndOfInput,
	diag.SynUnbalancedGroup:   ErrUnbalancedGroup,
	diag.SynUnbalancedClass:   ErrUnbalancedCharacterClass,
	diag.SynUnknownEscape:     ErrUnknownEscapeClass,
	diag.SynInvalidQuantifier: ErrInvalidQuantifier,
	diag.SynEmptyBranch:       ErrEmptyAlternativeBranch,
	diag.SynEmptyClass:        ErrEmptyCharacterClass,
	diag.SynInvalidRange:      ErrInvalidRange,
	diag.SynInvalidClassName:  ErrInvalidClassName,
	diag.LexInvalidUTF8:       ErrInvalidEncoding,
}

// Error is the failure of one pattern. Only the first problem is kept.
type Error struct {
	Code    diag.Code
	Span    source.Span // inside the file the pattern came from
	Pattern string
	// Offset is the rune index of Span.Start within Pattern.
	Offset int
	Msg    string
	Notes  []diag.Note
	Fixes  []diag.Fix
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s at offset %d in %q: %s", ErrMalformedPattern, e.Kind(), e.Offset, e.Pattern, e.Msg)
}

// Kind returns the failure kind, e.g. ErrUnbalancedGroup.
func (e *Error) Kind() error {
	if k, ok := kindByCode[e.Code]; ok {
		return k
	}
	return ErrMalformedPattern
}

func (e *Error) Unwrap() []error {
	return []error{ErrMalformedPattern, e.Kind()}
}

// Diagnostic converts e into a diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	d.Notes = e.Notes
	d.Fixes = e.Fixes
	return d
}

func runeOffset(file *source.File, base source.Span, at uint32) int {
	if at <= base.Start {
		return 0
	}
	return utf8.RuneCount(file.Content[base.Start:min(at, base.End)])
}

package diag

import "github.com/alexandresoliveira/bfgex/internal/source"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo carries data for the user, e.g. timings.
	SevInfo Severity = iota
	// SevWarning marks a problem that did not stop the command (cache I/O).
	SevWarning
	// SevError marks a pattern that did not parse or a file that did not load.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Note points at a second location related to the diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces Span with NewText. An empty Span inserts.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Insert returns an edit that inserts text before at.Start.
func Insert(at source.Span, text string) FixEdit {
	at.End = at.Start
	return FixEdit{Span: at, NewText: text}
}

// Fix is one suggested repair; its edits are applied together.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one problem found in a pattern source.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

// WithNote returns d with a note appended; d itself is not modified.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// WithFix returns d with a fix appended; d itself is not modified.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes[:len(d.Fixes):len(d.Fixes)], Fix{Title: title, Edits: edits})
	return d
}

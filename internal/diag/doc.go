// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     such as SYN2002.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages, e.g. where a group was opened.
//   - Fixes – optional text edits, e.g. the ')' that would close a group.
//
// # Emitting diagnostics
//
// The lexer and the parser report through a diag.Reporter and never see the
// storage. BagReporter aggregates into a Bag, which supports a size limit,
// sorting, deduplication and filtering; MultiReporter fans out. The driver
// builds diagnostics directly with NewError / NewWarning and the
// WithNote / WithFix helpers.
//
// Package diag does no formatting beyond the single-line golden form;
// rendering lives in internal/diagfmt.
package diag

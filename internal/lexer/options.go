package lexer

import (
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

type Options struct {
	// Reporter may be nil: problems are then dropped, lexing continues.
	Reporter diag.Reporter
	// Extended classifies '?' as a quantifier instead of a literal and
	// reads `[:NAME:]` as one CustomClass token.
	Extended bool
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

package parser

import (
	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/trace"
)

type Flags uint8

const (
	// FlagExtended accepts '?', '*?', '+?' and `[:NAME:]`.
	FlagExtended Flags = 1 << iota
)

type Options struct {
	// Classes maps \x escapes to classes; nil means ast.DefaultClasses.
	Classes *ast.ClassTable
	Flags   Flags
	// Reporter receives the failure as a diagnostic. May be nil.
	Reporter diag.Reporter
	// Tracer receives grammar rule spans at trace.LevelDebug. May be nil.
	Tracer trace.Tracer
}

func (o Options) extended() bool {
	return o.Flags&FlagExtended != 0
}

package main

import (
	"fmt"
	"io"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/diagfmt"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// printDiagnostics writes bag to w in the pretty format. Quiet mode drops
// notes and fix suggestions but keeps the diagnostics themselves.
func printDiagnostics(w io.Writer, s *settings, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:       s.color.enabled(w),
		Context:     1,
		PathMode:    diagfmt.PathModeAuto,
		ShowNotes:   !s.quiet,
		ShowFixes:   !s.quiet,
		ShowPreview: !s.quiet,
	})
}

// writeDiagnostics renders bag in one of the check output formats.
func writeDiagnostics(w io.Writer, format string, s *settings, bag *diag.Bag, fs *source.FileSet) error {
	switch format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "short":
		text := diag.FormatShortDiagnostics(bag.Items(), fs, false)
		if text == "" {
			return nil
		}
		_, err := io.WriteString(w, text+"\n")
		return err
	case "pretty":
		printDiagnostics(w, s, bag, fs)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

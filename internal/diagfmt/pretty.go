package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

type palette struct {
	errorSev *color.Color
	warnSev  *color.Color
	infoSev  *color.Color
	code     *color.Color
	path     *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
	fix      *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		// глобальный color.NoColor не учитываем: решение уже принято вызывающим
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		errorSev: mk(color.FgRed, color.Bold),
		warnSev:  mk(color.FgYellow, color.Bold),
		infoSev:  mk(color.FgCyan, color.Bold),
		code:     mk(color.Bold),
		path:     mk(color.FgWhite, color.Bold),
		gutter:   mk(color.FgBlue),
		caret:    mk(color.FgRed, color.Bold),
		note:     mk(color.FgCyan),
		fix:      mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.errorSev
	case diag.SevWarning:
		return p.warnSev
	default:
		return p.infoSev
	}
}

// Pretty prints diagnostics in a human-readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	 1 | a(b
//	   |  ^
//	  note: <path>:<line>:<col>: <message>
//	  fix #1: <title>
//
// Columns count runes; the caret line is aligned by display width so that
// wide runes and tabs keep the marker under the offending character.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", formatPath(file, fs, opts.PathMode), start.Line, start.Col)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeContext(w, file, start, end, opts.Context, p)

	// timings всегда печатаются с заметками, иначе сообщение пустое
	if (opts.ShowNotes || d.Code == diag.ObsTimings) && len(d.Notes) > 0 {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			ns, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s\n", p.fix.Sprintf("fix #%d: %s", i+1, fix.Title))
			for _, edit := range fix.Edits {
				ef := fs.Get(edit.Span.File)
				es, _ := fs.Resolve(edit.Span)
				fmt.Fprintf(w, "    - %s:%d:%d: apply=%q\n", formatPath(ef, fs, opts.PathMode), es.Line, es.Col, edit.NewText)
				if opts.ShowPreview {
					writePreview(w, ef, es, edit)
				}
			}
		}
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	return f.FormatPath(mode.mode(), fs.BaseDir())
}

func writeContext(w io.Writer, file *source.File, start, end source.LineCol, context int8, p palette) {
	if start.Line == 0 {
		return
	}
	extra, err := safecast.Conv[uint32](context)
	if err != nil {
		extra = 0
	}
	total, err := safecast.Conv[uint32](len(file.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}

	first := uint32(1)
	if start.Line > extra {
		first = start.Line - extra
	}
	last := min(start.Line+extra, total)
	width := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(ln)
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
		if ln == start.Line {
			fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*s |", width, ""), p.caret.Sprint(underline(text, start, end)))
		}
	}
}

// underline builds "   ^~~" under line for the columns [start.Col, end.Col).
// An empty span still gets a single caret.
func underline(line string, start, end source.LineCol) string {
	stop := end.Col
	if end.Line != start.Line {
		stop = ^uint32(0)
	}
	var sb strings.Builder
	width := 0
	col := uint32(1)
	for _, r := range line {
		switch {
		case col < start.Col:
			if r == '\t' {
				sb.WriteByte('\t')
			} else {
				sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
			}
		case col < stop:
			width += max(runewidth.RuneWidth(r), 1)
		}
		col++
	}
	sb.WriteByte('^')
	if width > 1 {
		sb.WriteString(strings.Repeat("~", width-1))
	}
	return sb.String()
}

func writePreview(w io.Writer, file *source.File, at source.LineCol, edit diag.FixEdit) {
	before := file.GetLine(at.Line)
	lineStart := lineStartOffset(file, at.Line)
	if edit.Span.Start < lineStart {
		return
	}
	lo := int(edit.Span.Start - lineStart)
	hi := int(edit.Span.End - lineStart)
	if lo > len(before) {
		return
	}
	hi = min(max(hi, lo), len(before))
	after := before[:lo] + edit.NewText + before[hi:]
	fmt.Fprintf(w, "      preview:\n        - %s\n        + %s\n", before, after)
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := int(line - 2)
	if idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return f.Span().End
}

package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alexandresoliveira/bfgex/internal/source"
)

// flatLine is one rendered row of the short/golden format.
type flatLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

func (l flatLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

func compareFlat(a, b flatLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set), sorted by position. Paths are reduced to base names so
// golden files do not depend on the checkout location.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return flatten(diags, fs, includeNotes, "basename")
}

// FormatShortDiagnostics is the `--format short` output: like the golden form
// but with paths relative to the file set base directory.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return flatten(diags, fs, includeNotes, "relative")
}

func flatten(diags []Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) string {
	if fs == nil {
		return ""
	}
	var lines []flatLine
	add := func(sev string, code Code, sp source.Span, msg string) {
		if int(sp.File) >= fs.Len() {
			return
		}
		start, _ := fs.Resolve(sp)
		path := filepath.ToSlash(fs.Get(sp.File).FormatPath(pathMode, fs.BaseDir()))
		for strings.HasPrefix(path, "./") {
			path = path[2:]
		}
		lines = append(lines, flatLine{
			sev: sev, code: code.ID(), path: path,
			line: start.Line, col: start.Col,
			msg: strings.Join(strings.Fields(msg), " "),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code, n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(lines, compareFlat)

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

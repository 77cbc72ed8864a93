package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.Add("/home/user/project/pats/test.pat", []byte("a(b\n"), 0)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.SynUnbalancedGroup,
		source.Span{File: fileID, Start: 1, End: 2},
		"'(' is never closed",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/pats/test.pat:1:2"},
		{name: "Relative path", mode: PathModeRelative, contains: "pats/test.pat:1:2"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.pat:1:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SYN2002") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyGolden(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pat", []byte("a(b\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(
		diag.SynUnbalancedGroup,
		source.Span{File: fileID, Start: 1, End: 2},
		"'(' is never closed",
	))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "test.pat:1:2: ERROR SYN2002: '(' is never closed\n" +
		" 1 | a(b\n" +
		"   |  ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("ctx.pat", []byte("abc\n[a-\nxyz\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(
		diag.SynUnbalancedClass,
		source.Span{File: fileID, Start: 4, End: 5},
		"'[' is never closed",
	))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	output := buf.String()

	for _, want := range []string{"ctx.pat:2:1", " 1 | abc", " 2 | [a-", "   | ^", " 3 | xyz"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		start, end source.LineCol
		want       string
	}{
		{"single", "abc", source.LineCol{Line: 1, Col: 2}, source.LineCol{Line: 1, Col: 3}, " ^"},
		{"wide", "abc", source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 4}, "^~~"},
		{"empty at end", "abc", source.LineCol{Line: 1, Col: 4}, source.LineCol{Line: 1, Col: 4}, "   ^"},
		{"tab kept", "\tx", source.LineCol{Line: 1, Col: 2}, source.LineCol{Line: 1, Col: 3}, "\t^"},
		// широкий символ занимает две колонки терминала
		{"east asian", "\u4e16x", source.LineCol{Line: 1, Col: 2}, source.LineCol{Line: 1, Col: 3}, "  ^"},
		{"east asian underlined", "\u4e16x", source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 2}, "^~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underline(tt.line, tt.start, tt.end); got != tt.want {
				t.Fatalf("underline(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pat", []byte("a(b"))

	bag := diag.NewBag(4)
	d := diag.NewError(diag.SynUnbalancedGroup, source.Span{File: fileID, Start: 1, End: 2}, "'(' is never closed").
		WithNote(source.Span{File: fileID, Start: 3, End: 3}, "pattern ends here").
		WithFix("insert ')'", diag.FixEdit{Span: source.Span{File: fileID, Start: 3, End: 3}, NewText: ")"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"note: test.pat:1:4: pattern ends here",
		"fix #1: insert ')'",
		`apply=")"`,
		"preview:",
		"- a(b",
		"+ a(b)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestPrettyHidesNotesByDefault(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pat", []byte("a(b"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SynUnbalancedGroup, source.Span{File: fileID, Start: 1, End: 2}, "'(' is never closed").
		WithNote(source.Span{File: fileID, Start: 3, End: 3}, "pattern ends here"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes must be hidden without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pat", []byte("\\q"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SynUnknownEscape, source.Span{File: fileID, Start: 0, End: 2}, "unknown escape class '\\q'"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output contains escape sequences: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escape sequences: %q", colored.String())
	}
}

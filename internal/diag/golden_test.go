package diag

import (
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.pat", []byte("a(\n[b\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnbalancedGroup,
			Message:  "group opened here\nis never closed",
			Primary:  source.Span{File: userFile, Start: 1, End: 2},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 3, End: 4}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SynUnbalancedClass,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 3, End: 4},
		},
	}

	expected := "error SYN2002 sample.pat:1:2 group opened here is never closed\n" +
		"note SYN2002 sample.pat:2:1 note line\n" +
		"warning SYN2003 sample.pat:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	short := FormatShortDiagnostics(diags, fs, false)
	want := "error SYN2002 testdata/golden/sample.pat:1:2 group opened here is never closed\n" +
		"warning SYN2003 testdata/golden/sample.pat:2:1 another"
	if short != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, short)
	}
}

func TestFormatVirtualFileKeepsName(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddPattern("<arg>", "a|")
	diags := []Diagnostic{NewError(SynEmptyBranch, source.Span{File: id, Start: 2, End: 2}, "empty branch")}
	if got := FormatShortDiagnostics(diags, fs, false); got != "error SYN2006 <arg>:1:3 empty branch" {
		t.Fatalf("got %q", got)
	}
}

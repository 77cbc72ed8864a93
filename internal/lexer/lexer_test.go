package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/lexer"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func makeTestLexer(input string, extended bool) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddPattern("test.pat", input))

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter, Extended: extended})
	return lx, reporter
}

// summary renders tokens as "Kind:text" joined by spaces, EOF omitted.
func summary(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		parts = append(parts, fmt.Sprintf("%s:%s", tok.Kind, tok.Text))
	}
	return strings.Join(parts, " ")
}

func TestLexerClassification(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		extended bool
		want     string
	}{
		{"literal", "x", false, "Literal:x"},
		{"star", "a*", false, "Literal:a Star:*"},
		{"group_alt", "(\\w{5,6})|(\\d{4})", false,
			"LParen:( Escape:\\w LBrace:{ Number:5 Comma:, Number:6 RBrace:} RParen:) Pipe:| " +
				"LParen:( Escape:\\d LBrace:{ Number:4 RBrace:} RParen:)"},
		{"class_range", "[a-f]{3}", false,
			"LBracket:[ Literal:a Dash:- Literal:f RBracket:] LBrace:{ Number:3 RBrace:}"},
		{"class_mixed", "[HAL0-9]", false,
			"LBracket:[ Literal:H Literal:A Literal:L Literal:0 Dash:- Literal:9 RBracket:]"},
		{"trailing_dash", "[a-]", false, "LBracket:[ Literal:a Literal:- RBracket:]"},
		{"leading_dash", "[-a]", false, "LBracket:[ Literal:- Literal:a RBracket:]"},
		{"dash_after_range", "[a-c-e]", false,
			"LBracket:[ Literal:a Dash:- Literal:c Literal:- Literal:e RBracket:]"},
		{"dash_outside_class", "a-b", false, "Literal:a Literal:- Literal:b"},
		{"digits_outside_braces", "a12,", false, "Literal:a Literal:1 Literal:2 Literal:,"},
		{"stray_closers", "]}", false, "Literal:] Literal:}"},
		{"question_core", "a?", false, "Literal:a Literal:?"},
		{"question_extended", "a?", true, "Literal:a Question:?"},
		{"escaped_paren", "\\(", false, "Escape:\\("},
		{"brace_then_letter", "a{x}", false, "Literal:a LBrace:{ Literal:x Literal:}"},
		{"escape_in_class", "[\\]a]", false, "LBracket:[ Escape:\\] Literal:a RBracket:]"},
		{"unicode", "\u00e9+", false, "Literal:\u00e9 Plus:+"},
		{"custom_class", "[:HEX:]+", true, "CustomClass:[:HEX:] Plus:+"},
		{"custom_class_core", "[:A:]", false, "LBracket:[ Literal:: Literal:A Literal:: RBracket:]"},
		{"colon_member", "[:a]", true, "LBracket:[ Literal:: Literal:a RBracket:]"},
		{"single_colon", "[:]", true, "LBracket:[ Literal:: RBracket:]"},
		{"custom_class_unclosed", "[:A:", true, "LBracket:[ Literal:: Literal:A Literal::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.input, tt.extended)
			if got := summary(lx.All()); got != tt.want {
				t.Errorf("tokens mismatch\n got: %s\nwant: %s", got, tt.want)
			}
			if len(rep.diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", rep.diagnostics)
			}
		})
	}
}

func TestLexerDanglingEscape(t *testing.T) {
	lx, rep := makeTestLexer("ab\\", false)
	toks := lx.All()
	if got := summary(toks); got != "Literal:a Literal:b Invalid:\\" {
		t.Errorf("tokens = %s", got)
	}
	if len(rep.diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(rep.diagnostics))
	}
	d := rep.diagnostics[0]
	if d.Code != diag.LexDanglingEscape || d.Primary.Start != 2 || d.Primary.End != 3 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("a", false)
	lx.Next()
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("Next() after end = %v, want EOF", tok.Kind)
		}
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("(a", false)
	if lx.Peek().Kind != token.LParen {
		t.Fatal("Peek() should see LParen")
	}
	if tok := lx.Next(); tok.Kind != token.LParen {
		t.Fatalf("Next() after Peek = %v, want LParen", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Literal || tok.Span.Start != 1 {
		t.Fatalf("second token = %+v", tok)
	}
}

func TestLexerSpanOfLine(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("p.txt", []byte("a*\n[b-c]\n")))
	lx := lexer.NewSpan(file, file.Patterns()[1], lexer.Options{})
	toks := lx.All()
	if got := summary(toks); got != "LBracket:[ Literal:b Dash:- Literal:c RBracket:]" {
		t.Errorf("tokens = %s", got)
	}
	if toks[0].Span.Start != 3 {
		t.Errorf("first span starts at %d, want 3", toks[0].Span.Start)
	}
}

func TestLexerInvalidUTF8(t *testing.T) {
	lx, rep := makeTestLexer("a\xff[\xfe]\\\xfd", false)
	toks := lx.All()
	// каждый битый байт становится отдельным Invalid токеном
	want := "Literal:a Invalid:\xff LBracket:[ Invalid:\xfe RBracket:] Invalid:\\\xfd"
	if got := summary(toks); got != want {
		t.Errorf("tokens mismatch\n got: %q\nwant: %q", got, want)
	}
	if len(rep.diagnostics) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(rep.diagnostics))
	}
	spans := [][2]uint32{{1, 2}, {3, 4}, {5, 7}}
	for i, d := range rep.diagnostics {
		if d.Code != diag.LexInvalidUTF8 || d.Primary.Start != spans[i][0] || d.Primary.End != spans[i][1] {
			t.Errorf("diagnostic %d = %+v, want LEX1002 at %v", i, d, spans[i])
		}
	}
}

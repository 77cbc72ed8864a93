package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

// CheckTree runs the tree shape rules and checks that rendering is stable
// and reads back to the same text.
func CheckTree(n ast.Node) error {
	if err := ast.Validate(n); err != nil {
		return err
	}
	text := ast.Render(n)
	if again := ast.Render(n); again != text {
		return fmt.Errorf("rendering is not deterministic: %q vs %q", text, again)
	}
	back, err := ast.ParseCanonical(text)
	if err != nil {
		return fmt.Errorf("canonical text %q does not read back: %w", text, err)
	}
	if got := ast.Render(back); got != text {
		return fmt.Errorf("canonical round trip changed %q into %q", text, got)
	}
	return nil
}

// CheckTokenSpans runs span invariants on a token stream lexed from sp:
// 1) the stream ends with exactly one EOF
// 2) every non-EOF token is non-empty and lies inside sp
// 3) tokens are contiguous: each starts where the previous one ended
// 4) Text matches the file content under Span
func CheckTokenSpans(toks []token.Token, sf *source.File, sp source.Span) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("pattern span end beyond content: %d > %d", sp.End, lenContent)
	}

	pos := sp.Start
	for i, tok := range toks {
		if tok.Span.File != sf.ID {
			return fmt.Errorf("token %d span file mismatch: got=%d want=%d", i, tok.Span.File, sf.ID)
		}
		if tok.Kind == token.EOF {
			if i != len(toks)-1 {
				return fmt.Errorf("EOF at %d before the end of the stream", i)
			}
			if tok.Span.Start != sp.End {
				return fmt.Errorf("EOF at %d, want %d", tok.Span.Start, sp.End)
			}
			break
		}
		if tok.Span.Empty() {
			return fmt.Errorf("token %d (%s) is empty", i, tok.Kind)
		}
		if tok.Span.Start != pos {
			return fmt.Errorf("token %d starts at %d, want %d", i, tok.Span.Start, pos)
		}
		if tok.Span.End > sp.End {
			return fmt.Errorf("token %d span %v is outside pattern span %v", i, tok.Span, sp)
		}
		if got := sf.Text(tok.Span); got != tok.Text {
			return fmt.Errorf("token %d text %q, content %q", i, tok.Text, got)
		}
		pos = tok.Span.End
	}
	return nil
}

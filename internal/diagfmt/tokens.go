package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

// TokenOutput is one token of `bfgex tokenize --format json`.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
	Col  uint32      `json:"col,omitempty"`
}

// untilEOF returns tokens up to and including the first EOF.
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

// FormatTokensPretty prints one numbered token per line with its text and range.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		text := ""
		if tok.Text != "" {
			text = fmt.Sprintf(" %-6q", tok.Text)
		}
		_, err := fmt.Fprintf(w, "%3d: %-10s%s at %d:%d-%d:%d\n",
			i+1, tok.Kind, text, start.Line, start.Col, end.Line, end.Col)
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
// fs may be nil; columns are left out then.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	tokens = untilEOF(tokens)
	out := make([]TokenOutput, len(tokens))
	for i, tok := range tokens {
		out[i] = TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span}
		if fs != nil {
			start, _ := fs.Resolve(tok.Span)
			out[i].Col = start.Col
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

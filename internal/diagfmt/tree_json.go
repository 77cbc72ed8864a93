package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

// QuantifierJSON описывает квантификатор; Low/High заданы только для счётных форм.
type QuantifierJSON struct {
	Text string `json:"text"`
	Low  *int32 `json:"low,omitempty"`
	High *int32 `json:"high,omitempty"`
	Lazy bool   `json:"lazy,omitempty"`
}

// TreeNodeJSON представляет узел дерева в JSON
type TreeNodeJSON struct {
	Kind       string          `json:"kind"`
	Char       string          `json:"char,omitempty"`
	Class      string          `json:"class,omitempty"`
	Quantifier *QuantifierJSON `json:"quantifier,omitempty"`
	Children   []*TreeNodeJSON `json:"children,omitempty"`
}

// TreeOutput is the root object written by FormatTreeJSON.
type TreeOutput struct {
	Pattern   string        `json:"pattern"`
	Canonical string        `json:"canonical"`
	Tree      *TreeNodeJSON `json:"tree"`
}

// BuildTreeJSON converts n; a nil tree yields nil.
func BuildTreeJSON(n ast.Node) *TreeNodeJSON {
	if n == nil {
		return nil
	}
	out := &TreeNodeJSON{Kind: n.Kind().String()}
	switch n := n.(type) {
	case ast.Literal:
		out.Char = string(n.Char)
	case ast.Random:
		out.Class = string(n.Class)
	case ast.Quantify:
		out.Quantifier = buildQuantifierJSON(n.Q)
	}
	for _, child := range ast.Children(n) {
		out.Children = append(out.Children, BuildTreeJSON(child))
	}
	return out
}

func buildQuantifierJSON(q ast.Quantifier) *QuantifierJSON {
	out := &QuantifierJSON{Text: q.String()}
	switch q.Kind {
	case ast.QuantExact, ast.QuantBounded:
		low, high := q.Low, q.High
		out.Low, out.High = &low, &high
	case ast.QuantLazyStar, ast.QuantLazyPlus:
		out.Lazy = true
	}
	return out
}

// FormatTreeJSON writes the pattern, its canonical rendering and the tree as indented JSON.
func FormatTreeJSON(w io.Writer, pattern string, n ast.Node) error {
	output := TreeOutput{
		Pattern:   pattern,
		Canonical: ast.Render(n),
		Tree:      BuildTreeJSON(n),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

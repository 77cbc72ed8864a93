package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

func sampleTree() ast.Node {
	return ast.Union{Nodes: []ast.Node{
		ast.Literal{Char: 'a'},
		ast.Quantify{Child: ast.Random{Class: ast.ClassWord}, Q: ast.Star},
	}}
}

func TestFormatTree(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTree(&buf, sampleTree()); err != nil {
		t.Fatalf("FormatTree: %v", err)
	}
	want := strings.Join([]string{
		"          UNION",
		"     /      |      \\",
		"LITERAL 'a'   QUANTIFY *",
		"                   |",
		"              RANDOM WORD",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTreeLeafAndEmpty(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"empty", nil, "(empty)\n"},
		{"literal", ast.Literal{Char: 'x'}, "LITERAL 'x'\n"},
		{"class", ast.CharClass{Members: []ast.ClassMember{
			ast.Range{Low: ast.Literal{Char: 'a'}, High: ast.Literal{Char: 'z'}},
		}}, "  CHARCLASS\n      |\nRANGE 'a'-'z'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FormatTree(&buf, tt.node); err != nil {
				t.Fatalf("FormatTree: %v", err)
			}
			if buf.String() != tt.want {
				t.Fatalf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRenderTreeWidths(t *testing.T) {
	// строки одного блока должны иметь одинаковую ширину
	block := renderTree(buildTreeNode(ast.Intersection{Nodes: []ast.Node{
		ast.Literal{Char: '\u00e9'},
		ast.Union{Nodes: []ast.Node{ast.Literal{Char: 'b'}, ast.Literal{Char: 'c'}}},
		ast.Quantify{Child: ast.Literal{Char: 'd'}, Q: ast.Bounded(2, 4)},
	}}))
	for i, line := range block.lines {
		if w := runewidth.StringWidth(line); w != block.width {
			t.Errorf("line %d width %d, want %d: %q", i, w, block.width, line)
		}
	}
	if block.root < 0 || block.root >= block.width {
		t.Fatalf("root %d outside block width %d", block.root, block.width)
	}
}

func TestFormatTreeJSON(t *testing.T) {
	tree := ast.Union{Nodes: []ast.Node{
		ast.Quantify{Child: ast.Literal{Char: 'a'}, Q: ast.Bounded(2, 4)},
		ast.Quantify{Child: ast.Random{Class: ast.ClassDigit}, Q: ast.LazyPlus},
	}}

	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, `a{2,4}\d+?`, tree); err != nil {
		t.Fatalf("FormatTreeJSON: %v", err)
	}

	var out TreeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Canonical != tree.String() {
		t.Errorf("canonical = %q, want %q", out.Canonical, tree.String())
	}
	if out.Tree == nil || out.Tree.Kind != "UNION" || len(out.Tree.Children) != 2 {
		t.Fatalf("unexpected root: %+v", out.Tree)
	}
	bounded := out.Tree.Children[0].Quantifier
	if bounded == nil || bounded.Low == nil || *bounded.Low != 2 || *bounded.High != 4 || bounded.Text != "Range[2,4]" {
		t.Errorf("unexpected bounded quantifier: %+v", bounded)
	}
	lazy := out.Tree.Children[1]
	if lazy.Quantifier == nil || !lazy.Quantifier.Lazy || lazy.Quantifier.Low != nil {
		t.Errorf("unexpected lazy quantifier: %+v", lazy.Quantifier)
	}
	if lazy.Children[0].Class != "DIGIT" {
		t.Errorf("unexpected class: %+v", lazy.Children[0])
	}
}

func TestFormatTreeJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, "", nil); err != nil {
		t.Fatalf("FormatTreeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"tree": null`) {
		t.Fatalf("expected null tree, got %s", buf.String())
	}
}

package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatTree draws n as an ASCII tree, root on top. For `a\w*`:
//
//	          UNION
//	     /      |      \
//	LITERAL 'a'   QUANTIFY *
//	                   |
//	              RANDOM WORD
//
// An empty pattern (nil tree) is written as "(empty)".
func FormatTree(w io.Writer, n ast.Node) error {
	if n == nil {
		_, err := io.WriteString(w, "(empty)\n")
		return err
	}
	block := renderTree(buildTreeNode(n))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildTreeNode(n ast.Node) *treeNode {
	switch n := n.(type) {
	case ast.Literal:
		return &treeNode{label: "LITERAL " + strconv.QuoteRune(n.Char)}
	case ast.Random:
		return &treeNode{label: "RANDOM " + string(n.Class)}
	case ast.Range:
		return &treeNode{label: fmt.Sprintf("RANGE %s-%s", strconv.QuoteRune(n.Low.Char), strconv.QuoteRune(n.High.Char))}
	case ast.Quantify:
		return &treeNode{
			label:    "QUANTIFY " + n.Q.String(),
			children: []*treeNode{buildTreeNode(n.Child)},
		}
	}
	node := &treeNode{label: n.Kind().String()}
	for _, child := range ast.Children(n) {
		node.children = append(node.children, buildTreeNode(child))
	}
	return node
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// Widths are display widths, so labels holding wide runes stay aligned.
// root is the column of the node's vertical connector within the block.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := runewidth.FillRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(runewidth.FillRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		childLines[row] = runewidth.FillRight(sb.String(), width)
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, string(connector))
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}

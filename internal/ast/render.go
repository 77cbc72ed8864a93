package ast

import "strings"

// Render returns the canonical text of n; nil renders as "".
func Render(n Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	sb.WriteByte('(')
	sb.WriteString(n.Kind().String())
	switch n := n.(type) {
	case Literal:
		sb.WriteByte(',')
		sb.WriteRune(n.Char)
	case Random:
		sb.WriteByte(',')
		sb.WriteString(string(n.Class))
	case Quantify:
		sb.WriteByte(',')
		render(sb, n.Child)
		sb.WriteByte(',')
		sb.WriteString(n.Q.String())
	default:
		for _, c := range Children(n) {
			sb.WriteByte(',')
			render(sb, c)
		}
	}
	sb.WriteByte(')')
}

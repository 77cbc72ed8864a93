package ast

// Kind is the tag of a Node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLiteral
	KindRandom
	KindRange
	KindCharClass
	KindQuantify
	KindUnion
	KindIntersection
)

var kindNames = [...]string{
	KindInvalid:      "INVALID",
	KindLiteral:      "LITERAL",
	KindRandom:       "RANDOM",
	KindRange:        "RANGE",
	KindCharClass:    "CHARCLASS",
	KindQuantify:     "QUANTIFY",
	KindUnion:        "UNION",
	KindIntersection: "INTERSECTION",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Node is one element of a parse tree.
type Node interface {
	Kind() Kind
	String() string
	node()
}

// ClassMember is a Node allowed inside a CharClass.
type ClassMember interface {
	Node
	classMember()
}

// Literal is one character.
type Literal struct {
	Char rune
}

// Random stands for any character of a named class (\w, \d, ...).
type Random struct {
	Class Class
}

// Range is an inclusive character range inside a CharClass.
type Range struct {
	Low, High Literal
}

// CharClass picks one of its members.
type CharClass struct {
	Members []ClassMember
}

// Quantify repeats Child according to Q.
type Quantify struct {
	Child Node
	Q     Quantifier
}

// Union is a concatenation of two or more nodes.
type Union struct {
	Nodes []Node
}

// Intersection is an alternation of two or more nodes.
type Intersection struct {
	Nodes []Node
}

func (Literal) Kind() Kind      { return KindLiteral }
func (Random) Kind() Kind       { return KindRandom }
func (Range) Kind() Kind        { return KindRange }
func (CharClass) Kind() Kind    { return KindCharClass }
func (Quantify) Kind() Kind     { return KindQuantify }
func (Union) Kind() Kind        { return KindUnion }
func (Intersection) Kind() Kind { return KindIntersection }

func (Literal) node()      {}
func (Random) node()       {}
func (Range) node()        {}
func (CharClass) node()    {}
func (Quantify) node()     {}
func (Union) node()        {}
func (Intersection) node() {}

func (Literal) classMember() {}
func (Range) classMember()   {}

func (n Literal) String() string      { return Render(n) }
func (n Random) String() string       { return Render(n) }
func (n Range) String() string        { return Render(n) }
func (n CharClass) String() string    { return Render(n) }
func (n Quantify) String() string     { return Render(n) }
func (n Union) String() string        { return Render(n) }
func (n Intersection) String() string { return Render(n) }

// Children returns the direct children of n in order.
// Leaves return nil.
func Children(n Node) []Node {
	switch n := n.(type) {
	case Range:
		return []Node{n.Low, n.High}
	case CharClass:
		out := make([]Node, len(n.Members))
		for i, m := range n.Members {
			out[i] = m
		}
		return out
	case Quantify:
		return []Node{n.Child}
	case Union:
		return n.Nodes
	case Intersection:
		return n.Nodes
	}
	return nil
}

// Walk calls fn for n and its descendants in pre-order.
// Returning false from fn skips the children of that node.
func Walk(n Node, fn func(Node, int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range Children(n) {
		walk(c, depth+1, fn)
	}
}

// Seq builds the node for a concatenation: nil for none, the element itself
// for one, a Union otherwise.
func Seq(nodes []Node) Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return Union{Nodes: nodes}
}

// Alt is Seq for alternation.
func Alt(nodes []Node) Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return Intersection{Nodes: nodes}
}

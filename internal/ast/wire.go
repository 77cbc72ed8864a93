package ast

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// wireSchema is bumped whenever wireNode changes shape.
const wireSchema uint8 = 1

type wireTree struct {
	Schema uint8     `msgpack:"v"`
	Root   *wireNode `msgpack:"r"`
}

// wireNode is the flat record every node kind maps onto.
type wireNode struct {
	Kind  Kind        `msgpack:"k"`
	Char  int32       `msgpack:"c,omitempty"`
	Class string      `msgpack:"s,omitempty"`
	QKind QuantKind   `msgpack:"q,omitempty"`
	Low   int32       `msgpack:"l,omitempty"`
	High  int32       `msgpack:"h,omitempty"`
	Nodes []*wireNode `msgpack:"n,omitempty"`
}

// MarshalMsgpack encodes n (possibly nil) into msgpack.
func MarshalMsgpack(n Node) ([]byte, error) {
	return msgpack.Marshal(&wireTree{Schema: wireSchema, Root: toWire(n)})
}

// UnmarshalMsgpack decodes a tree written by MarshalMsgpack and validates it.
func UnmarshalMsgpack(b []byte) (Node, error) {
	var t wireTree
	if err := msgpack.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if t.Schema != wireSchema {
		return nil, fmt.Errorf("decode tree: schema %d, want %d", t.Schema, wireSchema)
	}
	if t.Root == nil {
		return nil, nil
	}
	n, err := fromWire(t.Root)
	if err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if err := Validate(n); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return n, nil
}

func toWire(n Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{Kind: n.Kind()}
	switch n := n.(type) {
	case Literal:
		w.Char = n.Char
	case Random:
		w.Class = string(n.Class)
	case Quantify:
		w.QKind = n.Q.Kind
		w.Low, w.High = n.Q.Low, n.Q.High
	}
	for _, c := range Children(n) {
		w.Nodes = append(w.Nodes, toWire(c))
	}
	return w
}

var errBadWire = errors.New("malformed node")

func fromWire(w *wireNode) (Node, error) {
	if w == nil {
		return nil, errBadWire
	}
	children := make([]Node, 0, len(w.Nodes))
	for _, c := range w.Nodes {
		n, err := fromWire(c)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	switch w.Kind {
	case KindLiteral:
		return Literal{Char: w.Char}, nil
	case KindRandom:
		return Random{Class: Class(w.Class)}, nil
	case KindRange:
		if len(children) != 2 {
			return nil, fmt.Errorf("%w: RANGE with %d children", errBadWire, len(children))
		}
		lo, okLo := children[0].(Literal)
		hi, okHi := children[1].(Literal)
		if !okLo || !okHi {
			return nil, fmt.Errorf("%w: RANGE over non-literals", errBadWire)
		}
		return Range{Low: lo, High: hi}, nil
	case KindCharClass:
		members := make([]ClassMember, 0, len(children))
		for _, c := range children {
			m, ok := c.(ClassMember)
			if !ok {
				return nil, fmt.Errorf("%w: CHARCLASS holds %s", errBadWire, c.Kind())
			}
			members = append(members, m)
		}
		return CharClass{Members: members}, nil
	case KindQuantify:
		if len(children) != 1 {
			return nil, fmt.Errorf("%w: QUANTIFY with %d children", errBadWire, len(children))
		}
		return Quantify{Child: children[0], Q: Quantifier{Kind: w.QKind, Low: w.Low, High: w.High}}, nil
	case KindUnion:
		return Union{Nodes: children}, nil
	case KindIntersection:
		return Intersection{Nodes: children}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %d", errBadWire, uint8(w.Kind))
}

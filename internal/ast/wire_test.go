package ast

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestMsgpackRoundTrip(t *testing.T) {
	trees := []Node{
		nil,
		lit('x'),
		Quantify{Child: Random{Class: ClassWord}, Q: Bounded(5, 6)},
		Intersection{Nodes: []Node{
			Quantify{Child: Random{Class: ClassWord}, Q: Bounded(5, 6)},
			Quantify{Child: Random{Class: ClassDigit}, Q: Exact(4)},
		}},
		Union{Nodes: []Node{
			CharClass{Members: []ClassMember{lit('H'), Range{Low: lit('0'), High: lit('9')}}},
			Quantify{Child: lit('-'), Q: LazyStar},
		}},
	}
	for _, tree := range trees {
		t.Run(Render(tree), func(t *testing.T) {
			b, err := MarshalMsgpack(tree)
			if err != nil {
				t.Fatalf("MarshalMsgpack: %v", err)
			}
			got, err := UnmarshalMsgpack(b)
			if err != nil {
				t.Fatalf("UnmarshalMsgpack: %v", err)
			}
			if !reflect.DeepEqual(got, tree) {
				t.Errorf("round trip = %#v, want %#v", got, tree)
			}
		})
	}
}

func TestMsgpackRejectsBadTrees(t *testing.T) {
	encode := func(tree wireTree) []byte {
		b, err := msgpack.Marshal(&tree)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	if _, err := UnmarshalMsgpack(encode(wireTree{Schema: 99})); err == nil {
		t.Error("schema mismatch accepted")
	}

	singleton := wireTree{Schema: wireSchema, Root: &wireNode{Kind: KindUnion, Nodes: []*wireNode{{Kind: KindLiteral, Char: 'a'}}}}
	if _, err := UnmarshalMsgpack(encode(singleton)); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("singleton union: err = %v, want ErrInvalidTree", err)
	}

	badRange := wireTree{Schema: wireSchema, Root: &wireNode{Kind: KindCharClass, Nodes: []*wireNode{
		{Kind: KindRange, Nodes: []*wireNode{{Kind: KindRandom, Class: "WORD"}, {Kind: KindLiteral, Char: 'z'}}},
	}}}
	if _, err := UnmarshalMsgpack(encode(badRange)); !errors.Is(err, errBadWire) {
		t.Errorf("range over random: err = %v, want errBadWire", err)
	}

	strayBounds := wireTree{Schema: wireSchema, Root: &wireNode{Kind: KindQuantify, QKind: QuantPlus, Low: 2, High: 7,
		Nodes: []*wireNode{{Kind: KindLiteral, Char: 'a'}}}}
	if _, err := UnmarshalMsgpack(encode(strayBounds)); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("plus with bounds: err = %v, want ErrInvalidTree", err)
	}

	if _, err := UnmarshalMsgpack([]byte{0xc1}); err == nil {
		t.Error("garbage accepted")
	}
}

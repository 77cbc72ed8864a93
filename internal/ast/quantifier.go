package ast

import (
	"fmt"
	"strconv"
)

// QuantKind is the kind of a Quantifier.
type QuantKind uint8

const (
	QuantStar QuantKind = iota + 1
	QuantPlus
	QuantExact
	QuantBounded
	// extended syntax only
	QuantOptional
	QuantLazyStar
	QuantLazyPlus
)

// Quantifier describes how many times a Quantify child repeats.
// Low and High are meaningful for QuantExact (Low == High) and QuantBounded
// and must stay zero for every other kind; Valid enforces both. Build values
// with Exact, Bounded or the named vars below.
type Quantifier struct {
	Kind      QuantKind
	Low, High int32
}

var (
	Star     = Quantifier{Kind: QuantStar}
	Plus     = Quantifier{Kind: QuantPlus}
	Optional = Quantifier{Kind: QuantOptional}
	LazyStar = Quantifier{Kind: QuantLazyStar}
	LazyPlus = Quantifier{Kind: QuantLazyPlus}
)

// Exact repeats exactly n times.
func Exact(n int32) Quantifier {
	return Quantifier{Kind: QuantExact, Low: n, High: n}
}

// Bounded repeats between low and high times inclusive.
func Bounded(low, high int32) Quantifier {
	return Quantifier{Kind: QuantBounded, Low: low, High: high}
}

// Extended reports whether q needs the extended syntax.
func (q Quantifier) Extended() bool {
	return q.Kind >= QuantOptional
}

// Valid checks the bounds against the kind.
func (q Quantifier) Valid() error {
	switch q.Kind {
	case QuantStar, QuantPlus, QuantOptional, QuantLazyStar, QuantLazyPlus:
		if q.Low != 0 || q.High != 0 {
			return fmt.Errorf("%s takes no bounds, got %d,%d", q, q.Low, q.High)
		}
		return nil
	case QuantExact:
		if q.Low < 0 || q.Low != q.High {
			return fmt.Errorf("exact count %d is invalid", q.Low)
		}
		return nil
	case QuantBounded:
		if q.Low < 0 || q.Low > q.High {
			return fmt.Errorf("bounds %d,%d are invalid", q.Low, q.High)
		}
		return nil
	}
	return fmt.Errorf("unknown quantifier kind %d", q.Kind)
}

// MinMax returns the repetition bounds; max is -1 when unbounded.
func (q Quantifier) MinMax() (lo, hi int32) {
	switch q.Kind {
	case QuantStar, QuantLazyStar:
		return 0, -1
	case QuantPlus, QuantLazyPlus:
		return 1, -1
	case QuantOptional:
		return 0, 1
	}
	return q.Low, q.High
}

func (q Quantifier) String() string {
	switch q.Kind {
	case QuantStar:
		return "*"
	case QuantPlus:
		return "+"
	case QuantExact:
		return strconv.FormatInt(int64(q.Low), 10)
	case QuantBounded:
		return "Range[" + strconv.FormatInt(int64(q.Low), 10) + "," + strconv.FormatInt(int64(q.High), 10) + "]"
	case QuantOptional:
		return "?"
	case QuantLazyStar:
		return "*?"
	case QuantLazyPlus:
		return "+?"
	}
	return "?invalid"
}

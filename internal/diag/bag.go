package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"

	"github.com/alexandresoliveira/bfgex/internal/source"
)

// Bag collects diagnostics up to a limit. Diagnostics past the limit are
// dropped; Merge is the one way to grow it.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics;
// values outside 1..65535 are clamped.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	switch {
	case max <= 0:
		limit = 1
	case err != nil:
		limit = math.MaxUint16
	}
	return &Bag{items: make([]Diagnostic, 0, min(int(limit), 64)), max: limit}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the bag's own slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// worst is the highest severity present and false for an empty bag.
func (b *Bag) worst() (Severity, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	return slices.MaxFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Compare(x.Severity, y.Severity)
	}).Severity, true
}

func (b *Bag) HasErrors() bool {
	sev, ok := b.worst()
	return ok && sev >= SevError
}

func (b *Bag) HasWarnings() bool {
	sev, ok := b.worst()
	return ok && sev >= SevWarning
}

// Merge appends everything from other, raising the limit to fit
// (never past 65535 items).
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	room := math.MaxUint16 - len(b.items)
	items := other.items[:min(len(other.items), room)]
	b.items = append(b.items, items...)
	b.max = max(b.max, uint16(len(b.items))) //nolint:gosec // bounded by room
}

// Sort orders by file and span, errors before warnings at the same span,
// then by code. Equal diagnostics keep their order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic for each code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.Filter(func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

package lexer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/alexandresoliveira/bfgex/internal/source"
)

// EOF is returned by Peek and friends when no rune is left.
const EOF rune = -1

// ErrUnexpectedEOF is returned by Advance at end of input.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Cursor представляет собой позицию в паттерне.
// It walks runes, not bytes; Off always sits on a rune boundary.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor over the whole file.
func NewCursor(f *source.File) Cursor {
	return NewCursorSpan(f, f.Span())
}

// NewCursorSpan creates a cursor restricted to sp, so one line of a pattern
// file can be scanned while spans keep pointing into the file.
func NewCursorSpan(f *source.File, sp source.Span) Cursor {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	limit := min(sp.End, lenContent)
	return Cursor{
		File:  f,
		Off:   min(sp.Start, limit),
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец паттерна
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

func (c *Cursor) decode(off uint32) (rune, uint32) {
	if off >= c.Limit {
		return EOF, 0
	}
	b := c.File.Content[off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.File.Content[off:c.Limit])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	return r, usz
}

// Peek returns the next rune without consuming it, or EOF.
func (c *Cursor) Peek() rune {
	r, _ := c.decode(c.Off)
	return r
}

// Peek2 returns the next two runes; missing ones are EOF.
func (c *Cursor) Peek2() (r0, r1 rune) {
	r0, sz := c.decode(c.Off)
	if sz == 0 {
		return EOF, EOF
	}
	r1, _ = c.decode(c.Off + sz)
	return r0, r1
}

// BadRune reports whether the next byte does not start valid UTF-8.
func (c *Cursor) BadRune() bool {
	r, sz := c.decode(c.Off)
	return r == utf8.RuneError && sz == 1
}

// Advance consumes and returns the next rune.
// It fails with ErrUnexpectedEOF when the cursor is at the end.
func (c *Cursor) Advance() (rune, error) {
	r, sz := c.decode(c.Off)
	if sz == 0 {
		return EOF, ErrUnexpectedEOF
	}
	c.Off += sz
	return r, nil
}

// Bump consumes the next rune and returns it, or EOF without moving.
func (c *Cursor) Bump() rune {
	r, _ := c.Advance()
	return r
}

// Eat consumes the next rune only if it equals r.
func (c *Cursor) Eat(r rune) bool {
	got, sz := c.decode(c.Off)
	if sz == 0 || got != r {
		return false
	}
	c.Off += sz
	return true
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Here returns an empty span at the current position.
func (c *Cursor) Here() source.Span {
	return c.SpanFrom(c.Mark())
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

package lexer

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/alexandresoliveira/bfgex/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.pat", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\u00e9b" -> a, é, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\u00e9b"))

	for _, want := range []rune{'a', '\u00e9', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek() = %q, want %q", got, want)
		}
		got, err := cursor.Advance()
		if err != nil || got != want {
			t.Fatalf("Advance() = %q, %v; want %q, nil", got, err, want)
		}
	}

	if !cursor.EOF() {
		t.Error("expected EOF at end")
	}
	if cursor.Peek() != EOF {
		t.Errorf("Peek() at end = %q, want EOF", cursor.Peek())
	}
	if cursor.Off != 4 {
		t.Errorf("Off = %d, want 4 (\u00e9 is two bytes)", cursor.Off)
	}
}

func TestAdvanceAtEndFails(t *testing.T) {
	cursor := NewCursor(createFile(""))
	r, err := cursor.Advance()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("Advance() error = %v, want ErrUnexpectedEOF", err)
	}
	if r != EOF {
		t.Errorf("Advance() rune = %q, want EOF", r)
	}
	if cursor.Bump() != EOF {
		t.Error("Bump() at end should return EOF")
	}
}

func TestPeek2(t *testing.T) {
	cursor := NewCursor(createFile("a-"))
	if r0, r1 := cursor.Peek2(); r0 != 'a' || r1 != '-' {
		t.Errorf("Peek2() = %q, %q; want 'a', '-'", r0, r1)
	}
	cursor.Bump()
	if r0, r1 := cursor.Peek2(); r0 != '-' || r1 != EOF {
		t.Errorf("Peek2() = %q, %q; want '-', EOF", r0, r1)
	}
	cursor.Bump()
	if r0, r1 := cursor.Peek2(); r0 != EOF || r1 != EOF {
		t.Errorf("Peek2() at end = %q, %q; want EOF, EOF", r0, r1)
	}
}

func TestEat(t *testing.T) {
	cursor := NewCursor(createFile("ab"))
	if cursor.Eat('b') {
		t.Error("Eat('b') matched 'a'")
	}
	if cursor.Off != 0 {
		t.Errorf("failed Eat moved the cursor to %d", cursor.Off)
	}
	if !cursor.Eat('a') || !cursor.Eat('b') {
		t.Error("Eat should consume matching runes")
	}
	if cursor.Eat('b') {
		t.Error("Eat at EOF must fail")
	}
}

func TestMarkSpanReset(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	cursor.Bump()
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()

	sp := cursor.SpanFrom(m)
	if sp.Start != 1 || sp.End != 3 {
		t.Errorf("SpanFrom = %v, want 1-3", sp)
	}
	cursor.Reset(m)
	if cursor.Peek() != 'b' {
		t.Errorf("after Reset Peek() = %q, want 'b'", cursor.Peek())
	}
}

func TestCursorSpanLimit(t *testing.T) {
	f := createFile("xx\nab\nyy")
	cursor := NewCursorSpan(f, source.Span{File: f.ID, Start: 3, End: 5})
	got := []rune{}
	for !cursor.EOF() {
		got = append(got, cursor.Bump())
	}
	if string(got) != "ab" {
		t.Errorf("limited cursor read %q, want %q", string(got), "ab")
	}
	tail := NewCursorSpan(f, source.Span{File: f.ID, Start: 4, End: 5})
	if r0, r1 := tail.Peek2(); r0 != 'b' || r1 != EOF {
		t.Errorf("Peek2 must respect Limit, got %q %q", r0, r1)
	}
}

func TestInvalidUTF8IsOneRune(t *testing.T) {
	cursor := NewCursor(createFile("\xffa"))
	if r := cursor.Bump(); r != utf8.RuneError {
		t.Errorf("Bump() = %q, want RuneError", r)
	}
	if r := cursor.Bump(); r != 'a' {
		t.Errorf("Bump() = %q, want 'a'", r)
	}
}

func TestBadRune(t *testing.T) {
	cursor := NewCursor(createFile("\xff\u00e9\ufffd"))
	if !cursor.BadRune() {
		t.Error("0xff should be a bad rune")
	}
	cursor.Bump()
	if cursor.BadRune() {
		t.Error("\u00e9 is valid UTF-8")
	}
	cursor.Bump()
	if cursor.BadRune() {
		t.Error("an encoded U+FFFD is valid UTF-8")
	}
	cursor.Bump()
	if cursor.BadRune() {
		t.Error("BadRune at EOF must be false")
	}
}

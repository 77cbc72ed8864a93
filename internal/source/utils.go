package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF replaces every "\r\n" with "\n" and leaves lone '\r' alone.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out, len(out) != len(content)
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// normalizeNFC composes combining sequences so that "é" scans as one literal.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 8)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(err)
			}
			out = append(out, off)
		}
	}
	return out
}

// position resolves a byte offset to a 1-based line and a 1-based rune column.
func (f *File) position(off uint32) LineCol {
	// бинпоиск: первый '\n' с позицией >= off
	line, _ := slices.BinarySearch(f.LineIdx, off)

	var lineStart uint32
	if line > 0 {
		lineStart = f.LineIdx[line-1] + 1
	}
	if int(off) > len(f.Content) {
		off = uint32(len(f.Content))
	}
	col := utf8.RuneCount(f.Content[lineStart:off])

	lineNo, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(err)
	}
	colNo, err := safecast.Conv[uint32](col + 1)
	if err != nil {
		panic(err)
	}
	return LineCol{Line: lineNo, Col: colNo}
}

func trimBlank(content []byte, lo, hi uint32) (uint32, uint32) {
	for lo < hi && isBlank(content[lo]) {
		lo++
	}
	for hi > lo && isBlank(content[hi-1]) {
		hi--
	}
	return lo, hi
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

package source

import "strconv"

// FileID uniquely identifies a pattern source within a FileSet.
type FileID uint32

// FileFlags records how a source was obtained and normalised on load.
type FileFlags uint8

const (
	// FileVirtual marks a source that did not come from disk (argv, stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC is set when the content changed under NFC composition.
	FileNormalizedNFC
)

// File is one pattern source. A virtual file holds a single pattern;
// a file loaded from disk holds one pattern per line.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts runes, not bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Span is the half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// String renders the span as "file:start-end".
func (s Span) String() string {
	buf := make([]byte, 0, 24)
	buf = strconv.AppendUint(buf, uint64(s.File), 10)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, uint64(s.Start), 10)
	buf = append(buf, '-')
	buf = strconv.AppendUint(buf, uint64(s.End), 10)
	return string(buf)
}

// Cover widens s to include other. Spans of different files leave s unchanged.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Rel shifts s so that base.Start becomes offset 0; spans before base are returned as is.
func (s Span) Rel(base Span) Span {
	if s.Start >= base.Start {
		s.Start -= base.Start
		s.End -= base.Start
	}
	return s
}

package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo           Code = 1000
	LexDanglingEscape Code = 1001
	LexInvalidUTF8    Code = 1002

	// Синтаксические, по одному коду на вид ошибки разбора
	SynInfo              Code = 2000
	SynUnexpectedEOF     Code = 2001
	SynUnbalancedGroup   Code = 2002
	SynUnbalancedClass   Code = 2003
	SynUnknownEscape     Code = 2004
	SynInvalidQuantifier Code = 2005
	SynEmptyBranch       Code = 2006
	SynEmptyClass        Code = 2007
	SynInvalidRange      Code = 2008
	SynInvalidClassName  Code = 2009

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	LexInfo:              "Lexical information",
	LexDanglingEscape:    "Dangling escape",
	LexInvalidUTF8:       "Invalid UTF-8",
	SynInfo:              "Syntax information",
	SynUnexpectedEOF:     "Unexpected end of input",
	SynUnbalancedGroup:   "Unbalanced group",
	SynUnbalancedClass:   "Unbalanced character class",
	SynUnknownEscape:     "Unknown escape class",
	SynInvalidQuantifier: "Invalid quantifier",
	SynEmptyBranch:       "Empty alternative branch",
	SynEmptyClass:        "Empty character class",
	SynInvalidRange:      "Invalid range",
	SynInvalidClassName:  "Invalid class name",
	IOLoadFileError:      "I/O load file error",
	IOCacheError:         "I/O cache error",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

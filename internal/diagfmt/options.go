package diagfmt

// PathMode selects how file paths are shown; see source.File.FormatPath.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // relative when under the base dir
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) mode() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста до и после строки с ошибкой
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool // show the pattern with the first fix applied
}

// JSONOpts configures JSON.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // limits output only; the bag keeps everything
	IncludeNotes     bool
	IncludeFixes     bool
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// switchMode is the auto|on|off value of --color and --ui.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

type (
	colorMode = switchMode
	uiMode    = switchMode
)

const (
	colorAuto, colorOn, colorOff    = modeAuto, modeOn, modeOff
	uiModeAuto, uiModeOn, uiModeOff = modeAuto, modeOn, modeOff
)

func parseSwitch(what, value string) (switchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on", "always":
		return modeOn, nil
	case "off", "never":
		return modeOff, nil
	}
	return "", fmt.Errorf("invalid %s value %q (expected auto|on|off)", what, value)
}

func readColorMode(value string) (colorMode, error) { return parseSwitch("color", value) }

func readUIMode(value string) (uiMode, error) { return parseSwitch("--ui", value) }

// on resolves auto by asking auto about w, which must be a terminal file.
func (m switchMode) on(w io.Writer, auto func() bool) bool {
	if m != modeAuto {
		return m == modeOn
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f) && auto()
}

// enabled decides colour for output written to w; NO_COLOR turns auto off.
func (m switchMode) enabled(w io.Writer) bool {
	return m.on(w, func() bool { return os.Getenv("NO_COLOR") == "" })
}

// shouldUseTUI decides whether check shows the progress view on out.
// Auto mode needs a terminal and at least two files.
func shouldUseTUI(mode uiMode, out io.Writer, files int) bool {
	return mode.on(out, func() bool { return files > 1 })
}

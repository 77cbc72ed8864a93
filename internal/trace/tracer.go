package trace

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives events from spans and points. Implementations must be
// safe for concurrent Emit calls: workers of a batch check share one tracer.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything; FromContext returns it when no tracer is attached.
var Nop Tracer = nopTracer{}

// MultiTracer fans events out to several tracers, e.g. a stream and a ring.
type MultiTracer []Tracer

// NewMultiTracer drops nil and disabled tracers.
func NewMultiTracer(tracers ...Tracer) MultiTracer {
	out := make(MultiTracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil && t.Enabled() {
			out = append(out, t)
		}
	}
	return out
}

func (m MultiTracer) Emit(ev *Event) {
	for _, t := range m {
		t.Emit(ev)
	}
}

func (m MultiTracer) Flush() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (m MultiTracer) Close() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// Level is the most verbose level among the children.
func (m MultiTracer) Level() Level {
	lvl := LevelOff
	for _, t := range m {
		lvl = max(lvl, t.Level())
	}
	return lvl
}

func (m MultiTracer) Enabled() bool { return m.Level() > LevelOff }

// StorageMode selects where events go: written out at once, kept in memory, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string { return nameOf(modeNames[:], int(m)) }

// ParseMode accepts a storage mode name in any case.
func ParseMode(s string) (StorageMode, error) {
	for i, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(i), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer a command wants.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format // FormatAuto picks NDJSON for *.ndjson and *.json paths
	// Output wins over OutputPath; an empty or "-" path means stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int // events kept in ring mode, 4096 when unset
}

const defaultRingSize = 4096

// New builds the tracer for cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	ringSize := cmp.Or(max(cfg.RingSize, 0), defaultRingSize)
	format := cfg.Format
	if format == FormatAuto {
		format = formatForPath(cfg.OutputPath)
	}

	var tracers []Tracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, format))
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		tracers = append(tracers, NewRingTracer(ringSize, cfg.Level))
	}
	switch len(tracers) {
	case 0:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	case 1:
		return tracers[0], nil
	}
	return NewMultiTracer(tracers...), nil
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func isStdStream(w io.Writer) bool {
	return w == os.Stderr || w == os.Stdout
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

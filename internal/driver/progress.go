package driver

import (
	"math"
	"time"

	"github.com/alexandresoliveira/bfgex/internal/diag"
)

// Stage describes a phase of a batch check.
type Stage string

const (
	// StageLoad is reading a pattern file from disk.
	StageLoad Stage = "load"
	// StageParse is parsing the patterns of a file.
	StageParse Stage = "parse"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates a worker is on the file.
	StatusWorking Status = "working"
	// StatusDone indicates every pattern of the file parsed.
	StatusDone Status = "done"
	// StatusError indicates at least one pattern failed or the file did not load.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole check when File is empty).
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Patterns int // разобрано паттернов на момент события
	Failed   int
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// newBag treats a non-positive limit as "no limit".
func newBag(maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = math.MaxUint16
	}
	return diag.NewBag(maxDiagnostics)
}

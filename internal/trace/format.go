package trace

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // decided by New from the output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

// jsonEvent is the NDJSON shape of an Event.
type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// epoch anchors the relative timestamps of the text format.
var epoch = time.Now()

var kindMarks = [...]string{
	KindSpanBegin: "\u2192 ",
	KindSpanEnd:   "\u2190 ",
	KindPoint:     "\u2022 ",
	KindHeartbeat: "\u2661 ",
}

// formatText renders one line, nested scopes indented two spaces per level:
//
//	[  12.345ms] file     \u2190 a.pat (error) {failed=1, patterns=3}
func formatText(ev *Event) []byte {
	at := cmp.Or(ev.Time, time.Now())
	line := fmt.Appendf(nil, "[%9.3fms] %-6s ", millis(at.Sub(epoch)), ev.Scope)
	if ev.Scope > ScopeDriver {
		line = append(line, strings.Repeat("  ", int(ev.Scope-ScopeDriver))...)
	}
	if int(ev.Kind) < len(kindMarks) {
		line = append(line, kindMarks[ev.Kind]...)
	}
	line = append(line, ev.Name...)
	if ev.Detail != "" {
		line = fmt.Appendf(line, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		line = fmt.Appendf(line, " {%s}", strings.Join(pairs, ", "))
	}
	return append(line, '\n')
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }

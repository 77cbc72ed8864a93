package driver

import (
	"cmp"
	"encoding/json"
	"fmt"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/observ"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// timingNote is the JSON carried in the note of an ObsTimings diagnostic.
type timingNote struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings records report as an ObsTimings info diagnostic at span at,
// which must belong to the file set the bag is rendered with. kind defaults
// to "pipeline". A full bag is grown by one so timings always survive.
func AppendTimings(bag *diag.Bag, at source.Span, kind, path string, report observ.Report) {
	if bag == nil {
		return
	}
	note := timingNote{
		Kind:    cmp.Or(kind, "pipeline"),
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	data, err := json.Marshal(note)
	if err != nil {
		return
	}

	msg := fmt.Sprintf("timings (%s): total %.2f ms", note.Kind, note.TotalMS)
	if path != "" {
		msg += ": " + path
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, at, msg).WithNote(at, string(data))
	if !bag.Add(d) {
		extra := diag.NewBag(1)
		extra.Add(d)
		bag.Merge(extra)
	}
}

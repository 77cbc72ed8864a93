// Package fix applies the fix suggestions attached to diagnostics.
package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix (in source order) only.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies the first fix of every diagnostic.
	ApplyModeAll
)

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange is the new content of one file. Nothing is written until
// WriteFiles is called.
type FileChange struct {
	FileID    source.FileID
	Path      string
	Content   []byte
	EditCount int
	Virtual   bool
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

type stagedEdit struct {
	edit  diag.FixEdit
	order int
}

// Apply selects fixes from diagnostics and computes the edited contents.
// Edits of different fixes must not overlap; a conflicting fix is skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, mode ApplyMode) (*ApplyResult, error) {
	if fs == nil {
		return nil, fmt.Errorf("fix: nil file set")
	}
	result := &ApplyResult{}

	candidates := gatherCandidates(diagnostics)
	sortCandidates(candidates)
	if mode == ApplyModeOnce && len(candidates) > 1 {
		candidates = candidates[:1]
	}

	accepted := make(map[source.FileID][]stagedEdit)
	for _, cand := range candidates {
		if reason := checkCandidate(fs, cand, accepted); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, edit := range cand.fix.Edits {
			accepted[edit.Span.File] = append(accepted[edit.Span.File], stagedEdit{edit: edit, order: cand.order})
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   len(cand.fix.Edits),
		})
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	for fileID, edits := range accepted {
		file := fs.Get(fileID)
		result.FileChanges = append(result.FileChanges, FileChange{
			FileID:    fileID,
			Path:      file.Path,
			Content:   applyEdits(file.Content, edits),
			EditCount: len(edits),
			Virtual:   file.Flags&source.FileVirtual != 0,
		})
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return result, nil
}

// WriteFiles stores every non-virtual change on disk, keeping file modes.
func WriteFiles(changes []FileChange) error {
	for _, ch := range changes {
		if ch.Virtual {
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(ch.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(ch.Path, ch.Content, mode); err != nil {
			return fmt.Errorf("write %s: %w", ch.Path, err)
		}
	}
	return nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	candidates := make([]candidate, 0, len(diagnostics))
	for i, d := range diagnostics {
		// у паттерна одна ошибка, первая правка самая простая
		if len(d.Fixes) == 0 || len(d.Fixes[0].Edits) == 0 {
			continue
		}
		candidates = append(candidates, candidate{diag: d, fix: d.Fixes[0], order: i})
	}
	return candidates
}

func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].diag.Primary, candidates[j].diag.Primary
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return candidates[i].order < candidates[j].order
	})
}

func checkCandidate(fs *source.FileSet, cand candidate, accepted map[source.FileID][]stagedEdit) string {
	for i, edit := range cand.fix.Edits {
		if int(edit.Span.File) >= fs.Len() {
			return "edit targets an unknown file"
		}
		file := fs.Get(edit.Span.File)
		if edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		for _, prev := range accepted[edit.Span.File] {
			if spansConflict(prev.edit, edit) {
				return fmt.Sprintf("conflicts with previously applied edits in %s", formatFilePath(fs, edit.Span.File))
			}
		}
		for _, other := range cand.fix.Edits[:i] {
			if other.Span.File == edit.Span.File && spansConflict(other, edit) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// applyEdits rewrites content back to front so earlier offsets stay valid.
// Inserts at one position keep the order of their fixes.
func applyEdits(content []byte, edits []stagedEdit) []byte {
	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.edit.Span.Start != b.edit.Span.Start {
			return a.edit.Span.Start > b.edit.Span.Start
		}
		return a.order > b.order
	})
	out := slices.Clone(content)
	for _, st := range sorted {
		start, end := int(st.edit.Span.Start), int(st.edit.Span.End)
		out = slices.Concat(out[:start], []byte(st.edit.NewText), out[end:])
	}
	return out
}

// spansConflict reports whether two edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is within that span (Start <= pos < End).
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if int(fileID) >= fs.Len() {
		return ""
	}
	return fs.Get(fileID).FormatPath("auto", fs.BaseDir())
}

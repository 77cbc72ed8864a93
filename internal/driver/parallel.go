package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/observ"
	"github.com/alexandresoliveira/bfgex/internal/parser"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/trace"
)

// PatternExt is the extension ExpandPaths looks for inside directories.
const PatternExt = ".pat"

// CheckOptions configures CheckFiles.
type CheckOptions struct {
	// Parser options shared by all workers; Reporter is ignored, every
	// file gets its own Bag.
	Parser         parser.Options
	MaxDiagnostics int
	// Jobs bounds the number of files parsed at once; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Cache    *DiskCache
}

// PatternResult is one line of a pattern file.
type PatternResult struct {
	Span   source.Span
	Tree   ast.Node
	Err    *parser.Error
	Cached bool
}

// FileResult содержит результат проверки одного файла
type FileResult struct {
	Path     string
	FileID   source.FileID
	LoadErr  error
	Patterns []PatternResult
	Failed   int
	Bag      *diag.Bag
}

// CheckResult aggregates a batch check.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag holds the diagnostics of all files, sorted, cut to MaxDiagnostics.
	Bag    *diag.Bag
	Timing observ.Report
}

// Patterns returns the number of patterns checked.
func (r *CheckResult) Patterns() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Patterns)
	}
	return n
}

// Failed returns the number of failed patterns plus files that did not load.
func (r *CheckResult) Failed() int {
	n := 0
	for i := range r.Files {
		n += r.Files[i].Failed
		if r.Files[i].LoadErr != nil {
			n++
		}
	}
	return n
}

// ListPatternFiles возвращает отсортированный список всех *.pat файлов в директории
func ListPatternFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, PatternExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandPaths replaces every directory in paths by the pattern files under it.
// Other paths are kept as given, missing ones included: loading reports them.
func ExpandPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := ListPatternFiles(p)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", p, err)
		}
		out = append(out, files...)
	}
	return out, nil
}

// CheckFiles parses every pattern line of every file in paths in parallel.
// The returned error is only the context error after a cancellation; the
// partial result is still returned.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	timer := observ.NewTimer()
	pass, ctx := trace.StartSpan(ctx, trace.ScopePass, "check")
	defer pass.End("")

	// Загружаем все файлы заранее: FileSet не синхронизирован
	loadIdx := timer.Begin("load")
	fileSet := source.NewFileSet()
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i] = FileResult{Path: path, Bag: newBag(opts.MaxDiagnostics)}
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был валидный span
			fileID = fileSet.AddVirtual(path, nil)
			results[i].LoadErr = err
			results[i].Bag.Add(diag.NewError(
				diag.IOLoadFileError,
				fileSet.Get(fileID).Span(),
				"failed to load file: "+err.Error(),
			))
		}
		results[i].FileID = fileID
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}
	timer.End(loadIdx, fmt.Sprintf("%d files", len(paths)))

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	parseIdx := timer.Begin("parse")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i := range results {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			return checkFile(gctx, fileSet, &results[i], opts)
		})
	}
	waitErr := g.Wait()
	timer.End(parseIdx, "")

	mergeIdx := timer.Begin("merge")
	total := newBag(opts.MaxDiagnostics)
	for i := range results {
		total.Merge(results[i].Bag)
	}
	total.Sort()
	if limit := opts.MaxDiagnostics; limit > 0 && total.Len() > limit {
		kept := 0
		total.Filter(func(diag.Diagnostic) bool {
			kept++
			return kept <= limit
		})
	}
	timer.End(mergeIdx, "")

	emit(opts.Progress, Event{Stage: StageParse, Status: StatusDone})

	return &CheckResult{
		FileSet: fileSet,
		Files:   results,
		Bag:     total,
		Timing:  timer.Report(),
	}, waitErr
}

func checkFile(ctx context.Context, fileSet *source.FileSet, res *FileResult, opts CheckOptions) error {
	if res.LoadErr != nil {
		emit(opts.Progress, Event{File: res.Path, Stage: StageLoad, Status: StatusError, Err: res.LoadErr})
		return nil
	}

	started := time.Now()
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, res.Path)

	file := fileSet.Get(res.FileID)
	lines := file.Patterns()
	res.Patterns = make([]PatternResult, 0, len(lines))

	popts := opts.Parser
	popts.Reporter = diag.BagReporter{Bag: res.Bag}

	emit(opts.Progress, Event{File: res.Path, Stage: StageParse, Status: StatusWorking})
	for _, sp := range lines {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return err
		}
		res.Patterns = append(res.Patterns, checkPattern(ctx, file, sp, popts, opts.Cache, res.Bag))
		if res.Patterns[len(res.Patterns)-1].Err != nil {
			res.Failed++
		}
	}

	status := StatusDone
	if res.Failed > 0 {
		status = StatusError
	}
	span.WithExtra("patterns", fmt.Sprint(len(lines))).WithExtra("failed", fmt.Sprint(res.Failed))
	span.End(string(status))
	emit(opts.Progress, Event{
		File:     res.Path,
		Stage:    StageParse,
		Status:   status,
		Patterns: len(res.Patterns),
		Failed:   res.Failed,
		Elapsed:  time.Since(started),
	})
	return nil
}

func checkPattern(ctx context.Context, file *source.File, sp source.Span, popts parser.Options, cache *DiskCache, bag *diag.Bag) PatternResult {
	text := file.Text(sp)
	var key Digest
	if cache != nil {
		key = CacheKey(text, popts)
		tree, ok, err := cache.Get(key, text)
		if err != nil {
			bag.Add(diag.NewWarning(diag.IOCacheError, sp, "cache read failed: "+err.Error()))
		} else if ok {
			return PatternResult{Span: sp, Tree: tree, Cached: true}
		}
	}

	r := parser.ParseSpan(ctx, file, sp, popts)
	if r.Err == nil && cache != nil {
		if err := cache.Put(key, text, r.Tree); err != nil {
			bag.Add(diag.NewWarning(diag.IOCacheError, sp, "cache write failed: "+err.Error()))
		}
	}
	return PatternResult{Span: sp, Tree: r.Tree, Err: r.Err}
}

package driver

import (
	"context"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/observ"
	"github.com/alexandresoliveira/bfgex/internal/parser"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/trace"
)

// DefaultPatternName names argv/stdin patterns in diagnostics.
const DefaultPatternName = "<pattern>"

// ParseOptions configures Parse.
type ParseOptions struct {
	// Parser options; Reporter, if set, receives diagnostics in addition to the result Bag.
	Parser         parser.Options
	MaxDiagnostics int
	// Cache is optional; successful trees are read from and written to it.
	Cache *DiskCache
	// Name is the source name shown in diagnostics (DefaultPatternName when empty).
	Name string
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    ast.Node
	Err     *parser.Error
	Bag     *diag.Bag
	Cached  bool
	Timing  observ.Report
}

// Parse parses one in-memory pattern. Problems with the pattern end up in
// Err and Bag; cache failures only add a warning.
func Parse(ctx context.Context, pattern string, opts ParseOptions) *ParseResult {
	timer := observ.NewTimer()
	name := opts.Name
	if name == "" {
		name = DefaultPatternName
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddPattern(name, pattern))
	bag := newBag(opts.MaxDiagnostics)
	res := &ParseResult{FileSet: fs, File: file, Bag: bag}

	pass, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")

	// ключ строим по нормализованному тексту, как его видит парсер
	text := string(file.Content)
	var key Digest
	if opts.Cache != nil {
		idx := timer.Begin("cache")
		key = CacheKey(text, opts.Parser)
		tree, ok, err := opts.Cache.Get(key, text)
		switch {
		case err != nil:
			timer.End(idx, "error")
			bag.Add(diag.NewWarning(diag.IOCacheError, file.Span(), "cache read failed: "+err.Error()))
		case ok:
			timer.End(idx, "hit")
			res.Tree, res.Cached = tree, true
			res.Timing = timer.Report()
			pass.End("cached")
			return res
		default:
			timer.End(idx, "miss")
		}
	}

	idx := timer.Begin("parse")
	popts := opts.Parser
	popts.Reporter = withBag(popts.Reporter, bag)
	r := parser.ParseFile(ctx, file, popts)
	res.Tree, res.Err = r.Tree, r.Err
	timer.End(idx, "")

	if r.Err == nil && opts.Cache != nil {
		idx = timer.Begin("cache-store")
		if err := opts.Cache.Put(key, text, r.Tree); err != nil {
			bag.Add(diag.NewWarning(diag.IOCacheError, file.Span(), "cache write failed: "+err.Error()))
		}
		timer.End(idx, "")
	}

	res.Timing = timer.Report()
	if r.Err != nil {
		pass.End(r.Err.Kind().Error())
	} else {
		pass.End("")
	}
	return res
}

func withBag(r diag.Reporter, bag *diag.Bag) diag.Reporter {
	if r == nil {
		return diag.BagReporter{Bag: bag}
	}
	return diag.MultiReporter{diag.BagReporter{Bag: bag}, r}
}

package parser

import (
	"context"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/lexer"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
	"github.com/alexandresoliveira/bfgex/internal/trace"
)

var defaultClasses = ast.DefaultClasses()

// Result of parsing one pattern. Tree is nil for the empty pattern and on
// failure; Err tells the two apart.
type Result struct {
	File source.FileID
	Span source.Span
	Tree ast.Node
	Err  *Error
}

// Parser — состояние парсера на один паттерн
type Parser struct {
	lx      *lexer.Lexer
	file    *source.File
	span    source.Span // весь паттерн
	opts    Options
	classes *ast.ClassTable
	tracer  trace.Tracer
	parent  uint64 // span id родителя для трассировки
	err     *Error // первая ошибка; дальше не разбираем
}

// Parse parses pattern with default options.
func Parse(pattern string) (ast.Node, error) {
	return ParseString(pattern, Options{})
}

// ParseString parses pattern held in memory.
func ParseString(pattern string, opts Options) (ast.Node, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddPattern("<pattern>", pattern))
	res := ParseFile(context.Background(), file, opts)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Tree, nil
}

// ParseFile parses the whole content of file as one pattern.
func ParseFile(ctx context.Context, file *source.File, opts Options) Result {
	return ParseSpan(ctx, file, file.Span(), opts)
}

// ParseSpan parses the pattern at sp inside file, e.g. one line of a pattern
// file. Spans in the result and in diagnostics point into file.
func ParseSpan(ctx context.Context, file *source.File, sp source.Span, opts Options) Result {
	p := Parser{
		lx:      lexer.NewSpan(file, sp, lexer.Options{Reporter: nil, Extended: opts.extended()}),
		file:    file,
		span:    sp,
		opts:    opts,
		classes: opts.Classes,
		tracer:  opts.Tracer,
		parent:  trace.CurrentSpan(ctx).SpanID,
	}
	if p.classes == nil {
		p.classes = defaultClasses
	}
	if p.tracer == nil {
		p.tracer = trace.FromContext(ctx)
	}

	tree, ok := p.parsePattern()
	res := Result{File: file.ID, Span: sp}
	if ok {
		res.Tree = tree
	} else {
		res.Err = p.err
	}
	return res
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) advance() token.Token {
	return p.lx.Next()
}

// fail records the first error and always returns false so rules can
// `return nil, p.fail(...)`.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string, notes ...diag.Note) bool {
	return p.failWith(code, sp, msg, notes, nil)
}

// failWith is fail with suggested fixes attached.
func (p *Parser) failWith(code diag.Code, sp source.Span, msg string, notes []diag.Note, fixes []diag.Fix) bool {
	if p.err != nil {
		return false
	}
	p.err = &Error{
		Code:    code,
		Span:    sp,
		Pattern: p.file.Text(p.span),
		Offset:  runeOffset(p.file, p.span, sp.Start),
		Msg:     msg,
		Notes:   notes,
		Fixes:   fixes,
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, notes, fixes)
	}
	return false
}

// rule opens a trace span for a grammar rule.
func (p *Parser) rule(name string) *trace.Span {
	if !p.tracer.Enabled() {
		return nil
	}
	sp := trace.Begin(p.tracer, trace.ScopeNode, name, p.parent)
	if sp.ID() != 0 {
		p.parent = sp.ID()
	}
	return sp
}

func (p *Parser) done(sp *trace.Span, parent uint64, ok bool) {
	if sp == nil {
		return
	}
	p.parent = parent
	if ok {
		sp.End("")
	} else {
		sp.End("failed")
	}
}

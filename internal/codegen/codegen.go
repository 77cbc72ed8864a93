// Package codegen emits Go source that rebuilds a parsed pattern tree, so a
// pattern can be parsed once at build time and embedded as a value.
package codegen

import (
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/alexandresoliveira/bfgex/internal/ast"
)

const astPath = "github.com/alexandresoliveira/bfgex/internal/ast"

// Config holds the configuration for code generation.
type Config struct {
	Package string // package clause of the generated file
	Name    string // exported variable holding the tree
	Pattern string // source pattern, quoted in comments and a constant
	Tree    ast.Node
}

func (c *Config) defaults() error {
	if c.Package == "" {
		c.Package = "patterns"
	}
	if c.Name == "" {
		c.Name = "Pattern"
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("codegen: invalid package name %q", c.Package)
	}
	if !token.IsIdentifier(c.Name) || !token.IsExported(c.Name) {
		return fmt.Errorf("codegen: %q is not an exported identifier", c.Name)
	}
	return nil
}

// Generate writes a gofmt-ed Go file declaring
//
//	const <Name>Source = "<pattern>"
//	const <Name>Canonical = "<canonical form>"
//	var <Name> ast.Node = ...
func Generate(w io.Writer, cfg Config) error {
	if err := cfg.defaults(); err != nil {
		return err
	}
	if err := ast.Validate(cfg.Tree); err != nil {
		return fmt.Errorf("codegen: %w", err)
	}

	f := jen.NewFile(cfg.Package)
	f.ImportName(astPath, "ast")
	f.HeaderComment("Code generated by bfgex. DO NOT EDIT.")

	f.Const().Defs(
		jen.Id(cfg.Name+"Source").Op("=").Lit(cfg.Pattern),
		jen.Id(cfg.Name+"Canonical").Op("=").Lit(ast.Render(cfg.Tree)),
	)
	f.Line()
	f.Commentf("%s is the parse tree of %sSource.", cfg.Name, cfg.Name)
	f.Var().Id(cfg.Name).Qual(astPath, "Node").Op("=").Add(Expr(cfg.Tree))

	if err := f.Render(w); err != nil {
		return fmt.Errorf("codegen: render: %w", err)
	}
	return nil
}

// Expr returns the composite literal that rebuilds n.
func Expr(n ast.Node) jen.Code {
	switch n := n.(type) {
	case nil:
		return jen.Nil()
	case ast.Literal:
		return literal(n)
	case ast.Random:
		return jen.Qual(astPath, "Random").Values(jen.Dict{
			jen.Id("Class"): jen.Lit(string(n.Class)),
		})
	case ast.Range:
		return jen.Qual(astPath, "Range").Values(jen.Dict{
			jen.Id("Low"):  literal(n.Low),
			jen.Id("High"): literal(n.High),
		})
	case ast.CharClass:
		members := make([]jen.Code, len(n.Members))
		for i, m := range n.Members {
			members[i] = Expr(m)
		}
		return jen.Qual(astPath, "CharClass").Values(jen.Dict{
			jen.Id("Members"): jen.Index().Qual(astPath, "ClassMember").Values(members...),
		})
	case ast.Quantify:
		return jen.Qual(astPath, "Quantify").Values(jen.Dict{
			jen.Id("Child"): Expr(n.Child),
			jen.Id("Q"):     quantifier(n.Q),
		})
	case ast.Union:
		return nodes("Union", n.Nodes)
	case ast.Intersection:
		return nodes("Intersection", n.Nodes)
	}
	panic(fmt.Sprintf("codegen: unexpected node %T", n))
}

func literal(l ast.Literal) jen.Code {
	return jen.Qual(astPath, "Literal").Values(jen.Dict{
		jen.Id("Char"): jen.LitRune(l.Char),
	})
}

func nodes(kind string, list []ast.Node) jen.Code {
	items := make([]jen.Code, len(list))
	for i, n := range list {
		items[i] = Expr(n)
	}
	return jen.Qual(astPath, kind).Values(jen.Dict{
		jen.Id("Nodes"): jen.Index().Qual(astPath, "Node").Values(items...),
	})
}

func quantifier(q ast.Quantifier) jen.Code {
	switch q.Kind {
	case ast.QuantStar:
		return jen.Qual(astPath, "Star")
	case ast.QuantPlus:
		return jen.Qual(astPath, "Plus")
	case ast.QuantOptional:
		return jen.Qual(astPath, "Optional")
	case ast.QuantLazyStar:
		return jen.Qual(astPath, "LazyStar")
	case ast.QuantLazyPlus:
		return jen.Qual(astPath, "LazyPlus")
	case ast.QuantExact:
		return jen.Qual(astPath, "Exact").Call(jen.Lit(int(q.Low)))
	default:
		return jen.Qual(astPath, "Bounded").Call(jen.Lit(int(q.Low)), jen.Lit(int(q.High)))
	}
}

package driver

import (
	"github.com/alexandresoliveira/bfgex/internal/diag"
	"github.com/alexandresoliveira/bfgex/internal/lexer"
	"github.com/alexandresoliveira/bfgex/internal/source"
	"github.com/alexandresoliveira/bfgex/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize classifies pattern into tokens. Lexical problems (a dangling
// '\') become diagnostics; tokenizing itself never fails.
func Tokenize(pattern string, extended bool, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddPattern(DefaultPatternName, pattern))

	bag := newBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Extended: extended,
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}
}

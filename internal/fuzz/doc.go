// Package fuzztests holds the fuzz harnesses of the pattern pipeline
// (source -> lexer -> parser). They look for panics, hangs and trees that
// break the span and shape invariants checked by internal/testkit.
//
// Сиды берутся из testdata/*.pat (по одному на строку) и из списка
// конструкций грамматики в seeds.go.
package fuzztests

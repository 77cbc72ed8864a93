package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/diagfmt"
	"github.com/alexandresoliveira/bfgex/internal/driver"
	"github.com/alexandresoliveira/bfgex/internal/parser"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <pattern>",
		Short: "Tokenize a pattern",
		Long:  `Tokenize breaks a pattern down into the tokens the parser reads`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("extended", false, "classify ? as a quantifier")
	cmd.Flags().Bool("stdin", false, "read the pattern from standard input")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pattern, err := readPatternArg(cmd, args)
	if err != nil {
		return err
	}

	extended := s.parser.Flags&parser.FlagExtended != 0
	result := driver.Tokenize(pattern, extended, s.maxDiagnostics)

	// Выводим диагностику в stderr, если есть
	printDiagnostics(cmd.ErrOrStderr(), s, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

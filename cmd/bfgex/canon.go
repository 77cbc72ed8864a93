package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/diagfmt"
)

func newCanonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon [flags] <text>",
		Short: "Validate canonical tree text and print it normalized",
		Long: `Canon reads a tree in the canonical (KIND,...) form, checks that it is a
well-formed tree and prints it again, in canonical form or as an ASCII tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCanon,
	}
	cmd.Flags().String("format", "canonical", "output format (canonical|tree|json)")
	cmd.Flags().Bool("stdin", false, "read the text from standard input")
	return cmd
}

func runCanon(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	text, err := readPatternArg(cmd, args)
	if err != nil {
		return err
	}
	tree, err := ast.ParseCanonical(text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "canonical":
		_, err = fmt.Fprintln(out, ast.Render(tree))
		return err
	case "tree":
		return diagfmt.FormatTree(out, tree)
	case "json":
		return diagfmt.FormatTreeJSON(out, "", tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

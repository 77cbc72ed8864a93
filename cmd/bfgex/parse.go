package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/ast"
	"github.com/alexandresoliveira/bfgex/internal/codegen"
	"github.com/alexandresoliveira/bfgex/internal/diagfmt"
	"github.com/alexandresoliveira/bfgex/internal/driver"
	"github.com/alexandresoliveira/bfgex/internal/fix"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <pattern>",
		Short: "Parse a pattern and print its syntax tree",
		Long: `Parse turns one pattern into its syntax tree. The tree is printed in the
canonical (KIND,...) form by default, or as an ASCII tree, JSON, msgpack or Go source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "canonical", "output format (canonical|tree|json|msgpack|go)")
	cmd.Flags().Bool("extended", false, "accept the lazy quantifiers ?, *? and +?")
	cmd.Flags().Bool("stdin", false, "read the pattern from standard input")
	cmd.Flags().Bool("cache", false, "reuse trees from the on-disk cache")
	cmd.Flags().Bool("fix", false, "apply the suggested fix to a broken pattern and parse the result")
	cmd.Flags().String("package", "patterns", "package clause for --format go")
	cmd.Flags().String("name", "Pattern", "variable name for --format go")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "canonical", "tree", "json", "msgpack", "go":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	pattern, err := readPatternArg(cmd, args)
	if err != nil {
		return err
	}

	opts := driver.ParseOptions{
		Parser:         s.parser,
		MaxDiagnostics: s.maxDiagnostics,
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		if opts.Cache, err = driver.OpenDiskCache("bfgex"); err != nil {
			return err
		}
	}

	result := driver.Parse(cmd.Context(), pattern, opts)
	if s.timings {
		driver.AppendTimings(result.Bag, result.File.Span(), "parse", "", result.Timing)
	}
	printDiagnostics(cmd.ErrOrStderr(), s, result.Bag, result.FileSet)
	if result.Err != nil {
		applyFix, err := cmd.Flags().GetBool("fix")
		if err != nil {
			return fmt.Errorf("failed to get fix flag: %w", err)
		}
		if !applyFix {
			return errReported
		}
		fixed, ok := fixPattern(cmd, s, result)
		if !ok {
			return errReported
		}
		pattern = fixed
		result = driver.Parse(cmd.Context(), pattern, opts)
		printDiagnostics(cmd.ErrOrStderr(), s, result.Bag, result.FileSet)
		if result.Err != nil {
			return errReported
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		return diagfmt.FormatTree(out, result.Tree)
	case "json":
		return diagfmt.FormatTreeJSON(out, pattern, result.Tree)
	case "msgpack":
		data, err := ast.MarshalMsgpack(result.Tree)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "go":
		pkg, err := cmd.Flags().GetString("package")
		if err != nil {
			return fmt.Errorf("failed to get package flag: %w", err)
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return fmt.Errorf("failed to get name flag: %w", err)
		}
		return codegen.Generate(out, codegen.Config{
			Package: pkg,
			Name:    name,
			Pattern: pattern,
			Tree:    result.Tree,
		})
	default:
		_, err = fmt.Fprintln(out, ast.Render(result.Tree))
		return err
	}
}

// readPatternArg returns the pattern argument, or standard input with the
// trailing line break removed under --stdin.
func readPatternArg(cmd *cobra.Command, args []string) (string, error) {
	fromStdin := false
	if f := cmd.Flags().Lookup("stdin"); f != nil {
		var err error
		if fromStdin, err = cmd.Flags().GetBool("stdin"); err != nil {
			return "", fmt.Errorf("failed to get stdin flag: %w", err)
		}
	}
	switch {
	case fromStdin && len(args) > 0:
		return "", fmt.Errorf("--stdin and a pattern argument are mutually exclusive")
	case fromStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text := strings.TrimSuffix(string(data), "\n")
		return strings.TrimSuffix(text, "\r"), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("missing pattern (pass it as an argument or use --stdin)")
	}
}

// fixPattern applies the fix attached to the parse failure and returns the
// corrected pattern.
func fixPattern(cmd *cobra.Command, s *settings, result *driver.ParseResult) (string, bool) {
	applied, err := fix.Apply(result.FileSet, result.Bag.Items(), fix.ApplyModeOnce)
	if err != nil {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "fix: %v\n", err)
		}
		return "", false
	}
	fixed := string(applied.FileChanges[0].Content)
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "fix: %s: %s\n", applied.Applied[0].Title, fixed)
	}
	return fixed, true
}

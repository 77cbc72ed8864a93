package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/driver"
	"github.com/alexandresoliveira/bfgex/internal/fix"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file|directory>...",
		Short: "Parse every pattern of the given files",
		Long: `Check reads pattern files (one pattern per line; blank lines and lines
starting with # are skipped) and reports every pattern that does not parse.
Directories are searched for *` + driver.PatternExt + ` files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().Bool("extended", false, "accept the lazy quantifiers ?, *? and +?")
	cmd.Flags().Bool("cache", false, "reuse trees from the on-disk cache")
	cmd.Flags().Bool("fix", false, "write the suggested fixes back into the pattern files")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	files, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", driver.PatternExt)
	}

	opts := driver.CheckOptions{
		Parser:         s.parser,
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
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

	out := cmd.OutOrStdout()
	var result *driver.CheckResult
	if format == "pretty" && !s.quiet && shouldUseTUI(mode, out, len(files)) {
		result, err = runCheckWithUI(cmd.Context(), out, "check", files, opts)
	} else {
		result, err = driver.CheckFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	if s.timings && len(result.Files) > 0 {
		first := result.FileSet.Get(result.Files[0].FileID)
		driver.AppendTimings(result.Bag, first.Span(), "check", "", result.Timing)
	}
	if err := writeDiagnostics(out, format, s, result.Bag, result.FileSet); err != nil {
		return err
	}
	if !s.quiet && format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d patterns in %d files, %d failed\n",
			result.Patterns(), len(result.Files), result.Failed())
	}
	applyFixes, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	if applyFixes && result.Bag.HasErrors() {
		if err := writeFixes(cmd, s, result); err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}

// writeFixes applies every fix suggestion of the check to the files on disk.
// The exit status still reflects the check before the fixes.
func writeFixes(cmd *cobra.Command, s *settings, result *driver.CheckResult) error {
	applied, err := fix.Apply(result.FileSet, result.Bag.Items(), fix.ApplyModeAll)
	if errors.Is(err, fix.ErrNoFixes) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := fix.WriteFiles(applied.FileChanges); err != nil {
		return err
	}
	if !s.quiet {
		errOut := cmd.ErrOrStderr()
		for _, a := range applied.Applied {
			fmt.Fprintf(errOut, "fixed %s: %s\n", a.PrimaryPath, a.Title)
		}
		for _, sk := range applied.Skipped {
			fmt.Fprintf(errOut, "skipped %s: %s\n", sk.Title, sk.Reason)
		}
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phlint-dev/phlint/internal/checker"
	"github.com/phlint-dev/phlint/internal/config"
	"github.com/phlint-dev/phlint/internal/loader"
	"github.com/phlint-dev/phlint/internal/source"
	"github.com/phlint-dev/phlint/reflect"
)

var (
	ignorePrefixes []string
	ignoreGlobs    []string
	evalExpr       string
	showStatistics bool
	outputFormat   string
	selfCheckFlag  bool
	watchMode      bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Type-check one or more source files",
	Long: `Run the full three-pass check (load, resolve classes, validate
statements) over the given files and report diagnostics.

Examples:
  phlint check app.php lib.php
  phlint check --ignore-file-prefix _ src/*.php
  phlint check --statistics --format json src/*.php
  phlint check --watch src/*.php`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSliceVar(&ignorePrefixes, "ignore-file-prefix", nil, "skip files whose basename starts with this prefix (repeatable)")
	checkCmd.Flags().StringSliceVar(&ignoreGlobs, "ignore-glob", nil, "skip files matching this doublestar glob (repeatable)")
	checkCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "check an inline code snippet instead of reading files")
	checkCmd.Flags().BoolVar(&showStatistics, "statistics", false, "print a summary of files/classes/functions checked")
	checkCmd.Flags().StringVar(&outputFormat, "format", "text", "diagnostic output format: text or json")
	checkCmd.Flags().BoolVar(&selfCheckFlag, "self-check", false, "suppress redeclaration diagnostics (checking phlint's own fixture corpus)")
	checkCmd.Flags().BoolVar(&watchMode, "watch", false, "re-run the check whenever a loaded file or the config file changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if watchMode {
		return runWatch(args, cfg)
	}

	result, err := runOnce(args, cfg)
	if err != nil {
		return err
	}
	printResult(result)
	if result.HasError {
		os.Exit(1)
	}
	return nil
}

func loadMergedConfig() (config.Config, error) {
	base, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	override := config.Config{
		IgnoreFilePrefixes: ignorePrefixes,
		IgnoreGlobs:        ignoreGlobs,
		SelfCheck:          selfCheckFlag,
	}
	return base.Merge(override), nil
}

// runOnce performs a single full check, filtering ignored files
// first.
func runOnce(args []string, cfg config.Config) (checker.Result, error) {
	opts := checker.Options{SelfCheck: cfg.SelfCheck, Host: reflect.NewStdlibHost()}

	if evalExpr != "" {
		ep := source.NewEvalProvider("<eval>", evalExpr)
		return checker.Run([]string{"<eval>"}, ep, opts), nil
	}

	files := make([]string, 0, len(args))
	for _, f := range args {
		if cfg.IsIgnored(f) {
			continue
		}
		files = append(files, f)
	}

	var fp loader.FileProvider = source.NewDiskProvider()
	return checker.Run(files, fp, opts), nil
}

func printResult(result checker.Result) {
	switch outputFormat {
	case "json":
		printJSON(result)
	default:
		printText(result)
	}
}

func printText(result checker.Result) {
	for _, d := range result.Diagnostics {
		fmt.Println(d.Block())
	}
	if showStatistics {
		fmt.Printf("\nrun %s: checked %d file(s), %d class(es), %d function(s).\n",
			result.RunID, len(result.CheckedFiles), result.ClassCount, result.FunctionCount)
	}
}

func printJSON(result checker.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/harness"
	"github.com/roach88/soqlgen/internal/schema"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // suite filter (glob pattern on the file name)
}

// SuiteResult holds the result of a single suite file.
type SuiteResult struct {
	Path   string          `json:"path"`
	Result *harness.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Suites []SuiteResult `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suite.yaml|dir>...",
		Short: "Run scenario suites",
		Long: `Run scenario suites: YAML files of questions with the queries, objects
and diagnostics their generations must have.

Directories contribute their *.yaml and *.yml files. A suite without a
schema key runs against the configured schema.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed, or a suite could not run
  2 - Command error (invalid paths, etc.)

Examples:
  soqlgen test ./scenarios
  soqlgen test ./scenarios --filter "support*"
  soqlgen test reference.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := harness.FindSuites(paths)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, "failed to find suites", err)
	}
	files, err = filterSuites(files, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, "invalid filter pattern", err)
	}

	cfg, err := opts.settings()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	var fallback *schema.Graph
	if cfg.Schema.Path != "" {
		if fallback, err = LoadSchema(cfg.Schema.Path); err != nil {
			return failLoad(formatter, err)
		}
	}

	result := TestResult{Suites: make([]SuiteResult, 0, len(files))}
	for _, file := range files {
		sr := runSuite(file, fallback, opts)
		result.Suites = append(result.Suites, sr)

		if sr.Result == nil {
			result.Failed++
			result.Total++
			continue
		}
		result.Passed += sr.Result.Passed()
		result.Failed += sr.Result.Failed()
		result.Total += len(sr.Result.Cases)
	}

	if formatter.Format == "json" {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// runSuite loads and runs one suite file. Load and run errors are recorded
// in the result rather than returned.
func runSuite(file string, fallback *schema.Graph, opts *TestOptions) SuiteResult {
	sr := SuiteResult{Path: file}

	suite, err := harness.LoadSuite(file)
	if err != nil {
		sr.Error = fmt.Sprintf("failed to load suite: %v", err)
		return sr
	}

	harnessOpts := []harness.Option{harness.WithLogger(opts.logger())}
	if suite.Schema == "" && fallback != nil {
		harnessOpts = append(harnessOpts, harness.WithGraph(fallback))
	}
	res, err := harness.Run(suite, harnessOpts...)
	if err != nil {
		sr.Error = fmt.Sprintf("failed to run suite: %v", err)
		return sr
	}
	sr.Result = res
	return sr
}

// filterSuites keeps the files whose base name, without extension, matches
// pattern. An empty pattern keeps everything.
func filterSuites(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	var out []string
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeScenario,
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}

	if err := formatter.encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer

	if len(result.Suites) == 0 {
		fmt.Fprintln(w, "No suites found.")
		return nil
	}

	for _, sr := range result.Suites {
		if sr.Result == nil {
			fmt.Fprintf(w, "✗ %s\n  %s\n\n", sr.Path, sr.Error)
			continue
		}
		if _, err := w.Write(harness.Render(sr.Result)); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}

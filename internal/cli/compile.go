package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstdb/criteria/internal/criterion"
	"github.com/karstdb/criteria/internal/dialect"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dialect string
}

// CompileReport is the JSON payload of a successful compile.
type CompileReport struct {
	Dialect string        `json:"dialect"`
	SQL     string        `json:"sql"`
	Params  []ParamReport `json:"params"`
}

// ParamReport describes one bound parameter in placeholder order.
type ParamReport struct {
	Placeholder string `json:"placeholder"`
	Table       string `json:"table,omitempty"`
	Column      string `json:"column,omitempty"`
	Value       any    `json:"value"`
	Type        string `json:"type,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <condition.yaml>",
		Short: "Compile a condition document to a parameterized SQL fragment",
		Long: `Compile a YAML condition document to a SQL fragment with :pN named
placeholders and its ordered parameter list.

Placeholder numbers always equal the 1-based position of the bound value
in the parameter list, across the whole condition tree.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "sqlite",
		fmt.Sprintf("target dialect %v", dialect.Names))

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	d, err := dialect.FromName(opts.Dialect, nil)
	if err != nil {
		return outputCommandError(formatter, "BAD_DIALECT", err.Error())
	}

	node, err := LoadCondition(path)
	if err != nil {
		return outputCommandError(formatter, "BAD_DOCUMENT", err.Error())
	}

	formatter.VerboseLog("Loaded condition from %s", path)

	sql, params, err := criterion.Compile(node, d)
	if err != nil {
		var ce *criterion.ClauseError
		code := "COMPILE_FAILED"
		if errors.As(err, &ce) {
			code = string(ce.Code)
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}

	report := buildReport(opts.Dialect, sql, params)
	return outputCompileSuccess(formatter, report)
}

func buildReport(dialectName, sql string, params *criterion.Params) CompileReport {
	records := params.Records()
	report := CompileReport{
		Dialect: dialectName,
		SQL:     sql,
		Params:  make([]ParamReport, len(records)),
	}
	for i, rec := range records {
		report.Params[i] = ParamReport{
			Placeholder: criterion.Placeholder(i + 1),
			Table:       rec.Table,
			Column:      rec.Column,
			Value:       criterion.Native(rec.Value),
			Type:        string(rec.Type),
		}
	}
	return report
}

// outputCompileSuccess outputs a successful compilation.
func outputCompileSuccess(formatter *OutputFormatter, report CompileReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled for %s\n\n", report.Dialect)
	fmt.Fprintf(formatter.Writer, "SQL: %s\n", report.SQL)

	if len(report.Params) > 0 {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, "Parameters:")
		for _, p := range report.Params {
			target := ""
			switch {
			case p.Table != "" && p.Column != "":
				target = fmt.Sprintf(" (%s.%s)", p.Table, p.Column)
			case p.Column != "":
				target = fmt.Sprintf(" (%s)", p.Column)
			}
			fmt.Fprintf(formatter.Writer, "  %s = %v%s\n", p.Placeholder, p.Value, target)
		}
	}

	return nil
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

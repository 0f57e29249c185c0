package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karstdb/criteria/internal/criterion"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateReport is the JSON payload of a validate run.
type ValidateReport struct {
	OK       bool            `json:"ok"`
	Findings []FindingReport `json:"findings,omitempty"`
}

// FindingReport describes one validation finding.
type FindingReport struct {
	Code    string `json:"code"`
	Table   string `json:"table,omitempty"`
	Column  string `json:"column,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <condition.yaml>",
		Short: "Check a condition document for placeholder/value arity issues",
		Long: `Run the pre-flight arity pass over a YAML condition document.

The compiler itself is permissive for most clause shapes; validate
reports every template whose placeholder count does not match the number
of values its clause would bind.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	node, err := LoadCondition(path)
	if err != nil {
		return outputCommandError(formatter, "BAD_DOCUMENT", err.Error())
	}

	result := criterion.Validate(node)
	report := ValidateReport{OK: result.OK}
	for _, f := range result.Findings {
		report.Findings = append(report.Findings, FindingReport{
			Code:    string(f.Code),
			Table:   f.Table,
			Column:  f.Column,
			Kind:    f.Kind.String(),
			Message: f.Message,
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if result.OK {
		fmt.Fprintln(formatter.Writer, "✓ No findings")
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %d finding(s)\n\n", len(result.Findings))
		for _, f := range result.Findings {
			fmt.Fprintf(formatter.Writer, "  %s\n", f)
		}
	}

	if !result.OK {
		return NewExitError(ExitFailure, fmt.Sprintf("validation produced %d finding(s)", len(result.Findings)))
	}
	return nil
}

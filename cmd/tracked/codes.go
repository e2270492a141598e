package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tracked/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code tracked can report, or explain a single code.

Examples:
  tracked errors
  tracked errors T012`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return explainCode(out, args[0])
			}
			listCodes(out)
			return nil
		},
	}
}

// listCodes prints one line per registered code, in code order.
func listCodes(out io.Writer) {
	for _, code := range errors.GetAllCodes() {
		tmpl, _ := errors.GetTemplate(code)
		fmt.Fprintf(out, "  %s  %-10s  %s\n", code, tmpl.Category, tmpl.Message)
	}
}

func explainCode(out io.Writer, code string) error {
	tmpl, ok := errors.GetTemplate(code)
	if !ok {
		return errors.Newf(errors.CategoryCLI, "unknown error code %q", code).
			WithSuggestion("Run 'tracked errors' to list every code")
	}

	fmt.Fprintf(out, "%s: %s\n\n", code, tmpl.Message)
	fmt.Fprintf(out, "  Category:    %s\n", tmpl.Category)
	fmt.Fprintf(out, "  HTTP status: %d\n", tmpl.Status)
	if tmpl.Detail != "" {
		fmt.Fprintf(out, "\n  %s\n", tmpl.Detail)
	}
	return nil
}

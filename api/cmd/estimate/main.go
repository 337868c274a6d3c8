package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tax-moguls/api/internal/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		server   string
		token    string
		locale   string
		stateDir string
		asJSON   bool
		form     client.FormState
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Request a federal refund estimate from a Tax Moguls server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if stateDir == "" {
				base, err := os.UserConfigDir()
				if err != nil {
					base = os.TempDir()
				}
				stateDir = filepath.Join(base, "tax-moguls")
			}

			c := client.New(server, token, locale, stateDir)
			res, err := c.Estimate(cmd.Context(), form)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
			}
			est := res.JSONResult.Estimate
			fmt.Fprintf(cmd.OutOrStdout(), "Estimated refund: $%.0f - $%.0f\n\n%s\n", est.RefundLow, est.RefundHigh, res.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "estimate server base URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("EMBED_TOKEN"), "embed token, if the server requires one")
	cmd.Flags().StringVar(&locale, "locale", os.Getenv("LANG"), "device locale used for the summary language")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "directory for device state (default: user config dir)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	cmd.Flags().IntVar(&form.TaxYear, "tax-year", 2025, "tax year to file for")
	cmd.Flags().StringVar(&form.FilingStatus, "filing-status", "single", "single, married_joint, married_separate or hoh")
	cmd.Flags().IntVar(&form.U17Dependents, "u17-dependents", 0, "dependents under 17")
	cmd.Flags().IntVar(&form.OtherDependents, "other-dependents", 0, "other dependents")
	cmd.Flags().Float64Var(&form.W2Wages, "w2-wages", 0, "W-2 wages (box 1 total)")
	cmd.Flags().Float64Var(&form.FederalWithholding, "federal-withholding", 0, "federal tax withheld (box 2 total)")
	cmd.Flags().Float64Var(&form.SelfEmploymentGross, "se-gross", 0, "self-employment gross income")
	cmd.Flags().Float64Var(&form.SelfEmploymentExpenses, "se-expenses", 0, "self-employment business expenses")
	cmd.Flags().Float64Var(&form.Unemployment, "unemployment", 0, "unemployment income")
	cmd.Flags().Float64Var(&form.StudentLoanInterest, "student-loan-interest", 0, "student loan interest paid")

	return cmd
}

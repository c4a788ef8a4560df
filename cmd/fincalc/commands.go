package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Dan9191/fincalc/internal/models"
	"github.com/Dan9191/fincalc/internal/service"
	"github.com/spf13/cobra"
)

type serviceFunc func() *service.Service

func readJSON(cmd *cobra.Command, path string, dst any) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := json.NewDecoder(in).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func debtCmd(svc serviceFunc) *cobra.Command {
	var file string
	var analyzeOnly bool

	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Simulate a debt payoff plan",
		Long: `Reads a debt calculation request and prints the month-by-month payoff plan.
With --analyze only the summary and the recommended strategy are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.DebtCalculationRequest
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}
			if analyzeOnly {
				res, err := svc().AnalyzeDebts(req.Debts, req.MonthlyIncome)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			}
			res, err := svc().CalculateDebtPlan(req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, - for stdin")
	cmd.Flags().BoolVar(&analyzeOnly, "analyze", false, "print the analysis instead of the plan")
	return cmd
}

func irrCmd(svc serviceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "irr [--] <flow> <flow>...",
		Short: "Solve the internal rate of return of a cash-flow series",
		Long: `Flows are per period, the first one usually negative. Put -- before the
flows so a leading negative amount is not read as a flag. Prints null when
the solver does not converge.`,
		Example: "  fincalc irr -- -1000 1100",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flows := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid cash flow %q: %w", a, err)
				}
				flows[i] = v
			}
			res, err := svc().CalculateIRR(models.IRRRequest{CashFlows: flows})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func roiCmd(svc serviceFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Analyze the return of an investment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := service.DefaultROIRequest()
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}
			res, err := svc().CalculateROI(req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, - for stdin")
	return cmd
}

func loansCmd(svc serviceFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Compare loan offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.LoanComparisonRequest
			if err := readJSON(cmd, file, &req); err != nil {
				return err
			}
			res, err := svc().CompareLoans(req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, - for stdin")
	return cmd
}

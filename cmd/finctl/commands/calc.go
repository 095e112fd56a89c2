package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"finframe/internal/domain/finance"
	"finframe/internal/shared/money"
)

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Financial formulas (rates are annual fractions, 0.05 is 5%)",
	}
	cmd.AddCommand(compoundCmd(), loanCmd(), mortgageCmd(), growthCmd())
	return cmd
}

func compoundCmd() *cobra.Command {
	var perYear int
	cmd := &cobra.Command{
		Use:   "compound [principal] [rate] [years]",
		Short: "Future value of a compounded deposit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimalArg("principal", args[0])
			if err != nil {
				return err
			}
			rate, err := decimalArg("rate", args[1])
			if err != nil {
				return err
			}
			years, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid years %q: %w", args[2], err)
			}

			total, err := finance.CompoundInterest(principal, rate, years, perYear)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), money.Format(total))
			return nil
		},
	}
	cmd.Flags().IntVarP(&perYear, "compounds", "n", 1, "compounding periods per year")
	return cmd
}

func loanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loan [principal] [rate] [months]",
		Short: "Monthly payment of an amortized loan",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimalArg("principal", args[0])
			if err != nil {
				return err
			}
			rate, err := decimalArg("rate", args[1])
			if err != nil {
				return err
			}
			months, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid months %q: %w", args[2], err)
			}

			payment, err := finance.LoanPayment(principal, rate, months)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), money.Format(payment))
			return nil
		},
	}
}

func mortgageCmd() *cobra.Command {
	var frequency string
	cmd := &cobra.Command{
		Use:   "mortgage [principal] [rate] [years]",
		Short: "Periodic mortgage payment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimalArg("principal", args[0])
			if err != nil {
				return err
			}
			rate, err := decimalArg("rate", args[1])
			if err != nil {
				return err
			}
			years, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid years %q: %w", args[2], err)
			}

			payment, err := finance.MortgagePayment(principal, rate, years, finance.Frequency(frequency))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), money.Format(payment))
			return nil
		},
	}
	cmd.Flags().StringVarP(&frequency, "frequency", "f", string(finance.Monthly), "monthly, biweekly or weekly")
	return cmd
}

func growthCmd() *cobra.Command {
	var monthlyStr string
	cmd := &cobra.Command{
		Use:   "growth [initial] [rate] [years]",
		Short: "Year-by-year value of an investment with monthly contributions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := decimalArg("initial", args[0])
			if err != nil {
				return err
			}
			rate, err := decimalArg("rate", args[1])
			if err != nil {
				return err
			}
			years, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid years %q: %w", args[2], err)
			}
			monthly, err := decimalArg("monthly", monthlyStr)
			if err != nil {
				return err
			}

			g, err := finance.InvestmentGrowth(initial, monthly, rate, years)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %18s %18s %18s\n", "year", "value", "invested", "growth")
			for _, y := range g.Results {
				fmt.Fprintf(out, "%-5d %18s %18s %18s\n", y.Year, money.Format(y.Value), money.Format(y.Investment), money.Format(y.Growth))
			}
			fmt.Fprintf(out, "final %s, invested %s, growth %s\n",
				money.Format(g.FinalValue), money.Format(g.TotalInvestment), money.Format(g.TotalGrowth))
			return nil
		},
	}
	cmd.Flags().StringVarP(&monthlyStr, "monthly", "m", "0", "monthly contribution")
	return cmd
}

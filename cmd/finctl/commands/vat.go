package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finframe/internal/shared/money"
)

func vatCmd() *cobra.Command {
	var rateStr string
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Value added tax (rates are percentages)",
	}
	cmd.PersistentFlags().StringVarP(&rateStr, "rate", "r", money.DefaultVATRate.String(), "VAT rate in percent")

	rate := func() (decimal.Decimal, error) {
		return decimalArg("rate", rateStr)
	}

	add := &cobra.Command{
		Use:   "add [net]",
		Short: "Add VAT on top of a net amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := decimalArg("amount", args[0])
			if err != nil {
				return err
			}
			r, err := rate()
			if err != nil {
				return err
			}
			vat, gross := money.VAT(net, r)
			printVAT(cmd, net, vat, gross)
			return nil
		},
	}

	extract := &cobra.Command{
		Use:   "extract [gross]",
		Short: "Split a gross amount into net and VAT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := decimalArg("amount", args[0])
			if err != nil {
				return err
			}
			r, err := rate()
			if err != nil {
				return err
			}
			net, vat := money.ExtractVAT(gross, r)
			printVAT(cmd, net, vat, gross)
			return nil
		},
	}

	cmd.AddCommand(add, extract)
	return cmd
}

func printVAT(cmd *cobra.Command, net, vat, gross decimal.Decimal) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "net   %s\n", money.Format(net))
	fmt.Fprintf(out, "vat   %s\n", money.Format(vat))
	fmt.Fprintf(out, "gross %s\n", money.Format(gross))
}

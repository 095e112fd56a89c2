package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finframe/internal/shared/money"
	"finframe/internal/shared/validate"
)

func moneyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Currency formatting and parsing",
	}

	var (
		symbol string
		prefix bool
		places int32
	)
	format := &cobra.Command{
		Use:   "format [amount]",
		Short: `Render an amount, e.g. "1.234,50 ₺"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimalArg("amount", args[0])
			if err != nil {
				return err
			}
			f := money.Formatter{Places: places, Symbol: symbol, Position: money.Suffix}
			if prefix {
				f.Position = money.Prefix
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Format(amount))
			return nil
		},
	}
	format.Flags().StringVarP(&symbol, "symbol", "s", money.DefaultFormatter.Symbol, "currency symbol")
	format.Flags().BoolVar(&prefix, "prefix", false, "put the symbol before the number")
	format.Flags().Int32VarP(&places, "places", "p", money.DefaultFormatter.Places, "decimal places")

	var dot, strict bool
	parse := &cobra.Command{
		Use:   "parse [text]",
		Short: `Read a typed amount such as "1.234,56 ₺"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict {
				if err := validate.CurrencyFormat(args[0]); err != nil {
					return err
				}
			}
			sep := ','
			if dot {
				sep = '.'
			}
			fmt.Fprintln(cmd.OutOrStdout(), money.Parse(args[0], sep).String())
			return nil
		},
	}
	parse.Flags().BoolVar(&dot, "dot", false, "the decimal separator is '.' instead of ','")
	parse.Flags().BoolVar(&strict, "strict", false, "fail on text that is not a non-negative amount instead of printing 0")
	parse.MarkFlagsMutuallyExclusive("dot", "strict")

	cmd.AddCommand(format, parse)
	return cmd
}

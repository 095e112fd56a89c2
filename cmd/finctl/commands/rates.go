package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finframe/internal/infrastructure/exchangerate"
	"finframe/internal/infrastructure/postgres"
	"finframe/internal/infrastructure/postgres/listener"
	"finframe/internal/shared/cache"
	"finframe/internal/shared/config"
	"finframe/internal/shared/money"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rates",
	}
	cmd.AddCommand(convertCmd(), flushCmd())
	return cmd
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [amount] [from] [to]",
		Short: "Convert an amount with the latest rates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimalArg("amount", args[0])
			if err != nil {
				return err
			}
			if !amount.IsPositive() {
				return fmt.Errorf("amount must be greater than zero")
			}

			cfg, err := config.LoadExchangeRate()
			if err != nil {
				return err
			}
			client := exchangerate.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
			svc := exchangerate.NewService(client, cache.New(), cfg.RatesCacheTTL, cfg.ConvertTTL)

			conv, err := svc.Convert(cmd.Context(), args[1], args[2], amount)
			if err != nil {
				return err
			}
			f := money.Formatter{Places: 2}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (rate %s, %s)\n",
				f.Format(conv.Amount), conv.From, f.Format(conv.ConvertedAmount), conv.To, conv.Rate, conv.Date)
			return nil
		},
	}
}

func flushCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Drop cached rates on every running API process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			db, err := postgres.New(dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := listener.Publish(cmd.Context(), db, prefix); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published cache flush for prefix %q\n", prefix)
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "exchangerate.", "cache key prefix to drop; empty clears everything")
	return cmd
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finframe/internal/shared/logger"
)

var (
	logLevel string
	verbose  bool
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "finctl",
		Short:         "Personal finance toolkit",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if verbose {
				level = "debug"
			}
			logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level=debug")

	root.AddCommand(calcCmd(), vatCmd(), moneyCmd(), datesCmd(), validateCmd(), ratesCmd(), dbCmd())
	return root
}

// decimalArg parses a command argument or flag value as a decimal.
func decimalArg(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return d, nil
}

package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"finframe/internal/shared/dates"
)

const isoDate = "2006-01-02"

func datesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Month, week and period boundaries",
	}
	cmd.AddCommand(monthCmd(), weekCmd(), rangeCmd())
	return cmd
}

func printBounds(cmd *cobra.Command, start, end time.Time) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dates.Format(start, ""), dates.Format(end, ""))
}

func monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "First and last day of a month (default: this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q: %w", args[0], err)
				}
				ref = t
			}
			start, end := dates.MonthBounds(ref.Year(), ref.Month())
			printBounds(cmd, start, end)
			return nil
		},
	}
}

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [year] [week]",
		Short: "Monday and Sunday of a %W week number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q: %w", args[0], err)
			}
			week, err := strconv.Atoi(args[1])
			if err != nil || week < 0 || week > 53 {
				return fmt.Errorf("invalid week %q: must be 0-53", args[1])
			}
			start, end := dates.WeekBounds(year, week)
			printBounds(cmd, start, end)
			return nil
		},
	}
}

func rangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range [daily|weekly|monthly|yearly] [YYYY-MM-DD]",
		Short: "Window of a period containing a date (default: today)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := dates.Period(args[0])
			if !period.IsValid() {
				return fmt.Errorf("unknown period %q", args[0])
			}
			ref := time.Now()
			if len(args) == 2 {
				d, ok := dates.Parse(args[1], isoDate)
				if !ok {
					return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[1])
				}
				ref = d
			}
			start, end := dates.Range(period, ref)
			printBounds(cmd, start, end)
			return nil
		},
	}
}

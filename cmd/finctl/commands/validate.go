package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finframe/internal/shared/validate"
)

// receiptExtensions are the attachment types accepted for receipts.
var receiptExtensions = []string{"pdf", "jpg", "jpeg", "png"}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check identity numbers, phone numbers, passwords and amounts",
	}

	checks := []struct {
		use, short string
		fn         func(string) error
	}{
		{"tckn [number]", "Turkish identity number checksum", validate.TurkishIdentityNumber},
		{"vkn [number]", "Turkish tax number", validate.TurkishTaxNumber},
		{"phone [number]", "Turkish mobile phone number", validate.TurkishPhone},
		{"password [password]", "Password strength", validate.SecurePassword},
		{"currency [amount]", `Non-negative amount written as "1.234,56 ₺"`, validate.CurrencyFormat},
		{"receipt [file]", "Receipt attachment name (" + strings.Join(receiptExtensions, ", ") + ")", validate.FileExtension(receiptExtensions...)},
	}
	for _, c := range checks {
		fn := c.fn
		cmd.AddCommand(&cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := fn(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			},
		})
	}
	return cmd
}

package commands

import (
	"fmt"

	"github.com/amirasaad/minibank/pkg/currency"
	"github.com/amirasaad/minibank/pkg/domain"
	currencysvc "github.com/amirasaad/minibank/pkg/service/currency"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount between supported currencies",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidAmount, args[0])
			}
			from, err := currency.Parse(args[1])
			if err != nil {
				return err
			}
			to, err := currency.Parse(args[2])
			if err != nil {
				return err
			}
			rates, err := newRateSource()
			if err != nil {
				return err
			}
			conv, err := currencysvc.New(rates, logger).Convert(cmd.Context(), amount, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = ", conv.Amount.StringFixed(2), conv.From)
			valueColor.Fprintf(cmd.OutOrStdout(), "%s %s\n", conv.Converted.StringFixed(2), conv.To)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	currencysvc "github.com/amirasaad/minibank/pkg/service/currency"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	codeColor   = color.New(color.FgYellow)
	valueColor  = color.New(color.FgGreen)
)

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the current rate of every supported currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rates, err := newRateSource()
			if err != nil {
				return err
			}
			svc := currencysvc.New(rates, logger)
			quotes, err := svc.ListRates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			headerColor.Fprintf(out, "%-8s %14s  %s\n", "CODE", "RATE", "SOURCE")
			for _, q := range quotes {
				codeColor.Fprintf(out, "%-8s ", q.Currency)
				valueColor.Fprintf(out, "%14s", q.Value.StringFixed(4))
				fmt.Fprintf(out, "  %s\n", q.Source)
			}
			return nil
		},
	}
}

package cli

import (
	"context"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/model"
	"github.com/spf13/cobra"
)

func TaxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Calculate PAIS and Ganancias taxes on a foreign purchase",
	}

	cmd.AddCommand(taxCurrencyCmd("ars [amount]", "Taxes on an amount already in pesos", (*client.Client).CalculateARS))
	cmd.AddCommand(taxCurrencyCmd("usd [amount]", "Taxes on an amount in dollars", (*client.Client).CalculateUSD))

	return cmd
}

func taxCurrencyCmd(use, short string, calculate func(*client.Client, context.Context, float64) (model.TaxBreakdown, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				b, err := calculate(c, ctx, amount)
				if err != nil {
					return err
				}
				print.TaxBreakdown(cmd.OutOrStdout(), b, outputFormat())
				return nil
			})
		},
	}
}

package cli

import (
	"context"
	"strconv"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func BalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show your account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				acc, err := c.Balance(ctx)
				if err != nil {
					return err
				}
				print.Account(cmd.OutOrStdout(), acc, outputFormat())
				return nil
			})
		},
	}
}

func DepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Add money to your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				acc, err := c.Deposit(ctx, amount)
				if err != nil {
					return err
				}
				print.Account(cmd.OutOrStdout(), acc, outputFormat())
				return nil
			})
		},
	}
}

func AliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias [alias]",
		Short: "Change the alias of your account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				acc, err := c.UpdateAlias(ctx, args[0])
				if err != nil {
					return err
				}
				print.Account(cmd.OutOrStdout(), acc, outputFormat())
				return nil
			})
		},
	}
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("%q is not a valid amount", s)
	}
	return amount, nil
}

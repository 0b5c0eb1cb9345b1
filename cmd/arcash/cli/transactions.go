package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func TransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txs"},
		Short:   "List your transactions or search for recipients",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			more, _ := cmd.Flags().GetInt("more")
			reload, _ := cmd.Flags().GetBool("reload")
			search, _ := cmd.Flags().GetString("search")

			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if search != "" {
					found, err := c.SearchRecipients(ctx, search)
					if err != nil {
						return err
					}
					print.Recipients(cmd.OutOrStdout(), found, outputFormat())
					return nil
				}

				pages, err := c.TransactionPages(ctx, reload)
				if err != nil {
					return err
				}
				for i := 0; i < more && pages.HasMore(); i++ {
					pages.More()
				}
				creds, err := c.Session().Credentials(ctx)
				if err != nil {
					return err
				}
				print.Transactions(cmd.OutOrStdout(), pages.Displayed(), creds.AccountID, outputFormat())
				if outputFormat() != print.FormatJSON {
					fmt.Fprintf(cmd.ErrOrStderr(), "Showing %d of %d\n", len(pages.Displayed()), pages.Total())
				}
				return nil
			})
		},
	}

	cmd.Flags().Int("more", 0, "number of extra pages to show")
	cmd.Flags().Bool("reload", false, "ignore the cached history and fetch it again")
	cmd.Flags().String("search", "", "search recipients by alias or CVU instead of listing transactions")

	return cmd
}

func TransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [alias|cvu|account] [amount]",
		Short: "Send money to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			description, _ := cmd.Flags().GetString("description")

			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				dest, err := resolveRecipient(ctx, c, args[0])
				if err != nil {
					return err
				}
				tx, err := c.Transfer(ctx, dest.AccountID, model.TransferRequest{Amount: amount, Description: description})
				if err != nil {
					return err
				}
				if outputFormat() == print.FormatJSON {
					print.Transactions(cmd.OutOrStdout(), []model.Transaction{tx}, tx.FromAccountID, outputFormat())
					return nil
				}
				print.Success(cmd.OutOrStdout(), "Sent %.2f to %s", tx.Amount, recipientLabel(dest))
				return nil
			})
		},
	}

	cmd.Flags().String("description", "", "note shown on the transaction")

	return cmd
}

// resolveRecipient finds the account behind an alias, CVU or account id. Exact matches win
// over partial ones and an ambiguous partial match is an error.
func resolveRecipient(ctx context.Context, c *client.Client, query string) (model.Recipient, error) {
	found, err := c.SearchRecipients(ctx, query)
	if err != nil {
		return model.Recipient{}, err
	}
	for _, r := range found {
		if strings.EqualFold(r.Alias, query) || r.CVU == query || r.AccountID == query {
			return r, nil
		}
	}
	switch len(found) {
	case 0:
		// search does not look at account ids
		return model.Recipient{AccountID: query}, nil
	case 1:
		return found[0], nil
	}
	return model.Recipient{}, errors.Errorf("%q matches %d accounts, use the full alias or CVU", query, len(found))
}

func recipientLabel(r model.Recipient) string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.AccountID
}

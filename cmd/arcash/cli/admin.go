package cli

import (
	"context"
	"strings"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/internal/utils"
	"github.com/jrsteele09/arcash/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	users.AddCommand(AdminUsersListCmd())
	users.AddCommand(AdminUsersGetCmd())
	users.AddCommand(AdminUsersUpdateCmd())
	cmd.AddCommand(users)

	return cmd
}

func AdminUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				list, err := c.AdminUsers(ctx)
				if err != nil {
					return err
				}
				print.Users(cmd.OutOrStdout(), list, outputFormat())
				return nil
			})
		},
	}
}

func AdminUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				u, err := c.AdminUser(ctx, args[0])
				if err != nil {
					return err
				}
				print.User(cmd.OutOrStdout(), u, outputFormat())
				return nil
			})
		},
	}
}

func AdminUsersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change the role, blocked or verified state of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := model.AdminUserUpdate{}
			if cmd.Flags().Changed("role") {
				role, _ := cmd.Flags().GetString("role")
				update.Role = utils.Ptr(strings.ToUpper(role))
			}
			if cmd.Flags().Changed("blocked") {
				blocked, _ := cmd.Flags().GetBool("blocked")
				update.Blocked = utils.Ptr(blocked)
			}
			if cmd.Flags().Changed("verified") {
				verified, _ := cmd.Flags().GetBool("verified")
				update.Verified = utils.Ptr(verified)
			}
			if update.Role == nil && update.Blocked == nil && update.Verified == nil {
				return errors.New("nothing to update, use --role, --blocked or --verified")
			}

			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				u, err := c.AdminUpdateUser(ctx, args[0], update)
				if err != nil {
					return err
				}
				print.User(cmd.OutOrStdout(), u, outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().String("role", "", "USER or ADMIN")
	cmd.Flags().Bool("blocked", false, "block or unblock the user")
	cmd.Flags().Bool("verified", false, "mark the email as verified or not")

	return cmd
}

package cli

import (
	"context"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/internal/utils"
	"github.com/jrsteele09/arcash/model"
	"github.com/spf13/cobra"
)

func WhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cached, _ := cmd.Flags().GetBool("cached")
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if cached {
					if u, ok, err := c.Session().Profile(ctx); err == nil && ok {
						print.User(cmd.OutOrStdout(), u, outputFormat())
						return nil
					}
				}
				u, err := c.UserData(ctx)
				if err != nil {
					return err
				}
				print.User(cmd.OutOrStdout(), u, outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().Bool("cached", false, "show the profile saved at the last lookup without calling the API")

	return cmd
}

func ProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	cmd.AddCommand(ProfileUpdateCmd())

	return cmd
}

func ProfileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name, surname or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.UpdateUserRequest{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				req.Name = utils.Ptr(name)
			}
			if cmd.Flags().Changed("surname") {
				surname, _ := cmd.Flags().GetString("surname")
				req.Surname = utils.Ptr(surname)
			}
			if cmd.Flags().Changed("new-password") {
				password, _ := cmd.Flags().GetString("new-password")
				req.NewPassword = utils.Ptr(password)
			}
			current, err := flagOrPrompt(cmd, "current-password", "Current password: ")
			if err != nil {
				return err
			}
			req.CurrentPassword = current

			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				u, err := c.UpdateUserData(ctx, req)
				if err != nil {
					return err
				}
				print.User(cmd.OutOrStdout(), u, outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "new first name")
	cmd.Flags().String("surname", "", "new surname")
	cmd.Flags().String("new-password", "", "new password")
	cmd.Flags().String("current-password", "", "current password (prompted when empty)")

	return cmd
}

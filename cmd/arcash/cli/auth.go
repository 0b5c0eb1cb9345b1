package cli

import (
	"context"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/model"
	"github.com/spf13/cobra"
)

func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to ArCash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := flagOrPrompt(cmd, "email", "Email: ")
			if err != nil {
				return err
			}
			password, err := flagOrPrompt(cmd, "password", "Password: ")
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				out, err := c.Login(ctx, email, password)
				if err != nil {
					return err
				}
				print.Success(cmd.OutOrStdout(), "Logged in as %s (account %s)", email, out.AccountID)
				return nil
			})
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (prompted when empty)")

	return cmd
}

func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				c.Logout(ctx)
				print.Success(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an ArCash account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.RegisterRequest{}
			var err error
			if req.Name, err = flagOrPrompt(cmd, "name", "Name: "); err != nil {
				return err
			}
			if req.Surname, err = flagOrPrompt(cmd, "surname", "Surname: "); err != nil {
				return err
			}
			if req.Email, err = flagOrPrompt(cmd, "email", "Email: "); err != nil {
				return err
			}
			if req.Password, err = flagOrPrompt(cmd, "password", "Password: "); err != nil {
				return err
			}
			req.DNI, _ = cmd.Flags().GetString("dni")

			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if _, err := c.Register(ctx, req); err != nil {
					return err
				}
				print.Success(cmd.OutOrStdout(), "Account created. Check %s for the validation code and run 'arcash verify <code>'", req.Email)
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "first name")
	cmd.Flags().String("surname", "", "surname")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "password (prompted when empty)")
	cmd.Flags().String("dni", "", "national identity document number")

	return cmd
}

func VerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [code]",
		Short: "Validate your email with the code you received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				msg, err := c.ValidateEmail(ctx, args[0])
				if err != nil {
					return err
				}
				print.Message(cmd.OutOrStdout(), msg, "Email validated", outputFormat())
				return nil
			})
		},
	}
}

func ResendValidationCmd() *cobra.Command {
	return emailActionCmd("resend-validation [email]", "Send the email validation code again", "Validation email sent",
		(*client.Client).ResendValidation)
}

func RecoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover a forgotten password",
	}

	cmd.AddCommand(emailActionCmd("send [email]", "Send a password recovery code", "Recovery email sent",
		(*client.Client).SendRecoverMail))
	cmd.AddCommand(emailActionCmd("resend [email]", "Send the password recovery code again", "Recovery email sent",
		(*client.Client).ResendPasswordRecovery))
	cmd.AddCommand(RecoverValidateCmd())
	cmd.AddCommand(RecoverResetCmd())

	return cmd
}

func RecoverValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [code]",
		Short: "Check a password recovery code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				msg, err := c.ValidateRecoveryToken(ctx, args[0])
				if err != nil {
					return err
				}
				print.Message(cmd.OutOrStdout(), msg, "Recovery code is valid", outputFormat())
				return nil
			})
		},
	}
}

func RecoverResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset [code]",
		Short: "Choose a new password with a recovery code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := flagOrPrompt(cmd, "password", "New password: ")
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				msg, err := c.ResetPassword(ctx, args[0], password)
				if err != nil {
					return err
				}
				print.Message(cmd.OutOrStdout(), msg, "Password updated. You can now log in", outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().String("password", "", "new password (prompted when empty)")

	return cmd
}

func emailActionCmd(use, short, done string, action func(*client.Client, context.Context, string) (model.Message, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				msg, err := action(c, ctx, args[0])
				if err != nil {
					return err
				}
				print.Message(cmd.OutOrStdout(), msg, done, outputFormat())
				return nil
			})
		},
	}
}

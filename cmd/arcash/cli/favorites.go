package cli

import (
	"context"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/model"
	"github.com/spf13/cobra"
)

func FavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "Manage favorite recipients",
	}

	cmd.AddCommand(FavoritesListCmd())
	cmd.AddCommand(FavoritesGetCmd())
	cmd.AddCommand(FavoritesAddCmd())
	cmd.AddCommand(FavoritesUpdateCmd())
	cmd.AddCommand(FavoritesDeleteCmd())

	return cmd
}

func FavoritesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favorite recipients",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			more, _ := cmd.Flags().GetInt("more")
			reload, _ := cmd.Flags().GetBool("reload")
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				pages, err := c.FavoritePages(ctx, reload)
				if err != nil {
					return err
				}
				for i := 0; i < more && pages.HasMore(); i++ {
					pages.More()
				}
				print.Favorites(cmd.OutOrStdout(), pages.Displayed(), outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().Int("more", 0, "number of extra pages to show")
	cmd.Flags().Bool("reload", false, "ignore the cached list and fetch it again")

	return cmd
}

func FavoritesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				fav, err := c.Favorite(ctx, args[0])
				if err != nil {
					return err
				}
				print.Favorites(cmd.OutOrStdout(), []model.Favorite{fav}, outputFormat())
				return nil
			})
		},
	}
}

func FavoritesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [alias]",
		Short: "Save an account alias as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				fav, err := c.CreateFavorite(ctx, model.FavoriteRequest{Alias: args[0], Name: name})
				if err != nil {
					return err
				}
				print.Favorites(cmd.OutOrStdout(), []model.Favorite{fav}, outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "display name of the favorite")

	return cmd
}

func FavoritesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Rename a favorite or point it at another alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			alias, _ := cmd.Flags().GetString("alias")
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				current, err := c.Favorite(ctx, args[0])
				if err != nil {
					return err
				}
				req := model.FavoriteRequest{Alias: current.Alias, Name: current.Name}
				if cmd.Flags().Changed("name") {
					req.Name = name
				}
				if cmd.Flags().Changed("alias") {
					req.Alias = alias
				}
				fav, err := c.UpdateFavorite(ctx, args[0], req)
				if err != nil {
					return err
				}
				print.Favorites(cmd.OutOrStdout(), []model.Favorite{fav}, outputFormat())
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "new display name")
	cmd.Flags().String("alias", "", "new account alias")

	return cmd
}

func FavoritesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Remove a favorite",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if err := c.DeleteFavorite(ctx, args[0]); err != nil {
					return err
				}
				print.Success(cmd.OutOrStdout(), "Favorite %s deleted", args[0])
				return nil
			})
		},
	}
}

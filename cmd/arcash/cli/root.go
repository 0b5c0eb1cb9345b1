package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/arcash/client"
	"github.com/jrsteele09/arcash/internal/config"
	apperrors "github.com/jrsteele09/arcash/internal/errors"
	"github.com/jrsteele09/arcash/internal/logging"
	"github.com/jrsteele09/arcash/internal/print"
	"github.com/jrsteele09/arcash/kvstore/sqlite"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arcash",
		Short:         "ArCash wallet from the command line",
		Long:          `Log in to ArCash, check your balance, transfer money and manage favorites.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("base-url", "", "ArCash API base URL")
	cmd.PersistentFlags().String("state", "", "path of the local state database")
	cmd.PersistentFlags().StringP("output", "o", "", "output format. supported values: json")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(LoginCmd())
	cmd.AddCommand(LogoutCmd())
	cmd.AddCommand(RegisterCmd())
	cmd.AddCommand(VerifyCmd())
	cmd.AddCommand(ResendValidationCmd())
	cmd.AddCommand(RecoverCmd())
	cmd.AddCommand(WhoamiCmd())
	cmd.AddCommand(ProfileCmd())
	cmd.AddCommand(BalanceCmd())
	cmd.AddCommand(DepositCmd())
	cmd.AddCommand(AliasCmd())
	cmd.AddCommand(TransactionsCmd())
	cmd.AddCommand(TransferCmd())
	cmd.AddCommand(FavoritesCmd())
	cmd.AddCommand(TaxCmd())
	cmd.AddCommand(AdminCmd())
	cmd.AddCommand(VersionCmd())

	viper.BindPFlags(cmd.PersistentFlags())

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ARCASH")
	viper.AutomaticEnv()
}

// printError shows err as a user-facing message. Rate limiting is only a warning.
func printError(out io.Writer, err error) {
	msg := apperrors.UserMessage(err)
	if apperrors.Is(err, apperrors.ErrRateLimited) {
		print.Warn(out, "%s", msg)
		return
	}
	print.Error(out, "%s", msg)
}

// clientConfig reads the environment and applies flag overrides.
func clientConfig(v *viper.Viper) (config.Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return config.Client{}, errors.Wrap(err, "failed to load config")
	}
	if s := v.GetString("base-url"); s != "" {
		cfg.BaseURL = s
	}
	if s := v.GetString("state"); s != "" {
		cfg.StatePath = s
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.LogLevel = s
	}
	return cfg, nil
}

// withClient opens the local state, builds a client and runs fn with it.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	v := viper.GetViper()
	cfg, err := clientConfig(v)
	if err != nil {
		return err
	}
	logging.Setup(cfg.GetLogLevel(), cmd.ErrOrStderr())

	store, err := sqlite.Open(cfg.GetStatePath())
	if err != nil {
		return errors.Wrap(err, "failed to open local state")
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := client.New(ctx, cfg, store)
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}
	c.OnSessionEnded(func(reason error) {
		print.Warn(cmd.ErrOrStderr(), "Your session has ended. Run 'arcash login' to log in again.")
	})
	return fn(ctx, c)
}

func outputFormat() string {
	return viper.GetString("output")
}

// prompt reads a line from the command input after printing label.
func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrapf(err, "failed to read %s", strings.TrimSuffix(strings.ToLower(label), ": "))
	}
	return strings.TrimSpace(line), nil
}

// flagOrPrompt returns the flag value, asking for it when it was not given.
func flagOrPrompt(cmd *cobra.Command, flag, label string) (string, error) {
	if s, _ := cmd.Flags().GetString(flag); s != "" {
		return s, nil
	}
	return prompt(cmd, label)
}

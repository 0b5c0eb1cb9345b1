package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/jrsteele09/arcash/internal/print"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/jrsteele09/arcash/cmd/arcash/cli.Version=..."
var Version = "dev"

type versionOutput struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the arcash version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := versionOutput{Version: Version, GoVersion: runtime.Version()}
			if outputFormat() == print.FormatJSON {
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "arcash %s (%s)\n", out.Version, out.GoVersion)
			return nil
		},
	}
}

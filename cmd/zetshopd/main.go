package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds persistent flags shared by subcommands.
type GlobalFlags struct {
	ConfigPath string
}

func buildRoot() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "zetshopd",
		Short: "Supervisor for the ZetShopUz Telegram bot",
		Long: "zetshopd launches the zetshop-bot worker, restarts it on crashes with " +
			"adaptive backoff, and serves an HTTP health surface for the hosting platform.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(
		createServeCommand(flags),
		createStatusCommand(flags),
	)
	return root
}

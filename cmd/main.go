package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "palm-bot",
		Short:         "Palm reading wizard: Telegram bot and HTTP API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(runCmd(), readCmd())
	return root
}

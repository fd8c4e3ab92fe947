package main

import (
	"os"

	"github.com/OFFIS-RIT/kiwi-ke/internal/util"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kiwi-ke",
		Short:         "Extract chemical-agnostic key event graphs from scientific articles",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.LoadEnv()
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().String("config", "", "YAML file overlaying the environment configuration")
	root.AddCommand(extractCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sudharsan1-5/SudharsanBuilds/internal/platform"
)

func main() {
	platform.SetupLogger()

	rootCmd := &cobra.Command{
		Use:   "cmsservice",
		Short: "Content API for the Sudharsan Builds site",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

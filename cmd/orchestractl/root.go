package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orchestractl",
	Short: "Orchestra Platform installer",
	Long: `Run and administer the Orchestra Platform first-run installer.

The installer migrates the database schema, creates the administrator
account and seeds the base site configuration and access control list.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
)

// dataKeyCmd represents the data-key command
var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data key",
	Long:  `Manage the key that seals the wizard's flash cookies`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'data-key' requires a subcommand generate")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// dataKeyGenerateCmd represents the data-key generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data key",
	Long: `
Generate a data key

Use this command to generate a new Base64-encoded 256 bit key. Place it in
the environment of the installer so flash messages survive restarts and
multiple replicas.

Example:

$ export ORCHESTRA_DATA_KEY="$(orchestractl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := flash.GenerateKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to generate key:", err)
			os.Exit(1)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(key))
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}

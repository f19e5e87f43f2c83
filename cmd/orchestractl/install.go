package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install without the web wizard",
	Long: `Install without the web wizard.

Runs the same steps as the wizard: loads installer hook files, migrates the
schema, then creates the administrator and seeds the site configuration.
The password is read from ORCHESTRA_ADMIN_PASSWORD when --password is not
given.

Example:
  ORCHESTRA_ADMIN_PASSWORD=secret orchestractl install \
    --email admin@example.com --site-name "Example"`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		fullname, _ := cmd.Flags().GetString("fullname")
		siteName, _ := cmd.Flags().GetString("site-name")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if password == "" {
			password = os.Getenv("ORCHESTRA_ADMIN_PASSWORD")
		}

		a, err := newApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to start:", err)
			os.Exit(1)
		}
		defer a.Close()

		allowMultiple := a.config.AllowMultipleAdmins
		if cmd.Flags().Changed("allow-multiple") {
			allowMultiple, _ = cmd.Flags().GetBool("allow-multiple")
		}
		if siteName == "" {
			siteName = a.config.SiteName
		}

		if err := a.inst.BootInstallerFiles(); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load installer hook files:", err)
			os.Exit(1)
		}

		if !noMigrate {
			if _, err := a.inst.Migrate(cmd.Context()); err != nil {
				fmt.Fprintln(os.Stderr, "Migration failed:", err)
				os.Exit(1)
			}
		}

		outcome := a.inst.Make(cmd.Context(), installation.Input{
			Email:    email,
			Password: password,
			Fullname: fullname,
			SiteName: siteName,
		}, allowMultiple)

		if !outcome.Success {
			if outcome.Invalid() {
				for field, msgs := range outcome.FieldErrors {
					for _, msg := range msgs {
						fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
					}
				}
			} else {
				fmt.Fprintln(os.Stderr, outcome.Message)
			}
			os.Exit(1)
		}

		fmt.Println(outcome.Message)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringP("email", "e", "", "administrator email")
	installCmd.Flags().StringP("password", "p", "", "administrator password (default $ORCHESTRA_ADMIN_PASSWORD)")
	installCmd.Flags().StringP("fullname", "n", "Administrator", "administrator full name")
	installCmd.Flags().String("site-name", "", "site name (default from configuration)")
	installCmd.Flags().Bool("allow-multiple", true, "create the administrator even if users exist")
	installCmd.Flags().Bool("no-migrate", false, "skip running database migrations")
}

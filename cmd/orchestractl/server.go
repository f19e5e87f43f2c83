package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/requirement"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the installation wizard",
	Long: `Run the installation wizard on /install.

To run the server requires the environment variable DATABASE_URL.
ORCHESTRA_DATA_KEY seals the wizard's flash cookies; when it is unset a
random key is used and messages don't survive a restart.

By default, database migrations are run on startup. Use --no-migrate to skip
and let the wizard's prepare step run them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		a, err := newApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to start:", err)
			os.Exit(1)
		}
		defer a.Close()

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			a.log.Info().Msg("running database migrations")
			if _, err := a.inst.Migrate(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		flasher, err := flash.FromDataKey(a.config.DataKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad ORCHESTRA_DATA_KEY:", err)
			os.Exit(1)
		}
		secure, _ := cmd.Flags().GetBool("secure-cookies")
		flasher.Secure(secure)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(
			a.inst,
			requirement.New(a.health, a.config),
			a.config,
			db.Describe(db.URL()),
			flasher,
			a.log,
			host,
			port,
		)
		endpoints.RegisterAll(s)

		go func() {
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Shutdown(ctx)
		}()

		a.log.Info().Str("address", fmt.Sprintf("http://%s:%s/install", host, port)).Msg("running installer")
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("secure-cookies", false, "mark the flash cookie Secure (serve behind TLS)")
}

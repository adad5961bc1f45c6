package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loginform/internal/config"
	lferrors "github.com/vango-dev/loginform/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		lferrors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loginform",
		Short: "Serve a server-driven login form",
		Long: `loginform serves a login page whose form state lives on the server.

The browser runs a small client that forwards input and submit events
over a WebSocket and patches in re-rendered HTML. Submitting sends the
GraphQL login mutation to the configured endpoint.

Configuration is read from loginform.json, LOGINFORM_* environment
variables and flags, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if os.Getenv("NO_COLOR") != "" {
				lferrors.DisableColors()
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ./"+config.FileName+" when present)")
	config.RegisterFlags(cmd.PersistentFlags(), "log-level", "log-format")

	cmd.AddCommand(
		serveCmd(),
		devapiCmd(),
		versionCmd(),
	)
	return cmd
}

// loadConfig resolves the configuration for cmd, binding its flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(config.Options{File: file, Flags: cmd.Flags()})
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

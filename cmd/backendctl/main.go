package main

import (
	"os"

	"github.com/brizzai/backend-client/internal/config"
	"github.com/brizzai/backend-client/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

// appConfig is loaded once the flags are parsed.
var appConfig *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "backendctl",
	Short: "A command line client for the backend API",
	Long: `backendctl sends requests to the configured backend, resolving paths against
backend.baseURL, and prints the decoded JSON response. It can also print the
equivalent curl command and list the routes of an OpenAPI document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Place version check here to ensure flags are parsed first
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := logger.InitLogger(&cfg.Logging); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(newRequestCmd(), newCurlCmd(), newRoutesCmd())
}

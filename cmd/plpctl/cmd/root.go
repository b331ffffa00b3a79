// Package cmd implements the plpctl CLI commands.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/price-list-publisher/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "plpctl",
		Short: "CLI client for a running price-list-publisher",
		Long: "plpctl talks to the price-list-publisher API.\n" +
			"It triggers publication runs and inspects the ledger and run history\n" +
			"of a server started with `price-list-publisher serve`.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.plpctl.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		Duration("timeout", 20*time.Minute, "request timeout; publish waits for the whole run")

	for _, name := range []string{"server", "output", "timeout"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(statusCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".plpctl")
	}

	viper.SetEnvPrefix("PLPCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"),
		apiclient.WithHTTPClient(&http.Client{Timeout: viper.GetDuration("timeout")}),
	)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

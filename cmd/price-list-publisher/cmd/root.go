// Package cmd implements the CLI commands for price-list-publisher.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/price-list-publisher/internal/config"
	"github.com/donaldgifford/price-list-publisher/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "price-list-publisher",
	Short: "Publish a retailer price list to a messaging channel",
	Long: "Scrapes a retailer's price list, applies the markup table, formats it into " +
		"per-category messages and keeps the channel in sync: unchanged messages are left " +
		"alone, changed ones edited, new ones sent and stale ones deleted.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initViper)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "config.yaml", "config file path")
	flags.String("log-level", "", "override logging.level (debug, info, warn, error)")
	flags.Bool("dry-run", false, "log messages instead of sending them")
	flags.Bool("json", false, "print command output as JSON")

	for _, name := range []string{"config", "log-level", "dry-run", "json"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	rootCmd.AddCommand(
		serveCommand(),
		runCommand(),
		previewCommand(),
		ledgerCommand(),
		runsCommand(),
		migrateCommand(),
		versionCommand(),
	)
}

func initViper() {
	viper.SetEnvPrefix("PLP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config (or PLP_CONFIG) and
// applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if lvl := viper.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return log
}

func dryRun() bool {
	return viper.GetBool("dry-run")
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

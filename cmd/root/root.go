// Package root contains the root command for the application
package root

import (
	"extrasjson/internal/assembler"
	"extrasjson/internal/btparser"
	"extrasjson/internal/classifier"
	"extrasjson/internal/config"
	"extrasjson/internal/detector"
	"extrasjson/internal/export"
	"extrasjson/internal/extractor"
	"extrasjson/internal/ingparser"
	"extrasjson/internal/logging"
	"extrasjson/internal/revparser"
	"extrasjson/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "extrasjson",
		Short: "A CLI tool to parse Romanian bank statements into structured JSON.",
		Long: `extrasjson reads the text layer of BT, ING and Revolut account
statements, segments it into transactions, classifies counterparties and
reconciles balances into a per-IBAN JSON record.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to extrasjson!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			var err error
			Cfg, err = config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Log = config.ConfigureLoggingFromConfig(Cfg)

			adapter := logging.NewLogrusAdapterFromLogger(Log)
			btparser.SetLogger(adapter)
			ingparser.SetLogger(adapter)
			revparser.SetLogger(adapter)
			detector.SetLogger(adapter)
			classifier.SetLogger(adapter)
			assembler.SetLogger(adapter)
			extractor.SetLogger(adapter)
			export.SetLogger(adapter)
			store.SetLogger(adapter)
		},
	}
)

// RuleStore builds the rule repository from the configured rule file path.
func RuleStore() store.Repository {
	return store.NewYAMLRuleStore(Cfg.Rules.File)
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oarkflow/textrank/server/pkg/config"
	"github.com/oarkflow/textrank/server/pkg/logging"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "textrank",
	Short: "Extractive summaries and keywords with TextRank",
	Long: `textrank picks the most central sentences of a document with TextRank and
lists its most frequent content words.

Available commands:
  serve      - run the HTTP API
  summarize  - summarize a file, URL or stdin
  keywords   - list the top keywords of a file, URL or stdin`,
	SilenceUsage: true,
}

// Execute runs the root command with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (.bcl, .yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(keywordsCmd)
}

// setup loads the config and builds the logger every command shares. Commands that
// print results log to stderr.
func setup(toStderr bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if toStderr {
		cfg.Logging.Output = "stderr"
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

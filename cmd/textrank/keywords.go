package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/textrank/loader"
	"github.com/oarkflow/textrank/nlp/keyword"
)

var topKeywords int

var keywordsCmd = &cobra.Command{
	Use:   "keywords [file|url|-]",
	Short: "List the most frequent content words",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(true)
		if err != nil {
			return err
		}
		defer log.Sync()

		text, err := readInput(cmd.Context(), loader.New(cfg.Loader, log), firstArg(args), cmd.InOrStdin())
		if err != nil {
			return err
		}
		for _, k := range keyword.Extract(text, topKeywords) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", k.Token, k.Count)
		}
		return nil
	},
}

func init() {
	keywordsCmd.Flags().IntVarP(&topKeywords, "top", "n", keyword.DefaultTopN, "number of keywords")
}

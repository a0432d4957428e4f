package main

import (
	"fmt"
	"strings"

	"github.com/oarkflow/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oarkflow/textrank/loader"
	"github.com/oarkflow/textrank/nlp/pipeline"
	"github.com/oarkflow/textrank/nlp/summarization"
	"github.com/oarkflow/textrank/translate"
)

var (
	numSentences int
	numKeywords  int
	withPhrases  bool
	translateTo  string
	asJSON       bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file|url|-]",
	Short: "Summarize a document, web page or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().IntVarP(&numSentences, "sentences", "n", 0, "sentences in the summary (default from config)")
	summarizeCmd.Flags().IntVar(&numKeywords, "keywords", 10, "keywords to list, 0 to skip")
	summarizeCmd.Flags().BoolVar(&withPhrases, "phrases", false, "also list key phrases")
	summarizeCmd.Flags().StringVar(&translateTo, "translate", "", "translate the summary into this language code")
	summarizeCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
}

type summaryOutput struct {
	*pipeline.Analysis
	Translation      string `json:"translation,omitempty"`
	TranslationError string `json:"translation_error,omitempty"`
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(true)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	text, err := readInput(ctx, loader.New(cfg.Loader, log), firstArg(args), cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := pipeline.Options{Sentences: numSentences, Keywords: numKeywords}
	if withPhrases {
		opts.Phrases = max(numKeywords, 1)
	}
	analysis, err := pipeline.New(summarization.New(cfg.Summarization, log)).Analyze(ctx, text, opts)
	if err != nil {
		return err
	}
	if numKeywords <= 0 {
		analysis.Keywords = nil
	}
	out := summaryOutput{Analysis: analysis}

	if translateTo != "" {
		tr, err := translate.New(cfg.Translate, log)
		if err == nil {
			out.Translation, err = tr.Translate(ctx, analysis.Summary.Summary, translateTo)
		}
		if err != nil {
			log.Warn("translation failed", zap.Error(err))
			out.TranslationError = err.Error()
		}
	}

	w := cmd.OutOrStdout()
	if asJSON {
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintln(w, analysis.Summary.Summary)
	if out.Translation != "" {
		fmt.Fprintf(w, "\n[%s] %s\n", translateTo, out.Translation)
	}
	if out.TranslationError != "" {
		fmt.Fprintf(w, "\ntranslation failed: %s\n", out.TranslationError)
	}
	if len(analysis.Keywords) > 0 {
		words := make([]string, len(analysis.Keywords))
		for i, k := range analysis.Keywords {
			words[i] = k.Token
		}
		fmt.Fprintf(w, "\nKeywords: %s\n", strings.Join(words, ", "))
	}
	if len(analysis.Phrases) > 0 {
		fmt.Fprintln(w, "\nKey phrases:")
		for _, p := range analysis.Phrases {
			fmt.Fprintf(w, "  %-40s %.2f\n", p.Text, p.Score)
		}
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

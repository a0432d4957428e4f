package segmenter

import (
	"regexp"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// punkt is built once from the bundled English training data and only read afterwards.
var punkt *sentences.DefaultSentenceTokenizer

func init() {
	tok, err := english.NewSentenceTokenizer(nil)
	if err == nil {
		punkt = tok
	}
}

// reSentence ends a sentence at . ! or ? plus any closing quotes or brackets; trailing text without
// terminal punctuation is its own sentence.
var reSentence = regexp.MustCompile(`[^.!?]+(?:[.!?]+["'”’)\]]*|$)`)

// Sentences splits normalized text into sentences, in order, with their original wording.
// Abbreviations such as "Dr." or "e.g." do not end a sentence.
func Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if punkt == nil {
		return SentenceSplit(text)
	}
	var out []string
	for _, s := range punkt.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SentenceSplit is the punctuation-only splitter used when the Punkt model is unavailable.
func SentenceSplit(text string) []string {
	var out []string
	for _, s := range reSentence.FindAllString(text, -1) {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParagraphSplit splits text into paragraphs separated by ≥2 newlines.
var reParagraph = regexp.MustCompile(`\r?\n\s*\r?\n`)

func ParagraphSplit(text string) []string {
	var out []string
	for _, p := range reParagraph.Split(text, -1) {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

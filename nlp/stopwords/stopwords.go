package stopwords

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed english.txt
var englishRaw []byte

// Set holds the English stopwords. It is filled once in init and never written again,
// so concurrent readers need no locking.
var Set map[string]struct{}

func init() {
	Set = make(map[string]struct{})
	scan := bufio.NewScanner(bytes.NewReader(englishRaw))
	for scan.Scan() {
		w := strings.TrimSpace(scan.Text())
		if w != "" {
			Set[w] = struct{}{}
		}
	}
}

// Contains reports whether the lowercase word w is a stopword.
func Contains(w string) bool {
	_, ok := Set[w]
	return ok
}

// Filter removes any token present in the stopword set.
func Filter(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if _, isStop := Set[t]; !isStop {
			out = append(out, t)
		}
	}
	return out
}

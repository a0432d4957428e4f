package summarization

// Method records which branch of the pipeline produced a Result.
type Method string

const (
	// MethodRanked means sentences were chosen by TextRank score.
	MethodRanked Method = "ranked"
	// MethodShortCircuit means the document had no more sentences than requested.
	MethodShortCircuit Method = "short_circuit"
	// MethodDegenerate means too few sentences carried enough content to vectorize.
	MethodDegenerate Method = "degenerate"
	// MethodFallback means ranking failed and the leading sentences were used.
	MethodFallback Method = "fallback"
	// MethodEmpty means there was no text at all.
	MethodEmpty Method = "empty"
)

type Sentence struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Result struct {
	Summary   string     `json:"summary"`
	Method    Method     `json:"method"`
	Reason    string     `json:"reason,omitempty"`
	Sentences []Sentence `json:"sentences"`
	// Scores holds one PageRank score per source sentence; only set for ranked results.
	Scores []float64 `json:"scores,omitempty"`
	Total  int       `json:"total_sentences"`
}

// Degraded reports whether the summary is a truncation used in place of a ranking.
func (r Result) Degraded() bool {
	return r.Method == MethodDegenerate || r.Method == MethodFallback
}

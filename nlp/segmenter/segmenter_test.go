package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: "   ", want: nil},
		{name: "single", in: "Only one sentence here.", want: []string{"Only one sentence here."}},
		{
			name: "mixed terminators",
			in:   "The sun rose early. Did the birds sing? They certainly did!",
			want: []string{"The sun rose early.", "Did the birds sing?", "They certainly did!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sentences(tt.in))
		})
	}
}

func TestSentencesKeepsOrder(t *testing.T) {
	in := "First comes the plan. Second comes the work. Third comes the review."
	got := Sentences(in)
	assert.Len(t, got, 3)
	assert.Equal(t, "First comes the plan.", got[0])
	assert.Equal(t, "Third comes the review.", got[2])
}

func TestSentenceSplit(t *testing.T) {
	got := SentenceSplit(`He said "stop." Then he left! And no period at the end`)
	assert.Equal(t, []string{`He said "stop."`, "Then he left!", "And no period at the end"}, got)
}

func TestParagraphSplit(t *testing.T) {
	got := ParagraphSplit("first para\nstill first\n\n  \nsecond para\r\n\r\nthird")
	assert.Equal(t, []string{"first para\nstill first", "second para", "third"}, got)
}

package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n\r ", want: ""},
		{name: "collapse runs", in: "The  cat\n\nsat\ton   the mat.", want: "The cat sat on the mat."},
		{name: "trim ends", in: "\n  Hello world.  \t", want: "Hello world."},
		{name: "non-breaking space", in: "a  b", want: "a b"},
		{name: "compose to NFC", in: "café", want: "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "  One.\nTwo!\t\tThree?  "
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"Café,", "Naïve!", "--", "OK"})
	assert.Equal(t, []string{"cafe", "naive", "ok"}, got)
}

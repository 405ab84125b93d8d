package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 100},
		{"abcd", "abce", 75},
		{"abc", "xyz", 0},
		{"", "abc", 0},
		{"abc", "", 0},
		{"uber trip", "uber", 100 * 2 * 4.0 / 13},
		{"acao", "ação", 50},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 0.0001)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{{"padaria central", "padaria"}, {"netflix com", "netflix"}, {"ab", "ba"}}

	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 0.0001)
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		want    string
		wantCut bool
	}{
		{"shorter", "abc", 5, "abc", false},
		{"exact", "abcde", 5, "abcde", false},
		{"cut", "abcdef", 3, "abc", true},
		{"multibyte kept whole", "héllo wörld", 4, "héll", true},
		{"zero", "abc", 0, "", true},
		{"empty", "", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
		})
	}
}

func TestTruncateWithMarker(t *testing.T) {
	assert.Equal(t, "ab...", TruncateWithMarker("abcdef", 2, "..."))
	assert.Equal(t, "ab", TruncateWithMarker("ab", 2, "..."))
}

func TestCollapseLineSpaces(t *testing.T) {
	in := "  first   line \r\n\n\t second\tline  \n   \n"
	assert.Equal(t, "first line\nsecond line", CollapseLineSpaces(in))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 4, WordCount(" the  value\nproposition\tcanvas "))
	assert.Equal(t, 0, WordCount("   "))
}

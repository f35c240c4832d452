package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentBuilder_WithKnowledge(t *testing.T) {
	out := NewAgentBuilder(Knowledge{
		PdfContent:       "From vpc.pdf: The value proposition canvas...",
		FrameworkContext: "CODE Framework Matches:\n- CODE12: Framing (Conceptualize > Problem)\n",
		Files: []FileContext{
			{Filename: "vpc.pdf", Snippet: "The value proposition canvas", DownloadURL: "/dl/vpc", Available: true},
			{Filename: "missing.pdf", DownloadURL: "/dl/missing"},
			{Filename: "unsigned.pdf"},
		},
	}).Build()

	assert.True(t, strings.HasPrefix(out, "You are the CODE Agent"))
	assert.Contains(t, out, "PDF Content: From vpc.pdf: The value proposition canvas...")
	assert.Contains(t, out, "CODE Framework Data: CODE Framework Matches:")
	assert.Contains(t, out, "1. vpc.pdf (available for download)\n   Excerpt: The value proposition canvas\n   Link: /dl/vpc\n")
	assert.Contains(t, out, "2. missing.pdf (referenced by the knowledge base but not uploaded yet)\n   Link: /dl/missing\n")
	assert.Contains(t, out, "3. unsigned.pdf (referenced by the knowledge base but not uploaded yet)\n\n")
	assert.NotContains(t, out, "Link: \n")
	assert.Contains(t, out, "mention them by name")
}

func TestAgentBuilder_WithoutKnowledge(t *testing.T) {
	out := NewAgentBuilder(Knowledge{}).Build()

	assert.Contains(t, out, "No relevant PDF content found for this query.")
	assert.Contains(t, out, "No relevant CODE framework data found.")
	assert.NotContains(t, out, "DOWNLOADABLE FILES")
	assert.Contains(t, out, "suggest related topics")
}

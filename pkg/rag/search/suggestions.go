package search

import (
	"fmt"

	"code-concierge-be/internal/entity"
)

const maxSuggestions = 5

const EmptyKnowledgeBaseMessage = "No knowledge base available. Please upload Excel files and ZIP files containing PDFs first."

// Availability records which knowledge tables hold at least one row.
type Availability struct {
	HasMatrix    bool
	HasMappings  bool
	HasDocuments bool
}

func AvailabilityFromStats(stats entity.KnowledgeStats) Availability {
	return Availability{
		HasMatrix:    stats.CodeMatrix > 0,
		HasMappings:  stats.ExcelMappings > 0,
		HasDocuments: stats.PdfFiles > 0,
	}
}

// Suggest returns fixed topic hints driven only by which tables are non-empty.
// The query does not influence the result.
func Suggest(query string, availability Availability) []string {
	suggestions := make([]string, 0, maxSuggestions)

	if availability.HasMatrix {
		suggestions = append(suggestions, "CODE Framework Overview", "Innovation Tools", "Canvas Templates")
	}
	if availability.HasDocuments {
		suggestions = append(suggestions, "Document Search", "PDF Content")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Try browsing the knowledge base", "Upload more documents for better results")
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func SuggestionsMessage(query string) string {
	return fmt.Sprintf("No direct matches found for \"%s\". Here are some related topics you might be interested in:", query)
}

func SuccessMessage(query string) string {
	return fmt.Sprintf("Found relevant information for \"%s\"", query)
}

package search

import (
	"fmt"
	"strings"

	"code-concierge-be/internal/entity"
	"code-concierge-be/pkg/utils"
)

const (
	notAvailable   = "N/A"
	ellipsisMarker = "..."
)

func orNA(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

// BuildContextBlock renders matched matrix rows and mappings as the text handed to the model.
// Callers pass rows already capped; an empty string means nothing matched.
func BuildContextBlock(matrix []*entity.CodeMatrixEntry, mappings []*entity.ExcelMapping, maxFieldLen int) string {
	var sb strings.Builder

	if len(matrix) > 0 {
		sb.WriteString("CODE Framework Matches:\n")
		for _, item := range matrix {
			sb.WriteString(fmt.Sprintf("- %s: %s (%s > %s)\n",
				orNA(item.CodeBlock), orNA(item.WorksheetName), orNA(item.Phase), orNA(item.CanvasType)))
			if item.Description != nil {
				sb.WriteString("  Description: " + utils.TruncateWithMarker(*item.Description, maxFieldLen, ellipsisMarker) + "\n")
			}
			if item.Filename != "" {
				sb.WriteString("  File: " + item.Filename + "\n")
			}
		}
	}

	if len(mappings) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Excel Mappings:\n")
		for _, item := range mappings {
			sb.WriteString(fmt.Sprintf("- Query: %s → PDF: %s\n", item.QueryTerm, item.PdfFilename))
			if item.Description != nil {
				sb.WriteString("  Description: " + utils.TruncateWithMarker(*item.Description, maxFieldLen, ellipsisMarker) + "\n")
			}
		}
	}

	return sb.String()
}

// BuildPdfSnippets renders "From <filename>: <text>..." for each record that has text.
func BuildPdfSnippets(files []*entity.PdfFile, maxLen int) []string {
	snippets := make([]string, 0, len(files))
	for _, f := range files {
		if f.ContentText == nil {
			continue
		}
		text, _ := utils.Truncate(*f.ContentText, maxLen)
		snippets = append(snippets, fmt.Sprintf("From %s: %s%s", f.Filename, text, ellipsisMarker))
	}
	return snippets
}

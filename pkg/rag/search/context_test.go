package search

import (
	"strings"
	"testing"

	"code-concierge-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildContextBlock(t *testing.T) {
	matrix := []*entity.CodeMatrixEntry{
		{CodeBlock: strPtr("CODE12"), WorksheetName: strPtr("Framing"), Phase: strPtr("Conceptualize"), CanvasType: strPtr("Problem"), Description: strPtr("Frame the problem"), Filename: "m.xlsx"},
		{Filename: "m.xlsx"},
	}
	mappings := []*entity.ExcelMapping{
		{QueryTerm: "VPC Canvas", PdfFilename: "vpc.pdf", Description: strPtr(strings.Repeat("d", 20))},
	}

	got := BuildContextBlock(matrix, mappings, 10)

	want := "CODE Framework Matches:\n" +
		"- CODE12: Framing (Conceptualize > Problem)\n" +
		"  Description: Frame the ...\n" +
		"  File: m.xlsx\n" +
		"- N/A: N/A (N/A > N/A)\n" +
		"  File: m.xlsx\n" +
		"\n" +
		"Excel Mappings:\n" +
		"- Query: VPC Canvas → PDF: vpc.pdf\n" +
		"  Description: dddddddddd...\n"
	assert.Equal(t, want, got)
}

func TestBuildContextBlock_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContextBlock(nil, nil, 500))
}

func TestBuildPdfSnippets(t *testing.T) {
	files := []*entity.PdfFile{
		{Filename: "a.pdf", ContentText: strPtr("short text")},
		{Filename: "b.pdf"},
		{Filename: "c.pdf", ContentText: strPtr("ünïcödé content")},
	}

	got := BuildPdfSnippets(files, 7)
	assert.Equal(t, []string{"From a.pdf: short t...", "From c.pdf: ünïcödé..."}, got)
}

func TestCollectRelevantFiles(t *testing.T) {
	mappings := []*entity.ExcelMapping{
		{QueryTerm: "a", PdfFilename: "shared.pdf"},
		{QueryTerm: "b", PdfFilename: "mapped.pdf"},
		{QueryTerm: "c", PdfFilename: "shared.pdf"},
	}
	pdfs := []*entity.PdfFile{
		{Filename: "direct.pdf", ContentText: strPtr("direct body")},
		{Filename: "shared.pdf", ContentText: strPtr("shared body")},
	}

	files := CollectRelevantFiles(mappings, pdfs)

	assert.Equal(t, []RelevantFile{
		{Filename: "shared.pdf", Source: FileSourceMapping, Available: true, Snippet: "shared body"},
		{Filename: "mapped.pdf", Source: FileSourceMapping},
		{Filename: "direct.pdf", Source: FileSourcePdf, Available: true, Snippet: "direct body"},
	}, files)
}

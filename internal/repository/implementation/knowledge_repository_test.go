package implementation_test

import (
	"context"
	"testing"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/repository/implementation"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeMatrixRepository_MatchingIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewCodeMatrixRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.CreateBulk(ctx, []*entity.CodeMatrixEntry{
		{CodeBlock: testutil.Ptr("CODE12"), Filename: "a.pdf", Phase: testutil.Ptr("Conceptualize")},
		{CodeBlock: testutil.Ptr("CODE20"), Filename: "b.pdf", CanvasType: testutil.Ptr("Value Canvas")},
		{CodeBlock: testutil.Ptr("CODE30"), Filename: "c.pdf", ToolName: testutil.Ptr("Persona Builder")},
	}))

	rows, err := repo.FindAll(ctx, specification.CodeMatrixMatching("conceptual"), specification.InsertionOrder{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CODE12", *rows[0].CodeBlock)

	rows, err = repo.FindAll(ctx, specification.CodeMatrixMatching("CANVAS"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b.pdf", rows[0].Filename)

	// filename is stored but not a matched field
	rows, err = repo.FindAll(ctx, specification.CodeMatrixMatching("c.pdf"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCodeMatrixRepository_MatchingFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewCodeMatrixRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.CreateBulk(ctx, []*entity.CodeMatrixEntry{
		{CodeBlock: testutil.Ptr("CODE40"), Filename: "e.pdf", WorksheetName: testutil.Ptr("Évaluation Sheet")},
	}))

	for _, query := range []string{"Évaluation", "ÉVALUATION", "évaluation"} {
		rows, err := repo.FindAll(ctx, specification.CodeMatrixMatching(query))
		require.NoError(t, err)
		assert.Len(t, rows, 1, query)
	}
}

func TestCodeMatrixRepository_InsertionOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewCodeMatrixRepository(testutil.NewTestDB(t))

	var entries []*entity.CodeMatrixEntry
	for _, code := range []string{"B1", "A2", "C3", "A4", "B5", "C6", "A7"} {
		entries = append(entries, &entity.CodeMatrixEntry{CodeBlock: testutil.Ptr(code), Filename: "f.xlsx", Phase: testutil.Ptr("Organize")})
	}
	require.NoError(t, repo.CreateBulk(ctx, entries))

	rows, err := repo.FindAll(ctx, specification.CodeMatrixMatching("organize"), specification.InsertionOrder{}, specification.Limit(5))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var codes []string
	for _, r := range rows {
		codes = append(codes, *r.CodeBlock)
	}
	assert.Equal(t, []string{"B1", "A2", "C3", "A4", "B5"}, codes)
}

func TestSearchSpecification_MetaCharactersAreLiteral(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewExcelMappingRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.CreateBulk(ctx, []*entity.ExcelMapping{
		{QueryTerm: "100% growth", PdfFilename: "growth.pdf"},
		{QueryTerm: "1000 growth", PdfFilename: "other.pdf"},
		{QueryTerm: "snake_case", PdfFilename: "snake.pdf"},
		{QueryTerm: "snakeXcase", PdfFilename: "x.pdf"},
		{QueryTerm: "wow!", PdfFilename: "bang.pdf"},
	}))

	tests := []struct {
		term string
		want []string
	}{
		{"100%", []string{"growth.pdf"}},
		{"_case", []string{"snake.pdf"}},
		{"w!", []string{"bang.pdf"}},
		{"%", []string{"growth.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			rows, err := repo.FindAll(ctx, specification.ExcelMappingMatching(tt.term), specification.InsertionOrder{})
			require.NoError(t, err)
			var got []string
			for _, r := range rows {
				got = append(got, r.PdfFilename)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnowledgeTables_DeleteAllIsPerTable(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	matrix := implementation.NewCodeMatrixRepository(db)
	mappings := implementation.NewExcelMappingRepository(db)
	pdfs := implementation.NewPdfFileRepository(db)

	require.NoError(t, matrix.CreateBulk(ctx, []*entity.CodeMatrixEntry{{Filename: "m.xlsx", CodeBlock: testutil.Ptr("X")}}))
	require.NoError(t, mappings.CreateBulk(ctx, []*entity.ExcelMapping{{QueryTerm: "q", PdfFilename: "p.pdf"}}))
	require.NoError(t, pdfs.Create(ctx, &entity.PdfFile{Filename: "p.pdf", FilePath: "zip/p.pdf", Metadata: map[string]interface{}{"source": "zip_upload"}}))

	deleted, err := mappings.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	n, err := mappings.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = matrix.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = pdfs.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPdfFileRepository_FindOne(t *testing.T) {
	ctx := context.Background()
	repo := implementation.NewPdfFileRepository(testutil.NewTestDB(t))

	file := &entity.PdfFile{
		Filename:    "guide.pdf",
		FilePath:    "zip/guide.pdf",
		FileSize:    42,
		ContentText: testutil.Ptr("Value proposition canvas walkthrough"),
		Metadata:    map[string]interface{}{"source": "zip_upload", "has_content": true},
	}
	require.NoError(t, repo.Create(ctx, file))
	assert.NotEmpty(t, file.Id)

	found, err := repo.FindOne(ctx, specification.Filter("filename", "guide.pdf"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "zip_upload", found.Metadata["source"])
	assert.Equal(t, true, found.Metadata["has_content"])

	missing, err := repo.FindOne(ctx, specification.Filter("filename", "vpc.pdf"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, err := repo.FindAll(ctx, specification.PdfContentMatching("PROPOSITION"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

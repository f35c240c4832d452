package service_test

import (
	"context"
	"testing"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("empty knowledge base is not-found", func(t *testing.T) {
		res, err := f.search.Search(ctx, &dto.SearchRequest{Query: "canvas"})
		require.NoError(t, err)
		assert.Equal(t, dto.SearchTypeNotFound, res.Type)
		assert.Empty(t, res.Files)
	})

	_, err := f.knowledge.ImportWorkbooks(ctx, []service.UploadedFile{{Name: "mapping.xlsx", Data: mappingWorkbook(t)}}, "")
	require.NoError(t, err)

	t.Run("mapping without uploaded pdf is excel-only", func(t *testing.T) {
		res, err := f.search.Search(ctx, &dto.SearchRequest{Query: "vpc canvas"})
		require.NoError(t, err)
		assert.Equal(t, dto.SearchTypeExcelOnly, res.Type)
		assert.Equal(t, "vpc.pdf", res.Filename)
		assert.Equal(t, service.ExcelOnlyMessage("vpc.pdf"), res.Message)
		require.Len(t, res.Files, 1)
		assert.False(t, res.Files[0].Available)
	})

	t.Run("no match offers suggestions", func(t *testing.T) {
		res, err := f.search.Search(ctx, &dto.SearchRequest{Query: "zzqx"})
		require.NoError(t, err)
		assert.Equal(t, dto.SearchTypeSuggestions, res.Type)
		assert.Equal(t, "zzqx", res.Route)
		assert.NotEmpty(t, res.Suggestions)
	})

	_, err = f.knowledge.ImportPdfs(ctx, []service.UploadedFile{{Name: "vpc.pdf", Data: []byte("%PDF-1.4")}})
	require.NoError(t, err)

	t.Run("uploaded target turns the match into success", func(t *testing.T) {
		res, err := f.search.Search(ctx, &dto.SearchRequest{Query: "VPC Canvas"})
		require.NoError(t, err)
		assert.Equal(t, dto.SearchTypeSuccess, res.Type)
		require.Len(t, res.Files, 1)
		assert.True(t, res.Files[0].Available)
		assert.Equal(t, "/dl/vpc.pdf", res.Files[0].DownloadURL)
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		_, err := f.search.Search(ctx, &dto.SearchRequest{Query: "   "})
		assert.ErrorIs(t, err, service.ErrEmptyQuery)
	})
}

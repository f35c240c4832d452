package implementation_test

import (
	"context"
	"os"
	"testing"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerDatabase runs the matching rules against a real server database.
// Set INTEGRATION_DB_TYPE and INTEGRATION_DB_DSN to enable it; the knowledge tables are emptied.
func TestServerDatabase(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	dsn := os.Getenv("INTEGRATION_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: INTEGRATION_DB_DSN not set")
	}
	dbType := os.Getenv("INTEGRATION_DB_TYPE")
	if dbType == "" {
		dbType = "postgres"
	}

	db, err := database.NewGormDB(database.GormConfig{Type: dbType, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	_, err = uow.ExcelMappingRepository().DeleteAll(ctx)
	require.NoError(t, err)
	_, err = uow.PdfFileRepository().DeleteAll(ctx)
	require.NoError(t, err)

	require.NoError(t, uow.ExcelMappingRepository().CreateBulk(ctx, []*entity.ExcelMapping{
		{QueryTerm: "100% Canvas", PdfFilename: "full.pdf"},
		{QueryTerm: "100 Canvas", PdfFilename: "plain.pdf"},
		{QueryTerm: "snake_case", PdfFilename: "snake.pdf"},
	}))

	t.Run("wildcards match literally", func(t *testing.T) {
		rows, err := uow.ExcelMappingRepository().FindAll(ctx, specification.ExcelMappingMatching("100%"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "full.pdf", rows[0].PdfFilename)

		rows, err = uow.ExcelMappingRepository().FindAll(ctx, specification.ExcelMappingMatching("e_c"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "snake.pdf", rows[0].PdfFilename)
	})

	t.Run("insertion order survives", func(t *testing.T) {
		rows, err := uow.ExcelMappingRepository().FindAll(ctx, specification.ExcelMappingMatching("canvas"), specification.InsertionOrder{})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "full.pdf", rows[0].PdfFilename)
	})

	t.Run("metadata round trips", func(t *testing.T) {
		require.NoError(t, uow.PdfFileRepository().Create(ctx, &entity.PdfFile{
			Filename: "page",
			FilePath: "https://example.com",
			Metadata: map[string]interface{}{"scraped": true},
		}))
		got, err := uow.PdfFileRepository().FindOne(ctx, specification.Filter("filename", "page"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsScraped())
	})
}

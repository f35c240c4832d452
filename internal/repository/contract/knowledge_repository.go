package contract

import (
	"context"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
)

// The knowledge tables are cleared and reloaded independently of each other.

type CodeMatrixRepository interface {
	CreateBulk(ctx context.Context, entries []*entity.CodeMatrixEntry) error
	DeleteAll(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CodeMatrixEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ExcelMappingRepository interface {
	CreateBulk(ctx context.Context, mappings []*entity.ExcelMapping) error
	DeleteAll(ctx context.Context) (int64, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExcelMapping, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type PdfFileRepository interface {
	Create(ctx context.Context, file *entity.PdfFile) error
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByIds(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PdfFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PdfFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

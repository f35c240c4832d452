package implementation

import (
	"context"
	"errors"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/mapper"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/repository/contract"
	"code-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PdfFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewPdfFileRepository(db *gorm.DB) contract.PdfFileRepository {
	return &PdfFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *PdfFileRepositoryImpl) Create(ctx context.Context, file *entity.PdfFile) error {
	m := r.mapper.PdfFileToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.PdfFileToEntity(m)
	return nil
}

func (r *PdfFileRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.PdfFile{})
	return res.RowsAffected, res.Error
}

func (r *PdfFileRepositoryImpl) DeleteByIds(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.PdfFile{})
	return res.RowsAffected, res.Error
}

func (r *PdfFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PdfFile, error) {
	var m model.PdfFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PdfFileToEntity(&m), nil
}

func (r *PdfFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PdfFile, error) {
	var models []*model.PdfFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PdfFileToEntities(models), nil
}

func (r *PdfFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.PdfFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

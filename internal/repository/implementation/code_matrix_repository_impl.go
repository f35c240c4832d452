package implementation

import (
	"context"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/mapper"
	"code-concierge-be/internal/model"
	"code-concierge-be/internal/repository/contract"
	"code-concierge-be/internal/repository/specification"

	"gorm.io/gorm"
)

const bulkInsertBatchSize = 100

type CodeMatrixRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewCodeMatrixRepository(db *gorm.DB) contract.CodeMatrixRepository {
	return &CodeMatrixRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *CodeMatrixRepositoryImpl) CreateBulk(ctx context.Context, entries []*entity.CodeMatrixEntry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]*model.CodeMatrixEntry, len(entries))
	for i, e := range entries {
		models[i] = r.mapper.CodeMatrixToModel(e)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, bulkInsertBatchSize).Error; err != nil {
		return err
	}

	for i, m := range models {
		*entries[i] = *r.mapper.CodeMatrixToEntity(m)
	}
	return nil
}

func (r *CodeMatrixRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.CodeMatrixEntry{})
	return res.RowsAffected, res.Error
}

func (r *CodeMatrixRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CodeMatrixEntry, error) {
	var models []*model.CodeMatrixEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CodeMatrixToEntities(models), nil
}

func (r *CodeMatrixRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.CodeMatrixEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

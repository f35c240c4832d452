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

type ExcelMappingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewExcelMappingRepository(db *gorm.DB) contract.ExcelMappingRepository {
	return &ExcelMappingRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *ExcelMappingRepositoryImpl) CreateBulk(ctx context.Context, mappings []*entity.ExcelMapping) error {
	if len(mappings) == 0 {
		return nil
	}

	models := make([]*model.ExcelMapping, len(mappings))
	for i, m := range mappings {
		models[i] = r.mapper.MappingToModel(m)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, bulkInsertBatchSize).Error; err != nil {
		return err
	}

	for i, m := range models {
		*mappings[i] = *r.mapper.MappingToEntity(m)
	}
	return nil
}

func (r *ExcelMappingRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ExcelMapping{})
	return res.RowsAffected, res.Error
}

func (r *ExcelMappingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExcelMapping, error) {
	var models []*model.ExcelMapping
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MappingToEntities(models), nil
}

func (r *ExcelMappingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ExcelMapping{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

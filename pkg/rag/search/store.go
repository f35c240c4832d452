package search

import (
	"context"
	"fmt"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/repository/unitofwork"
)

// KnowledgeStore is the read side the engine needs from the record store.
// A limit <= 0 means no cap.
type KnowledgeStore interface {
	Stats(ctx context.Context) (entity.KnowledgeStats, error)
	MatchCodeMatrix(ctx context.Context, query string, limit int) ([]*entity.CodeMatrixEntry, error)
	MatchMappings(ctx context.Context, query string, limit int) ([]*entity.ExcelMapping, error)
	MatchPdfContent(ctx context.Context, query string, limit int) ([]*entity.PdfFile, error)
	MatchPdfFiles(ctx context.Context, query string) ([]*entity.PdfFile, error)
	ExistingPdfFilenames(ctx context.Context, filenames []string) (map[string]bool, error)
}

// StatsCache lets several requests share one round of COUNT queries.
type StatsCache interface {
	GetStats() (entity.KnowledgeStats, bool)
	SetStats(stats entity.KnowledgeStats)
}

type RepositoryStore struct {
	uowFactory unitofwork.RepositoryFactory
	cache      StatsCache
}

// NewRepositoryStore reads through the unit of work. cache may be nil.
func NewRepositoryStore(uowFactory unitofwork.RepositoryFactory, cache StatsCache) *RepositoryStore {
	return &RepositoryStore{uowFactory: uowFactory, cache: cache}
}

func (s *RepositoryStore) Stats(ctx context.Context) (entity.KnowledgeStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.GetStats(); ok {
			return stats, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	var stats entity.KnowledgeStats
	var err error

	if stats.CodeMatrix, err = uow.CodeMatrixRepository().Count(ctx); err != nil {
		return stats, fmt.Errorf("count code matrix: %w", err)
	}
	if stats.ExcelMappings, err = uow.ExcelMappingRepository().Count(ctx); err != nil {
		return stats, fmt.Errorf("count excel mappings: %w", err)
	}
	if stats.PdfFiles, err = uow.PdfFileRepository().Count(ctx); err != nil {
		return stats, fmt.Errorf("count pdf files: %w", err)
	}

	if s.cache != nil {
		s.cache.SetStats(stats)
	}
	return stats, nil
}

func withLimit(limit int, specs ...specification.Specification) []specification.Specification {
	if limit > 0 {
		specs = append(specs, specification.Limit(limit))
	}
	return specs
}

func (s *RepositoryStore) MatchCodeMatrix(ctx context.Context, query string, limit int) ([]*entity.CodeMatrixEntry, error) {
	return s.uowFactory.NewUnitOfWork(ctx).CodeMatrixRepository().FindAll(ctx, withLimit(limit,
		specification.CodeMatrixMatching(query),
		specification.InsertionOrder{},
	)...)
}

func (s *RepositoryStore) MatchMappings(ctx context.Context, query string, limit int) ([]*entity.ExcelMapping, error) {
	return s.uowFactory.NewUnitOfWork(ctx).ExcelMappingRepository().FindAll(ctx, withLimit(limit,
		specification.ExcelMappingMatching(query),
		specification.InsertionOrder{},
	)...)
}

func (s *RepositoryStore) MatchPdfContent(ctx context.Context, query string, limit int) ([]*entity.PdfFile, error) {
	return s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().FindAll(ctx, withLimit(limit,
		specification.PdfContentMatching(query),
		specification.InsertionOrder{TimeField: "uploaded_at"},
	)...)
}

func (s *RepositoryStore) MatchPdfFiles(ctx context.Context, query string) ([]*entity.PdfFile, error) {
	return s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().FindAll(ctx,
		specification.PdfFileMatching(query),
		specification.InsertionOrder{TimeField: "uploaded_at"},
	)
}

// ExistingPdfFilenames reports which of the given filenames have a stored PdfFile record.
func (s *RepositoryStore) ExistingPdfFilenames(ctx context.Context, filenames []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(filenames))
	if len(filenames) == 0 {
		return existing, nil
	}

	files, err := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().FindAll(ctx,
		specification.FilterIn{Field: "filename", Values: filenames},
	)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		existing[f.Filename] = true
	}
	return existing, nil
}

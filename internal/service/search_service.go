package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/pkg/rag/search"
)

var ErrEmptyQuery = errors.New("query must not be empty")

// Retriever is the read path shared by search and chat.
type Retriever interface {
	Search(ctx context.Context, query string) (*search.Outcome, error)
}

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	retriever Retriever
	logger    logger.ILogger
}

func NewSearchService(retriever Retriever, logger logger.ILogger) ISearchService {
	return &searchService{retriever: retriever, logger: logger}
}

func ExcelOnlyMessage(filename string) string {
	return fmt.Sprintf("\"%s\" is listed in your Excel mapping, but the PDF was not found in the uploaded ZIP files. Please upload the missing file.", filename)
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	outcome, err := s.retriever.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case search.OutcomeEmptyKnowledgeBase:
		return &dto.SearchResponse{Type: dto.SearchTypeNotFound, Message: outcome.Message}, nil

	case search.OutcomeSuggestions:
		return &dto.SearchResponse{
			Type:        dto.SearchTypeSuggestions,
			Message:     outcome.Message,
			Route:       outcome.Route,
			Suggestions: outcome.Suggestions,
		}, nil
	}

	if filename, ok := excelOnly(outcome); ok {
		return &dto.SearchResponse{
			Type:     dto.SearchTypeExcelOnly,
			Message:  ExcelOnlyMessage(filename),
			Filename: filename,
			Files:    toRelevantFileDTOs(outcome.Files),
		}, nil
	}

	return &dto.SearchResponse{
		Type:    dto.SearchTypeSuccess,
		Message: outcome.Message,
		Route:   outcome.Route,
		Files:   toRelevantFileDTOs(outcome.Files),
	}, nil
}

// excelOnly reports a match that rests on mapping rows alone whose target PDFs were never uploaded.
func excelOnly(outcome *search.Outcome) (string, bool) {
	if len(outcome.MatrixMatches) > 0 || len(outcome.PdfSnippets) > 0 || len(outcome.MappingMatches) == 0 {
		return "", false
	}
	for _, f := range outcome.Files {
		if f.Available {
			return "", false
		}
	}
	if len(outcome.Files) == 0 {
		return "", false
	}
	return outcome.Files[0].Filename, true
}

func toRelevantFileDTOs(files []search.RelevantFile) []dto.RelevantFileDTO {
	out := make([]dto.RelevantFileDTO, 0, len(files))
	for _, f := range files {
		out = append(out, dto.RelevantFileDTO{
			Filename:    f.Filename,
			DownloadURL: f.DownloadURL,
			Available:   f.Available,
			Snippet:     f.Snippet,
			Source:      string(f.Source),
		})
	}
	return out
}

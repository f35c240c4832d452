package service

import (
	"context"
	"errors"
	"strings"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/repository/unitofwork"
)

var ErrFileNotFound = errors.New("file not found")

// TokenVerifier resolves a signed download token back to a filename.
type TokenVerifier interface {
	Verify(token string) (string, error)
	Locator(filename string) string
}

// Download is what a locator resolves to: a redirect for scraped pages or a stored file.
type Download struct {
	Filename    string
	RedirectURL string
	LocalPath   string
}

type IFileService interface {
	Resolve(ctx context.Context, token string) (*Download, error)
	Link(ctx context.Context, filename string) (*dto.FileLinkResponse, error)
}

type fileService struct {
	uowFactory unitofwork.RepositoryFactory
	storage    DocumentStorage
	signer     TokenVerifier
	logger     logger.ILogger
}

func NewFileService(uowFactory unitofwork.RepositoryFactory, storage DocumentStorage, signer TokenVerifier, logger logger.ILogger) IFileService {
	return &fileService{
		uowFactory: uowFactory,
		storage:    storage,
		signer:     signer,
		logger:     logger,
	}
}

func (s *fileService) Resolve(ctx context.Context, token string) (*Download, error) {
	filename, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	// newest record wins when a filename was uploaded more than once
	record, err := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().FindOne(ctx,
		specification.Filter("filename", filename),
		specification.InsertionOrder{TimeField: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// a mapping names a PDF that was never uploaded
		return nil, ErrFileNotFound
	}

	if record.IsScraped() || strings.HasPrefix(record.FilePath, "http://") || strings.HasPrefix(record.FilePath, "https://") {
		return &Download{Filename: filename, RedirectURL: record.FilePath}, nil
	}

	path, err := s.storage.Path(record.FilePath)
	if err != nil {
		s.logger.Warn("FILES", "Record has no stored bytes", map[string]interface{}{
			"filename":  filename,
			"file_path": record.FilePath,
		})
		return nil, ErrFileNotFound
	}
	return &Download{Filename: filename, LocalPath: path}, nil
}

func (s *fileService) Link(ctx context.Context, filename string) (*dto.FileLinkResponse, error) {
	n, err := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().Count(ctx, specification.Filter("filename", filename))
	if err != nil {
		return nil, err
	}
	return &dto.FileLinkResponse{
		Filename:    filename,
		DownloadURL: s.signer.Locator(filename),
		Available:   n > 0,
	}, nil
}

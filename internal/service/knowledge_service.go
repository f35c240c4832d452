package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"code-concierge-be/internal/dto"
	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/repository/specification"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/pkg/events"
	"code-concierge-be/pkg/extract"

	"github.com/google/uuid"
)

var (
	ErrUnknownTable  = errors.New("unknown knowledge table")
	ErrUnknownMode   = errors.New("unknown import mode")
	ErrUnknownFormat = errors.New("unknown export format")
)

const (
	TableCodeMatrix    = "code_matrix"
	TableExcelMappings = "excel_mappings"
	TablePdfFiles      = "pdf_files"
	TableAll           = "all"
)

// storage prefix for uploaded document bytes
const pdfPrefix = "pdfs"

// metadata "source" of records unpacked from zip uploads
const sourceZipUpload = "zip_upload"

const overviewRecentLimit = 5

// UploadedFile is one file of a multipart batch or a file read from disk.
type UploadedFile struct {
	Name string
	Data []byte
}

type PageScraper interface {
	Scrape(ctx context.Context, url string) (*extract.ScrapedPage, error)
}

type DocumentStorage interface {
	Save(prefix, name string, data []byte) (string, error)
	Path(key string) (string, error)
	Remove(key string) error
	RemovePrefix(prefix string) error
}

type StatsInvalidator interface {
	Invalidate()
}

type IKnowledgeService interface {
	ImportWorkbooks(ctx context.Context, files []UploadedFile, mode string) (*dto.BatchResult, error)
	ImportArchives(ctx context.Context, files []UploadedFile, mode string) (*dto.BatchResult, error)
	ImportPdfs(ctx context.Context, files []UploadedFile) (*dto.BatchResult, error)
	ScrapeUrls(ctx context.Context, urls []string) (*dto.BatchResult, error)
	ClearTable(ctx context.Context, table string) (*dto.ClearTableResponse, error)
	GetStats(ctx context.Context) (*dto.KnowledgeStatsResponse, error)
	GetOverview(ctx context.Context) (*dto.KnowledgeOverviewResponse, error)
	Export(ctx context.Context, table string, format string) (*ExportFile, error)
}

type knowledgeService struct {
	uowFactory unitofwork.RepositoryFactory
	storage    DocumentStorage
	scraper    PageScraper
	publisher  IPublisherService
	cache      StatsInvalidator
	logger     logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	storage DocumentStorage,
	scraper PageScraper,
	publisher IPublisherService,
	cache StatsInvalidator,
	logger logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory: uowFactory,
		storage:    storage,
		scraper:    scraper,
		publisher:  publisher,
		cache:      cache,
		logger:     logger,
	}
}

// NormalizeTable accepts the table name or its short alias.
func NormalizeTable(table string) (string, error) {
	switch table {
	case TableCodeMatrix, "matrix":
		return TableCodeMatrix, nil
	case TableExcelMappings, "mappings":
		return TableExcelMappings, nil
	case TablePdfFiles, "pdfs":
		return TablePdfFiles, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

// normalizeMode resolves an empty mode to fallback.
func normalizeMode(mode, fallback string) (string, error) {
	if mode == "" {
		mode = fallback
	}
	switch mode {
	case dto.ImportModeReplace:
		return dto.ImportModeReplace, nil
	case dto.ImportModeAppend:
		return dto.ImportModeAppend, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// batch tracks per-item outcomes and reports each one as it completes.
type batch struct {
	svc    *knowledgeService
	kind   string
	result *dto.BatchResult
}

func (s *knowledgeService) newBatch(kind string) *batch {
	return &batch{
		svc:    s,
		kind:   kind,
		result: &dto.BatchResult{BatchId: uuid.New(), Items: []dto.ItemResult{}},
	}
}

func (b *batch) record(ctx context.Context, item dto.ItemResult) {
	if item.Status == dto.ItemStatusSuccess {
		b.result.Succeeded++
	} else {
		b.result.Failed++
		b.svc.logger.Warn("KNOWLEDGE", "Import item failed", map[string]interface{}{
			"batch_id": b.result.BatchId,
			"kind":     b.kind,
			"name":     item.Name,
			"error":    item.Error,
		})
	}
	b.result.Items = append(b.result.Items, item)

	b.svc.publish(ctx, events.NewKnowledgeEvent(events.KnowledgeImportItem, map[string]interface{}{
		"batch_id": b.result.BatchId.String(),
		"kind":     b.kind,
		"index":    len(b.result.Items) - 1,
		"name":     item.Name,
		"status":   item.Status,
		"rows":     item.Rows,
		"error":    item.Error,
	}))
}

func (b *batch) succeed(ctx context.Context, name, kind string, rows int) {
	b.record(ctx, dto.ItemResult{Name: name, Status: dto.ItemStatusSuccess, Kind: kind, Rows: rows})
}

func (b *batch) fail(ctx context.Context, name string, err error) {
	b.record(ctx, dto.ItemResult{Name: name, Status: dto.ItemStatusFailed, Error: err.Error()})
}

func (b *batch) finish(ctx context.Context) *dto.BatchResult {
	b.svc.cache.Invalidate()
	b.svc.publish(ctx, events.NewKnowledgeEvent(events.KnowledgeImportCompleted, map[string]interface{}{
		"batch_id":  b.result.BatchId.String(),
		"kind":      b.kind,
		"succeeded": b.result.Succeeded,
		"failed":    b.result.Failed,
	}))
	b.svc.logger.Info("KNOWLEDGE", "Import batch finished", map[string]interface{}{
		"batch_id":  b.result.BatchId,
		"kind":      b.kind,
		"succeeded": b.result.Succeeded,
		"failed":    b.result.Failed,
	})
	return b.result
}

// publish never fails the import; progress is best effort.
func (s *knowledgeService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("KNOWLEDGE", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// ImportWorkbooks loads spreadsheets one at a time. In replace mode the first workbook of each
// shape clears its table; later workbooks of the same shape in the batch append.
func (s *knowledgeService) ImportWorkbooks(ctx context.Context, files []UploadedFile, mode string) (*dto.BatchResult, error) {
	mode, err := normalizeMode(mode, dto.ImportModeReplace)
	if err != nil {
		return nil, err
	}

	b := s.newBatch("workbook")
	cleared := map[extract.WorkbookShape]bool{}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	for _, file := range files {
		wb, err := extract.ParseWorkbook(file.Name, bytes.NewReader(file.Data))
		if err != nil {
			b.fail(ctx, file.Name, err)
			continue
		}

		if mode == dto.ImportModeReplace && !cleared[wb.Shape] {
			if _, err := s.clear(ctx, string(wb.Shape)); err != nil {
				b.fail(ctx, file.Name, err)
				continue
			}
			cleared[wb.Shape] = true
		}

		switch wb.Shape {
		case extract.ShapeMapping:
			err = uow.ExcelMappingRepository().CreateBulk(ctx, wb.Mappings)
		default:
			err = uow.CodeMatrixRepository().CreateBulk(ctx, wb.Matrix)
		}
		if err != nil {
			b.fail(ctx, file.Name, fmt.Errorf("store rows: %w", err))
			continue
		}

		b.succeed(ctx, file.Name, string(wb.Shape), wb.Rows())
	}

	return b.finish(ctx), nil
}

// ImportArchives stores every PDF found in the uploaded zips. Archives append by default.
// Replace mode drops earlier archive PDFs once the first zip of the batch has been read;
// single uploads and scraped pages are kept.
func (s *knowledgeService) ImportArchives(ctx context.Context, files []UploadedFile, mode string) (*dto.BatchResult, error) {
	mode, err := normalizeMode(mode, dto.ImportModeAppend)
	if err != nil {
		return nil, err
	}

	b := s.newBatch("archive")
	cleared := false

	for _, file := range files {
		entries, err := extract.ReadArchive(file.Name, bytes.NewReader(file.Data), int64(len(file.Data)))
		if err != nil {
			b.fail(ctx, file.Name, err)
			continue
		}

		if mode == dto.ImportModeReplace && !cleared {
			if _, err := s.clearArchivePdfs(ctx); err != nil {
				b.fail(ctx, file.Name, err)
				continue
			}
			cleared = true
		}

		for _, entry := range entries {
			itemName := file.Name + "/" + entry.OriginalPath
			stored, err := s.storePdf(ctx, entry.Filename, entry.Data, map[string]interface{}{
				"source":        sourceZipUpload,
				"original_path": entry.OriginalPath,
				"zip_source":    file.Name,
			})
			if err != nil {
				b.fail(ctx, itemName, err)
				continue
			}
			b.succeed(ctx, itemName, "pdf", stored)
		}
	}

	return b.finish(ctx), nil
}

// clearArchivePdfs deletes the records that came out of zips, and their bytes.
func (s *knowledgeService) clearArchivePdfs(ctx context.Context) (int64, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository()
	all, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	var ids []uuid.UUID
	var keys []string
	for _, f := range all {
		if source, _ := f.Metadata["source"].(string); source == sourceZipUpload {
			ids = append(ids, f.Id)
			keys = append(keys, f.FilePath)
		}
	}

	deleted, err := repo.DeleteByIds(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := s.storage.Remove(key); err != nil {
			s.logger.Warn("KNOWLEDGE", "Failed to remove stored PDF", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	s.cache.Invalidate()
	return deleted, nil
}

func (s *knowledgeService) ImportPdfs(ctx context.Context, files []UploadedFile) (*dto.BatchResult, error) {
	b := s.newBatch("pdf")

	for _, file := range files {
		if !extract.IsPDFName(file.Name) {
			b.fail(ctx, file.Name, fmt.Errorf("%s is not a PDF", file.Name))
			continue
		}
		stored, err := s.storePdf(ctx, file.Name, file.Data, map[string]interface{}{
			"source":        "pdf_upload",
			"original_name": file.Name,
		})
		if err != nil {
			b.fail(ctx, file.Name, err)
			continue
		}
		b.succeed(ctx, file.Name, "pdf", stored)
	}

	return b.finish(ctx), nil
}

// storePdf saves the bytes, extracts text and writes the record. Text extraction failures keep
// the record with no content so the file can still be downloaded.
func (s *knowledgeService) storePdf(ctx context.Context, filename string, data []byte, metadata map[string]interface{}) (int, error) {
	key, err := s.storage.Save(pdfPrefix, filename, data)
	if err != nil {
		return 0, err
	}

	record := &entity.PdfFile{
		Filename: filename,
		FilePath: key,
		FileSize: int64(len(data)),
		Metadata: metadata,
	}

	text, err := extract.ExtractPDFText(data)
	if err != nil {
		s.logger.Warn("KNOWLEDGE", "PDF text extraction failed", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
	}
	metadata["has_content"] = text != ""
	metadata["upload_timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if text != "" {
		record.ContentText = &text
	}

	if err := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository().Create(ctx, record); err != nil {
		return 0, fmt.Errorf("store pdf record: %w", err)
	}
	return 1, nil
}

// ScrapeUrls fetches pages sequentially and stores each as a content record pointing at its URL.
func (s *knowledgeService) ScrapeUrls(ctx context.Context, urls []string) (*dto.BatchResult, error) {
	b := s.newBatch("url")
	repo := s.uowFactory.NewUnitOfWork(ctx).PdfFileRepository()

	for _, rawURL := range urls {
		page, err := s.scraper.Scrape(ctx, rawURL)
		if err != nil {
			b.fail(ctx, rawURL, err)
			continue
		}

		content := page.Content
		record := &entity.PdfFile{
			Filename:    page.Title,
			FilePath:    page.URL,
			FileSize:    int64(len(content)),
			ContentText: &content,
			Metadata: map[string]interface{}{
				"scraped":    true,
				"url":        page.URL,
				"title":      page.Title,
				"scraped_at": page.ScrapedAt.UTC().Format(time.RFC3339),
				"word_count": page.WordCount,
			},
		}
		if err := repo.Create(ctx, record); err != nil {
			b.fail(ctx, rawURL, fmt.Errorf("store page: %w", err))
			continue
		}
		b.succeed(ctx, rawURL, "page", 1)
	}

	return b.finish(ctx), nil
}

func (s *knowledgeService) ClearTable(ctx context.Context, table string) (*dto.ClearTableResponse, error) {
	name, err := NormalizeTable(table)
	if err != nil {
		return nil, err
	}

	deleted, err := s.clear(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.logger.Info("KNOWLEDGE", "Table cleared", map[string]interface{}{"table": name, "deleted": deleted})
	s.publish(ctx, events.NewKnowledgeEvent(events.KnowledgeCleared, map[string]interface{}{
		"table":   name,
		"deleted": deleted,
	}))

	return &dto.ClearTableResponse{Table: name, Deleted: deleted}, nil
}

// clear empties exactly one table.
func (s *knowledgeService) clear(ctx context.Context, table string) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	switch table {
	case TableCodeMatrix:
		return uow.CodeMatrixRepository().DeleteAll(ctx)
	case TableExcelMappings:
		return uow.ExcelMappingRepository().DeleteAll(ctx)
	case TablePdfFiles:
		deleted, err := uow.PdfFileRepository().DeleteAll(ctx)
		if err != nil {
			return 0, err
		}
		if err := s.storage.RemovePrefix(pdfPrefix); err != nil {
			s.logger.Warn("KNOWLEDGE", "Failed to remove stored PDFs", map[string]interface{}{"error": err.Error()})
		}
		return deleted, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

func (s *knowledgeService) GetStats(ctx context.Context) (*dto.KnowledgeStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	var stats entity.KnowledgeStats
	var err error

	if stats.CodeMatrix, err = uow.CodeMatrixRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.ExcelMappings, err = uow.ExcelMappingRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.PdfFiles, err = uow.PdfFileRepository().Count(ctx); err != nil {
		return nil, err
	}

	return &dto.KnowledgeStatsResponse{
		CodeMatrix:    stats.CodeMatrix,
		ExcelMappings: stats.ExcelMappings,
		PdfFiles:      stats.PdfFiles,
		Total:         stats.Total(),
	}, nil
}

func (s *knowledgeService) GetOverview(ctx context.Context) (*dto.KnowledgeOverviewResponse, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matrix, err := uow.CodeMatrixRepository().FindAll(ctx, specification.InsertionOrder{Desc: true}, specification.Limit(overviewRecentLimit))
	if err != nil {
		return nil, err
	}
	mappings, err := uow.ExcelMappingRepository().FindAll(ctx, specification.InsertionOrder{Desc: true}, specification.Limit(overviewRecentLimit))
	if err != nil {
		return nil, err
	}
	pdfs, err := uow.PdfFileRepository().FindAll(ctx, specification.InsertionOrder{TimeField: "uploaded_at", Desc: true}, specification.Limit(overviewRecentLimit))
	if err != nil {
		return nil, err
	}

	return &dto.KnowledgeOverviewResponse{
		Stats:         *stats,
		RecentMatrix:  toCodeMatrixResponses(matrix),
		RecentMapping: toExcelMappingResponses(mappings),
		RecentPdfs:    toPdfFileResponses(pdfs),
	}, nil
}

func toCodeMatrixResponses(rows []*entity.CodeMatrixEntry) []*dto.CodeMatrixResponse {
	out := make([]*dto.CodeMatrixResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.CodeMatrixResponse{
			Id:            r.Id,
			CodeBlock:     r.CodeBlock,
			Filename:      r.Filename,
			WorksheetName: r.WorksheetName,
			ToolName:      r.ToolName,
			Phase:         r.Phase,
			CanvasType:    r.CanvasType,
			Sublevel:      r.Sublevel,
			Description:   r.Description,
			Keywords:      r.Keywords,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}

func toExcelMappingResponses(rows []*entity.ExcelMapping) []*dto.ExcelMappingResponse {
	out := make([]*dto.ExcelMappingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.ExcelMappingResponse{
			Id:          r.Id,
			QueryTerm:   r.QueryTerm,
			PdfFilename: r.PdfFilename,
			Category:    r.Category,
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

func toPdfFileResponses(rows []*entity.PdfFile) []*dto.PdfFileResponse {
	out := make([]*dto.PdfFileResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.PdfFileResponse{
			Id:         r.Id,
			Filename:   r.Filename,
			FilePath:   r.FilePath,
			FileSize:   r.FileSize,
			HasContent: r.ContentText != nil && *r.ContentText != "",
			Metadata:   r.Metadata,
			UploadedAt: r.UploadedAt,
		})
	}
	return out
}

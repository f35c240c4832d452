package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/repository/specification"
)

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportRows struct {
	CodeMatrix    []*entity.CodeMatrixEntry `json:"code_matrix,omitempty"`
	ExcelMappings []*entity.ExcelMapping    `json:"excel_mappings,omitempty"`
	PdfFiles      []*entity.PdfFile         `json:"pdf_files,omitempty"`
}

// Export dumps one table as CSV, or one or all tables as JSON.
func (s *knowledgeService) Export(ctx context.Context, table string, format string) (*ExportFile, error) {
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	tables := []string{TableCodeMatrix, TableExcelMappings, TablePdfFiles}
	if table != TableAll {
		name, err := NormalizeTable(table)
		if err != nil {
			return nil, err
		}
		tables = []string{name}
	} else if format == "csv" {
		return nil, fmt.Errorf("%w: csv exports one table at a time", ErrUnknownFormat)
	}

	rows, err := s.loadExportRows(ctx, tables)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	if format == "json" {
		data, err := json.MarshalIndent(toExportJSON(rows), "", "  ")
		if err != nil {
			return nil, err
		}
		name := "code_framework_data_" + stamp + ".json"
		if table != TableAll {
			name = tables[0] + "_" + stamp + ".json"
		}
		return &ExportFile{Filename: name, ContentType: "application/json; charset=utf-8", Data: data}, nil
	}

	data, err := writeCSV(tables[0], rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{Filename: tables[0] + "_" + stamp + ".csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
}

func (s *knowledgeService) loadExportRows(ctx context.Context, tables []string) (*exportRows, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows := &exportRows{}
	var err error

	for _, t := range tables {
		switch t {
		case TableCodeMatrix:
			rows.CodeMatrix, err = uow.CodeMatrixRepository().FindAll(ctx, specification.InsertionOrder{})
		case TableExcelMappings:
			rows.ExcelMappings, err = uow.ExcelMappingRepository().FindAll(ctx, specification.InsertionOrder{})
		case TablePdfFiles:
			rows.PdfFiles, err = uow.PdfFileRepository().FindAll(ctx, specification.InsertionOrder{TimeField: "uploaded_at"})
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", t, err)
		}
	}
	return rows, nil
}

func toExportJSON(rows *exportRows) map[string]interface{} {
	out := map[string]interface{}{}
	if rows.CodeMatrix != nil {
		out[TableCodeMatrix] = toCodeMatrixResponses(rows.CodeMatrix)
	}
	if rows.ExcelMappings != nil {
		out[TableExcelMappings] = toExcelMappingResponses(rows.ExcelMappings)
	}
	if rows.PdfFiles != nil {
		files := make([]map[string]interface{}, 0, len(rows.PdfFiles))
		for _, f := range rows.PdfFiles {
			files = append(files, map[string]interface{}{
				"id":           f.Id,
				"filename":     f.Filename,
				"file_path":    f.FilePath,
				"file_size":    f.FileSize,
				"content_text": deref(f.ContentText),
				"metadata":     f.Metadata,
				"uploaded_at":  f.UploadedAt,
			})
		}
		out[TablePdfFiles] = files
	}
	return out
}

func writeCSV(table string, rows *exportRows) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var records [][]string
	switch table {
	case TableCodeMatrix:
		records = append(records, []string{"id", "code_block", "filename", "worksheet_name", "tool_name", "phase", "canvas_type", "sublevel", "description", "keywords", "created_at"})
		for _, r := range rows.CodeMatrix {
			records = append(records, []string{
				r.Id.String(), deref(r.CodeBlock), r.Filename, deref(r.WorksheetName), deref(r.ToolName),
				deref(r.Phase), deref(r.CanvasType), deref(r.Sublevel), deref(r.Description),
				strings.Join(r.Keywords, ";"), r.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	case TableExcelMappings:
		records = append(records, []string{"id", "query_term", "pdf_filename", "category", "description", "created_at"})
		for _, r := range rows.ExcelMappings {
			records = append(records, []string{
				r.Id.String(), r.QueryTerm, r.PdfFilename, deref(r.Category), deref(r.Description),
				r.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	case TablePdfFiles:
		records = append(records, []string{"id", "filename", "file_path", "file_size", "content_text", "metadata", "uploaded_at"})
		for _, r := range rows.PdfFiles {
			meta, _ := json.Marshal(r.Metadata)
			records = append(records, []string{
				r.Id.String(), r.Filename, r.FilePath, strconv.FormatInt(r.FileSize, 10), deref(r.ContentText),
				string(meta), r.UploadedAt.UTC().Format(time.RFC3339),
			})
		}
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

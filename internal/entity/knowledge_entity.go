package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodeMatrixEntry struct {
	Id            uuid.UUID
	CodeBlock     *string
	Filename      string
	WorksheetName *string
	ToolName      *string
	Phase         *string
	CanvasType    *string
	Sublevel      *string
	Description   *string
	Keywords      []string
	CreatedAt     time.Time
}

type ExcelMapping struct {
	Id          uuid.UUID
	QueryTerm   string
	PdfFilename string
	Category    *string
	Description *string
	CreatedAt   time.Time
}

type PdfFile struct {
	Id          uuid.UUID
	Filename    string
	FilePath    string
	FileSize    int64
	ContentText *string
	Metadata    map[string]interface{}
	UploadedAt  time.Time
}

// IsScraped reports whether the record came from a web page rather than an uploaded file.
func (p *PdfFile) IsScraped() bool {
	if scraped, ok := p.Metadata["scraped"].(bool); ok {
		return scraped
	}
	return false
}

// KnowledgeStats holds the row count of each knowledge table.
type KnowledgeStats struct {
	CodeMatrix    int64 `json:"code_matrix"`
	ExcelMappings int64 `json:"excel_mappings"`
	PdfFiles      int64 `json:"pdf_files"`
}

func (s KnowledgeStats) IsEmpty() bool {
	return s.CodeMatrix == 0 && s.ExcelMappings == 0 && s.PdfFiles == 0
}

func (s KnowledgeStats) Total() int64 {
	return s.CodeMatrix + s.ExcelMappings + s.PdfFiles
}

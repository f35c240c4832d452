package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	ItemStatusSuccess = "success"
	ItemStatusFailed  = "failed"
)

const (
	ImportModeReplace = "replace"
	ImportModeAppend  = "append"
)

// ItemResult is the outcome of one file or URL in a batch.
type ItemResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

type BatchResult struct {
	BatchId   uuid.UUID    `json:"batch_id"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}

// FailedNames lists the items a caller should retry.
func (b *BatchResult) FailedNames() []string {
	var names []string
	for _, item := range b.Items {
		if item.Status == ItemStatusFailed {
			names = append(names, item.Name)
		}
	}
	return names
}

type ScrapeUrlsRequest struct {
	Urls []string `json:"urls" validate:"required,min=1,max=50,dive,required,url"`
}

type KnowledgeStatsResponse struct {
	CodeMatrix    int64 `json:"code_matrix"`
	ExcelMappings int64 `json:"excel_mappings"`
	PdfFiles      int64 `json:"pdf_files"`
	Total         int64 `json:"total"`
}

type CodeMatrixResponse struct {
	Id            uuid.UUID `json:"id"`
	CodeBlock     *string   `json:"code_block"`
	Filename      string    `json:"filename"`
	WorksheetName *string   `json:"worksheet_name"`
	ToolName      *string   `json:"tool_name"`
	Phase         *string   `json:"phase"`
	CanvasType    *string   `json:"canvas_type"`
	Sublevel      *string   `json:"sublevel"`
	Description   *string   `json:"description"`
	Keywords      []string  `json:"keywords"`
	CreatedAt     time.Time `json:"created_at"`
}

type ExcelMappingResponse struct {
	Id          uuid.UUID `json:"id"`
	QueryTerm   string    `json:"query_term"`
	PdfFilename string    `json:"pdf_filename"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type PdfFileResponse struct {
	Id         uuid.UUID              `json:"id"`
	Filename   string                 `json:"filename"`
	FilePath   string                 `json:"file_path"`
	FileSize   int64                  `json:"file_size"`
	HasContent bool                   `json:"has_content"`
	Metadata   map[string]interface{} `json:"metadata"`
	UploadedAt time.Time              `json:"uploaded_at"`
}

type KnowledgeOverviewResponse struct {
	Stats         KnowledgeStatsResponse  `json:"stats"`
	RecentMatrix  []*CodeMatrixResponse   `json:"recent_code_matrix"`
	RecentMapping []*ExcelMappingResponse `json:"recent_excel_mappings"`
	RecentPdfs    []*PdfFileResponse      `json:"recent_pdf_files"`
}

type ClearTableResponse struct {
	Table   string `json:"table"`
	Deleted int64  `json:"deleted"`
}

type FileLinkResponse struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	Available   bool   `json:"available"`
}

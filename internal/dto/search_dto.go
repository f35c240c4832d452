package dto

const (
	SearchTypeSuccess     = "success"
	SearchTypeExcelOnly   = "excel-only"
	SearchTypeNotFound    = "not-found"
	SearchTypeSuggestions = "suggestions"
)

type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

type SearchResponse struct {
	Type        string            `json:"type"`
	Message     string            `json:"message"`
	Route       string            `json:"route,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Files       []RelevantFileDTO `json:"files,omitempty"`
}

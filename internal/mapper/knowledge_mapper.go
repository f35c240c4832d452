package mapper

import (
	"strings"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/model"

	"gorm.io/datatypes"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

// cleanText drops blank strings so nullable columns read back as nil instead of "".
func cleanText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Code matrix

func (m *KnowledgeMapper) CodeMatrixToEntity(e *model.CodeMatrixEntry) *entity.CodeMatrixEntry {
	if e == nil {
		return nil
	}

	keywords := make([]string, 0, len(e.Keywords))
	for _, k := range e.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	return &entity.CodeMatrixEntry{
		Id:            e.Id,
		CodeBlock:     cleanText(e.CodeBlock),
		Filename:      e.Filename,
		WorksheetName: cleanText(e.WorksheetName),
		ToolName:      cleanText(e.ToolName),
		Phase:         cleanText(e.Phase),
		CanvasType:    cleanText(e.CanvasType),
		Sublevel:      cleanText(e.Sublevel),
		Description:   cleanText(e.Description),
		Keywords:      keywords,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *KnowledgeMapper) CodeMatrixToModel(e *entity.CodeMatrixEntry) *model.CodeMatrixEntry {
	if e == nil {
		return nil
	}

	return &model.CodeMatrixEntry{
		Id:            e.Id,
		CodeBlock:     cleanText(e.CodeBlock),
		Filename:      e.Filename,
		WorksheetName: cleanText(e.WorksheetName),
		ToolName:      cleanText(e.ToolName),
		Phase:         cleanText(e.Phase),
		CanvasType:    cleanText(e.CanvasType),
		Sublevel:      cleanText(e.Sublevel),
		Description:   cleanText(e.Description),
		Keywords:      datatypes.NewJSONSlice(e.Keywords),
		CreatedAt:     e.CreatedAt,
	}
}

func (m *KnowledgeMapper) CodeMatrixToEntities(rows []*model.CodeMatrixEntry) []*entity.CodeMatrixEntry {
	out := make([]*entity.CodeMatrixEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.CodeMatrixToEntity(r))
	}
	return out
}

// Excel mappings

func (m *KnowledgeMapper) MappingToEntity(e *model.ExcelMapping) *entity.ExcelMapping {
	if e == nil {
		return nil
	}

	return &entity.ExcelMapping{
		Id:          e.Id,
		QueryTerm:   e.QueryTerm,
		PdfFilename: e.PdfFilename,
		Category:    cleanText(e.Category),
		Description: cleanText(e.Description),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *KnowledgeMapper) MappingToModel(e *entity.ExcelMapping) *model.ExcelMapping {
	if e == nil {
		return nil
	}

	return &model.ExcelMapping{
		Id:          e.Id,
		QueryTerm:   strings.TrimSpace(e.QueryTerm),
		PdfFilename: strings.TrimSpace(e.PdfFilename),
		Category:    cleanText(e.Category),
		Description: cleanText(e.Description),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *KnowledgeMapper) MappingToEntities(rows []*model.ExcelMapping) []*entity.ExcelMapping {
	out := make([]*entity.ExcelMapping, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.MappingToEntity(r))
	}
	return out
}

// PDF files

func (m *KnowledgeMapper) PdfFileToEntity(e *model.PdfFile) *entity.PdfFile {
	if e == nil {
		return nil
	}

	metadata := map[string]interface{}{}
	for k, v := range e.Metadata {
		metadata[k] = v
	}

	return &entity.PdfFile{
		Id:          e.Id,
		Filename:    e.Filename,
		FilePath:    e.FilePath,
		FileSize:    e.FileSize,
		ContentText: cleanText(e.ContentText),
		Metadata:    metadata,
		UploadedAt:  e.UploadedAt,
	}
}

func (m *KnowledgeMapper) PdfFileToModel(e *entity.PdfFile) *model.PdfFile {
	if e == nil {
		return nil
	}

	return &model.PdfFile{
		Id:          e.Id,
		Filename:    e.Filename,
		FilePath:    e.FilePath,
		FileSize:    e.FileSize,
		ContentText: e.ContentText,
		Metadata:    datatypes.JSONMap(e.Metadata),
		UploadedAt:  e.UploadedAt,
	}
}

func (m *KnowledgeMapper) PdfFileToEntities(rows []*model.PdfFile) []*entity.PdfFile {
	out := make([]*entity.PdfFile, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.PdfFileToEntity(r))
	}
	return out
}

package search

import (
	"code-concierge-be/internal/entity"
	"code-concierge-be/pkg/utils"
)

type FileSource string

const (
	FileSourceMapping FileSource = "mapping"
	FileSourcePdf     FileSource = "pdf"
)

const fileSnippetLength = 200

// LocatorFunc turns a filename into a download reference.
type LocatorFunc func(filename string) string

type RelevantFile struct {
	Filename    string
	DownloadURL string
	Source      FileSource
	// Available is false when only a mapping names the file and no record was ever stored.
	Available bool
	Snippet   string
}

// CollectRelevantFiles dedupes by filename keeping first appearance: mapping targets
// first, then directly matched PDF records.
func CollectRelevantFiles(mappings []*entity.ExcelMapping, pdfs []*entity.PdfFile) []RelevantFile {
	seen := make(map[string]int)
	files := make([]RelevantFile, 0, len(mappings)+len(pdfs))

	for _, m := range mappings {
		if m.PdfFilename == "" {
			continue
		}
		if _, ok := seen[m.PdfFilename]; ok {
			continue
		}
		seen[m.PdfFilename] = len(files)
		f := RelevantFile{Filename: m.PdfFilename, Source: FileSourceMapping}
		if m.Description != nil {
			f.Snippet, _ = utils.Truncate(*m.Description, fileSnippetLength)
		}
		files = append(files, f)
	}

	for _, p := range pdfs {
		idx, ok := seen[p.Filename]
		if !ok {
			idx = len(files)
			seen[p.Filename] = idx
			files = append(files, RelevantFile{Filename: p.Filename, Source: FileSourcePdf})
		}
		files[idx].Available = true
		if files[idx].Snippet == "" && p.ContentText != nil {
			files[idx].Snippet, _ = utils.Truncate(*p.ContentText, fileSnippetLength)
		}
	}

	return files
}

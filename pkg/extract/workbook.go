package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"code-concierge-be/internal/entity"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedWorkbook = errors.New("unsupported workbook")

type WorkbookShape string

const (
	ShapeCodeMatrix WorkbookShape = "code_matrix"
	ShapeMapping    WorkbookShape = "excel_mappings"
)

// Workbook is the decoded first sheet of an uploaded spreadsheet.
// Only the slice matching Shape is populated.
type Workbook struct {
	Name      string
	Shape     WorkbookShape
	Sheet     string
	TotalRows int
	Matrix    []*entity.CodeMatrixEntry
	Mappings  []*entity.ExcelMapping
}

func (w *Workbook) Rows() int {
	if w.Shape == ShapeMapping {
		return len(w.Mappings)
	}
	return len(w.Matrix)
}

// DetectShape picks the row layout from the file name, then from the header row.
// Anything unrecognised is treated as a code matrix.
func DetectShape(name string, header []string) WorkbookShape {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "codematrix"):
		return ShapeCodeMatrix
	case strings.Contains(lower, "codeai"), strings.Contains(lower, "mapping"):
		return ShapeMapping
	}

	headers := make(map[string]bool, len(header))
	for _, h := range header {
		headers[strings.ToLower(strings.TrimSpace(h))] = true
	}
	switch {
	case headers["code_block"] || headers["filename"] || headers["phase"]:
		return ShapeCodeMatrix
	case headers["query_term"] || headers["pdf_filename"]:
		return ShapeMapping
	}
	return ShapeCodeMatrix
}

// ParseWorkbook reads the first sheet of an xlsx stream. Row 0 is a header and is skipped.
func ParseWorkbook(name string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedWorkbook, name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrUnsupportedWorkbook, name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	wb := &Workbook{Name: name, Sheet: sheets[0], TotalRows: len(rows)}
	if len(rows) == 0 {
		wb.Shape = DetectShape(name, nil)
		return wb, nil
	}

	wb.Shape = DetectShape(name, rows[0])
	switch wb.Shape {
	case ShapeMapping:
		wb.Mappings = mappingRows(rows[1:])
	default:
		wb.Matrix = matrixRows(name, rows[1:])
	}
	return wb, nil
}

func matrixRows(workbookName string, rows [][]string) []*entity.CodeMatrixEntry {
	out := make([]*entity.CodeMatrixEntry, 0, len(rows))
	for _, row := range rows {
		codeBlock, filename := cell(row, 0), cell(row, 1)
		if codeBlock == "" && filename == "" {
			continue
		}
		if filename == "" {
			filename = workbookName
		}

		entry := &entity.CodeMatrixEntry{
			CodeBlock:     optional(codeBlock),
			Filename:      filename,
			WorksheetName: optional(cell(row, 2)),
			ToolName:      optional(cell(row, 3)),
			Phase:         optional(cell(row, 4)),
			CanvasType:    optional(cell(row, 5)),
			Sublevel:      optional(cell(row, 6)),
			Description:   optional(cell(row, 7)),
		}
		if kw := cell(row, 8); kw != "" {
			entry.Keywords = []string{kw}
		}
		out = append(out, entry)
	}
	return out
}

func mappingRows(rows [][]string) []*entity.ExcelMapping {
	out := make([]*entity.ExcelMapping, 0, len(rows))
	for _, row := range rows {
		term, pdf := cell(row, 0), cell(row, 1)
		if term == "" || pdf == "" {
			continue
		}
		out = append(out, &entity.ExcelMapping{
			QueryTerm:   term,
			PdfFilename: pdf,
			Category:    optional(cell(row, 2)),
			Description: optional(cell(row, 3)),
		})
	}
	return out
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

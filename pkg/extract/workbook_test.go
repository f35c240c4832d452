package extract_test

import (
	"bytes"
	"testing"

	"code-concierge-be/pkg/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook_CodeMatrixByFilename(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"Code", "File", "Worksheet", "Tool", "Phase", "Canvas", "Sublevel", "Description", "Keywords"},
		[]interface{}{"CODE12", "", "Problem Framing", "Framer", "Conceptualize", "Problem Canvas", "1.2", "Frame it", "problem"},
		[]interface{}{"", "", "ignored"},
		[]interface{}{"", "other.pdf", "Only filename"},
	)

	wb, err := extract.ParseWorkbook("CODEMatrix_v2.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, extract.ShapeCodeMatrix, wb.Shape)
	require.Len(t, wb.Matrix, 2)
	assert.Equal(t, 2, wb.Rows())

	first := wb.Matrix[0]
	assert.Equal(t, "CODE12", *first.CodeBlock)
	assert.Equal(t, "CODEMatrix_v2.xlsx", first.Filename, "missing filename falls back to the workbook name")
	assert.Equal(t, "Conceptualize", *first.Phase)
	assert.Equal(t, []string{"problem"}, first.Keywords)

	second := wb.Matrix[1]
	assert.Nil(t, second.CodeBlock)
	assert.Equal(t, "other.pdf", second.Filename)
	assert.Nil(t, second.Keywords)
}

func TestParseWorkbook_MappingRequiresTermAndPdf(t *testing.T) {
	buf := buildWorkbook(t,
		[]interface{}{"term", "pdf", "category", "description"},
		[]interface{}{"VPC Canvas", "vpc.pdf", "Canvas", "Value proposition"},
		[]interface{}{"orphan", ""},
		[]interface{}{"", "lonely.pdf"},
	)

	wb, err := extract.ParseWorkbook("codeai_mapping.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, extract.ShapeMapping, wb.Shape)
	require.Len(t, wb.Mappings, 1)
	assert.Equal(t, "VPC Canvas", wb.Mappings[0].QueryTerm)
	assert.Equal(t, "vpc.pdf", wb.Mappings[0].PdfFilename)
	assert.Equal(t, "Canvas", *wb.Mappings[0].Category)
	assert.Empty(t, wb.Matrix)
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		header []string
		want   extract.WorkbookShape
	}{
		{"matrix by name", "codematrix.xlsx", []string{"query_term"}, extract.ShapeCodeMatrix},
		{"mapping by name", "Mapping.xlsx", []string{"code_block"}, extract.ShapeMapping},
		{"codeai by name", "CodeAI.xlsx", nil, extract.ShapeMapping},
		{"matrix by header", "data.xlsx", []string{"Code_Block", "x"}, extract.ShapeCodeMatrix},
		{"mapping by header", "data.xlsx", []string{"QUERY_TERM", "pdf_filename"}, extract.ShapeMapping},
		{"unknown defaults to matrix", "data.xlsx", []string{"a", "b"}, extract.ShapeCodeMatrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.DetectShape(tt.file, tt.header))
		})
	}
}

func TestParseWorkbook_RejectsGarbage(t *testing.T) {
	_, err := extract.ParseWorkbook("broken.xlsx", bytes.NewBufferString("not a workbook"))
	assert.ErrorIs(t, err, extract.ErrUnsupportedWorkbook)
}

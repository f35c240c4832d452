package specification

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const likeEscape = "!"

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// EscapeLike makes a term match literally inside a LIKE pattern.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// AnyFieldContains matches rows where at least one field contains Term, ignoring case.
// LOWER/LIKE/ESCAPE is used instead of ILIKE so the same query runs on every supported dialect.
type AnyFieldContains struct {
	Fields []string
	Term   string
}

func (s AnyFieldContains) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Fields) == 0 {
		return db.Where("1 = 0")
	}

	pattern := "%" + EscapeLike(s.Term) + "%"
	clauses := make([]string, 0, len(s.Fields))
	args := make([]interface{}, 0, len(s.Fields))
	for _, field := range s.Fields {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '%s'", field, likeEscape))
		args = append(args, pattern)
	}

	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

var (
	CodeMatrixSearchFields   = []string{"code_block", "worksheet_name", "tool_name", "phase", "canvas_type"}
	ExcelMappingSearchFields = []string{"query_term", "pdf_filename", "category"}
	PdfFileSearchFields      = []string{"filename", "content_text"}
)

// CodeMatrixMatching matches code block, worksheet, tool, phase and canvas type.
func CodeMatrixMatching(term string) Specification {
	return AnyFieldContains{Fields: CodeMatrixSearchFields, Term: term}
}

// ExcelMappingMatching matches query term, target PDF filename and category.
func ExcelMappingMatching(term string) Specification {
	return AnyFieldContains{Fields: ExcelMappingSearchFields, Term: term}
}

// PdfFileMatching matches filename or extracted text.
func PdfFileMatching(term string) Specification {
	return AnyFieldContains{Fields: PdfFileSearchFields, Term: term}
}

// PdfContentMatching matches extracted text only.
func PdfContentMatching(term string) Specification {
	return AnyFieldContains{Fields: []string{"content_text"}, Term: term}
}

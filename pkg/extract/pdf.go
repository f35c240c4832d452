package extract

import (
	"bytes"
	"fmt"
	"io"

	"code-concierge-be/pkg/utils"

	"github.com/dslipak/pdf"
)

// MaxContentRunes caps the stored text of any single document.
const MaxContentRunes = 50000

// ExtractPDFText returns the plain text of a PDF with whitespace collapsed per line.
func ExtractPDFText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	out, _ := utils.Truncate(utils.CollapseLineSpaces(string(raw)), MaxContentRunes)
	return out, nil
}

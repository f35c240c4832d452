package controller

import (
	"fmt"
	"io"

	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const uploadField = "files"

// readUploads loads every file of the multipart field into memory.
func readUploads(ctx *fiber.Ctx) ([]service.UploadedFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, serverutils.BadRequest("Expected multipart form with field \"files\"")
	}

	headers := form.File[uploadField]
	if len(headers) == 0 {
		return nil, serverutils.BadRequest("No files uploaded")
	}

	files := make([]service.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		files = append(files, service.UploadedFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}

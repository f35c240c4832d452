package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// ArchiveEntry is one PDF pulled out of an uploaded zip.
type ArchiveEntry struct {
	Filename     string
	OriginalPath string
	Data         []byte
}

func (e ArchiveEntry) Size() int64 {
	return int64(len(e.Data))
}

// ReadArchive returns every non-directory .pdf entry, named by its base name.
func ReadArchive(name string, r io.ReaderAt, size int64) ([]ArchiveEntry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}

	var entries []ArchiveEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !IsPDFName(f.Name) {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", f.Name, name, err)
		}
		entries = append(entries, ArchiveEntry{
			Filename:     path.Base(f.Name),
			OriginalPath: f.Name,
			Data:         data,
		})
	}
	return entries, nil
}

func IsPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

package extract_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"code-concierge-be/pkg/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadArchive_OnlyPdfEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"docs/guide.PDF":    "%PDF-1.4 guide",
		"docs/readme.txt":   "ignore me",
		"nested/deep/a.pdf": "%PDF-1.4 a",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	_, err := zw.Create("folder.pdf/")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	entries, err := extract.ReadArchive("bundle.zip", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]extract.ArchiveEntry{}
	for _, e := range entries {
		byName[e.Filename] = e
	}
	require.Contains(t, byName, "guide.PDF")
	require.Contains(t, byName, "a.pdf")
	assert.Equal(t, "nested/deep/a.pdf", byName["a.pdf"].OriginalPath)
	assert.EqualValues(t, len("%PDF-1.4 a"), byName["a.pdf"].Size())
}

func TestReadArchive_NotAZip(t *testing.T) {
	data := []byte("plain text")
	_, err := extract.ReadArchive("x.zip", bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestExtractPDFText_MalformedInput(t *testing.T) {
	_, err := extract.ExtractPDFText([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real *multipart.FileHeader by round-tripping a
// multipart request body.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PUT", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSavePhoto(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 1<<20)

	header := fileHeader(t, "campus.jpg", "image/jpeg", []byte("fake image bytes"))
	name, err := svc.SavePhoto(header, "5d725a1b7b292f5f8ceff788")
	require.NoError(t, err)

	assert.Equal(t, "photo_5d725a1b7b292f5f8ceff788.jpg", name)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestSavePhotoRejectsNonImage(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1<<20)
	header := fileHeader(t, "notes.txt", "text/plain", []byte("hello"))

	_, err := svc.SavePhoto(header, "abc")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestSavePhotoRejectsOversized(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 4)
	header := fileHeader(t, "big.png", "image/png", []byte("way too many bytes"))

	_, err := svc.SavePhoto(header, "abc")
	assert.ErrorIs(t, err, ErrFileTooBig)
}

func TestSavePhotoNilHeader(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 1<<20)
	_, err := svc.SavePhoto(nil, "abc")
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

package services

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Upload validation failures, surfaced to the caller as 400s.
var (
	ErrNotAnImage  = errors.New("uploaded file is not an image")
	ErrFileTooBig  = errors.New("uploaded file exceeds the size limit")
	ErrEmptyUpload = errors.New("no file was uploaded")
)

// UploadService writes bootcamp photos to the local filesystem.
type UploadService struct {
	dir      string
	maxBytes int64
}

func NewUploadService(dir string, maxBytes int64) *UploadService {
	return &UploadService{dir: dir, maxBytes: maxBytes}
}

// SavePhoto validates and stores an uploaded image for the given record,
// naming it photo_<id><ext> so re-uploads replace the previous photo.
// Returns the stored filename.
func (s *UploadService) SavePhoto(file *multipart.FileHeader, recordID string) (string, error) {
	if file == nil {
		return "", ErrEmptyUpload
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrNotAnImage
	}
	if file.Size > s.maxBytes {
		return "", ErrFileTooBig
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := "photo_" + recordID + filepath.Ext(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

package httpadapter

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"threatledger/internal/domain"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// file size limit.
const multipartOverhead = 64 << 10

// spoolUpload streams the analysisFile part to a temp file in the upload
// directory and returns its path. Other parts are skipped.
func (s *Server) spoolUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		return "", fmt.Errorf("%w: expected a multipart/form-data body", domain.ErrValidation)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no %s provided", domain.ErrValidation, uploadField)
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed multipart body", domain.ErrValidation)
		}
		if part.FormName() != uploadField || part.FileName() == "" {
			part.Close()
			continue
		}
		path, err := s.spoolPart(part, part.FileName())
		part.Close()
		return path, err
	}
}

func (s *Server) spoolPart(src io.Reader, name string) (string, error) {
	dir := s.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: upload dir: %w", domain.ErrStorageUnavailable, err)
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	f, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("%w: spool upload: %w", domain.ErrStorageUnavailable, err)
	}
	n, err := io.Copy(f, io.LimitReader(src, s.maxUpload+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		removeSpooled(f.Name())
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, s.maxUpload)
		}
		return "", fmt.Errorf("%w: upload interrupted", domain.ErrValidation)
	case n > s.maxUpload:
		removeSpooled(f.Name())
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, s.maxUpload)
	case n == 0:
		removeSpooled(f.Name())
		return "", fmt.Errorf("%w: %s is empty", domain.ErrValidation, uploadField)
	case closeErr != nil:
		removeSpooled(f.Name())
		return "", fmt.Errorf("%w: spool upload: %w", domain.ErrStorageUnavailable, closeErr)
	}
	return f.Name(), nil
}

// removeSpooled is a no-op once the content store has taken the file.
func removeSpooled(path string) { _ = os.Remove(path) }

package host

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/lehigh-university-libraries/oai-jats/record"
)

// Storage reads stored file bytes from an afero filesystem.
type Storage struct {
	fs    afero.Fs
	files map[int]*StoredFile
}

// NewStorage creates a file service over fs for the snapshot's files.
func NewStorage(fs afero.Fs, s *Snapshot) *Storage {
	return &Storage{
		fs:    fs,
		files: indexBy(s.Files, func(f *StoredFile) int { return f.ID }),
	}
}

var _ record.FileService = (*Storage)(nil)

func (st *Storage) path(fileID int) (string, error) {
	f, ok := st.files[fileID]
	if !ok {
		return "", fmt.Errorf("unknown file: %d", fileID)
	}
	return f.Path, nil
}

// ReadFile returns the contents of a stored file.
func (st *Storage) ReadFile(fileID int) ([]byte, error) {
	path, err := st.path(fileID)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(st.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading file %d: %w", fileID, err)
	}
	return data, nil
}

// MimeType returns the media type of a stored file without parameters.
// A type recorded in the snapshot wins; otherwise it is derived from the
// extension and finally sniffed from the content.
func (st *Storage) MimeType(fileID int) (string, error) {
	f, ok := st.files[fileID]
	if !ok {
		return "", fmt.Errorf("unknown file: %d", fileID)
	}
	if f.MimeType != "" {
		return f.MimeType, nil
	}

	if t := mime.TypeByExtension(filepath.Ext(f.Path)); t != "" {
		return mediaType(t), nil
	}

	file, err := st.fs.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("opening file %d: %w", fileID, err)
	}
	defer file.Close()

	peek := make([]byte, 512)
	n, err := file.Read(peek)
	if err != nil && n == 0 {
		return "", fmt.Errorf("reading file %d: %w", fileID, err)
	}
	return mediaType(http.DetectContentType(peek[:n])), nil
}

func mediaType(t string) string {
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return t
	}
	return mt
}

// Package relay moves locally staged uploads into a remote storage provider.
package relay

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// StagedFile is one uploaded file materialized on local disk.
// It must be removed before the request that created it completes.
type StagedFile struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Stage copies src into a new temporary file inside dir. The file name is
// chosen by os.CreateTemp, so concurrent requests never share a path.
// On any error the partial file is removed before returning.
func Stage(dir, name, contentType string, src io.Reader) (*StagedFile, error) {
	f, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	return &StagedFile{
		Path:        f.Name(),
		Name:        name,
		ContentType: contentType,
		Size:        n,
	}, nil
}

// Remove deletes the staged file. It is safe to call more than once.
func (s *StagedFile) Remove() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

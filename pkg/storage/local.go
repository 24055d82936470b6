package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultBufferSize is the copy buffer used when none is configured
const DefaultBufferSize = 64 * 1024

// FS is a Backend over an afero filesystem. Paths are used as given, there
// is no root directory.
type FS struct {
	fs         afero.Fs
	bufferSize int
}

// NewFS creates a backend over fsys
func NewFS(fsys afero.Fs) *FS {
	return &FS{fs: fsys, bufferSize: DefaultBufferSize}
}

// SetBufferSize sets the buffer used by Write. Values below 1 select the
// default.
func (f *FS) SetBufferSize(size int) {
	if size < 1 {
		size = DefaultBufferSize
	}
	f.bufferSize = size
}

// Fs returns the underlying filesystem
func (f *FS) Fs() afero.Fs {
	return f.fs
}

// Read opens a file for reading
func (f *FS) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := f.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Write creates or overwrites a file. A negative size skips the length check.
func (f *FS) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error {
	// Ensure parent directory exists
	if err := f.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := f.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	buf := make([]byte, f.bufferSize)
	written, err := io.CopyBuffer(onlyWriter{file}, onlyReader{reader}, buf)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if size >= 0 && written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}

	// Preserve metadata if provided
	if metadata != nil {
		if metadata.Permissions != 0 {
			if err := f.fs.Chmod(path, os.FileMode(metadata.Permissions)); err != nil {
				return fmt.Errorf("failed to set permissions: %w", err)
			}
		}

		if !metadata.ModTime.IsZero() {
			if err := f.fs.Chtimes(path, metadata.ModTime, metadata.ModTime); err != nil {
				return fmt.Errorf("failed to set modification time: %w", err)
			}
		}
	}

	return nil
}

// Remove deletes a single file
func (f *FS) Remove(ctx context.Context, path string) error {
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// Rename moves a file
func (f *FS) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := f.fs.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.fs.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// Exists checks if a file or directory exists
func (f *FS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := f.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns file metadata
func (f *FS) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}, nil
}

// MkdirAll creates a directory and all necessary parents
func (f *FS) MkdirAll(ctx context.Context, path string) error {
	if err := f.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Close releases resources (no-op for local filesystems)
func (f *FS) Close() error {
	return nil
}

// onlyReader and onlyWriter hide ReadFrom/WriteTo so CopyBuffer uses buf
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }

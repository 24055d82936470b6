package storage

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the file operations needed to maintain a stall
type Backend interface {
	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content, creating
	// parent directories. If metadata is provided, its modification time and
	// permissions are applied to the written file.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Remove deletes a single file
	Remove(ctx context.Context, path string) error

	// Rename moves a file, creating the destination's parent directories
	Rename(ctx context.Context, oldPath, newPath string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Fs exposes the underlying filesystem
	Fs() afero.Fs

	// Close releases any resources held by the backend
	Close() error
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/ratelimit"
)

// Copier physically copies one file over another. Implementations preserve
// the source modification time on the destination.
type Copier interface {
	// Copy copies source to dest and returns the number of bytes written.
	// Failures are returned as *models.CopyError.
	Copy(ctx context.Context, source, dest string) (int64, error)
}

// ProgressFunc wraps the reader of a copy in progress. The returned function
// is called once the copy finishes.
type ProgressFunc func(r io.Reader, size int64, name string) (io.Reader, func())

// BufferedCopier copies files in process through a Backend
type BufferedCopier struct {
	backend  Backend
	limiter  *ratelimit.Limiter
	progress ProgressFunc
}

// NewBufferedCopier creates an in-process copier
func NewBufferedCopier(backend Backend) *BufferedCopier {
	return &BufferedCopier{backend: backend}
}

// SetLimiter limits the copy bandwidth. nil removes the limit.
func (c *BufferedCopier) SetLimiter(limiter *ratelimit.Limiter) {
	c.limiter = limiter
}

// SetProgress installs a progress wrapper. nil removes it.
func (c *BufferedCopier) SetProgress(progress ProgressFunc) {
	c.progress = progress
}

// Copy implements Copier
func (c *BufferedCopier) Copy(ctx context.Context, source, dest string) (int64, error) {
	info, err := c.backend.Stat(ctx, source)
	if err != nil {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}
	if info.IsDir {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: fmt.Errorf("source is a directory")}
	}

	rc, err := c.backend.Read(ctx, source)
	if err != nil {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}
	defer rc.Close()

	var reader io.Reader = ratelimit.NewReadCloser(ctx, rc, c.limiter)
	if c.progress != nil {
		wrapped, done := c.progress(reader, info.Size, filepath.Base(source))
		defer done()
		reader = wrapped
	}

	if err := c.backend.Write(ctx, dest, reader, info.Size, info); err != nil {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}

	return info.Size, nil
}

// CommandCopier copies files with the platform copy utility. It always
// operates on the operating system filesystem.
type CommandCopier struct {
	name string
	args []string
}

// NewCommandCopier creates a copier invoking "cp -p" on Unix systems and
// "copy /Y" on Windows
func NewCommandCopier() *CommandCopier {
	if runtime.GOOS == "windows" {
		return &CommandCopier{name: "cmd", args: []string{"/C", "copy", "/Y"}}
	}
	return &CommandCopier{name: "cp", args: []string{"-p"}}
}

// Copy implements Copier
func (c *CommandCopier) Copy(ctx context.Context, source, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}

	args := append(append([]string{}, c.args...), source, dest)
	cmd := exec.CommandContext(ctx, c.name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return 0, &models.CopyError{Source: source, Dest: dest, Err: err}
	}
	return info.Size(), nil
}

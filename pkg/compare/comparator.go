package compare

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/afero"
)

// Snapshot captures whether a file was found and, if so, its metadata
type Snapshot struct {
	Path    string
	Found   bool
	ModTime time.Time
	Size    int64
}

// HasModTime returns true if the snapshot carries a usable timestamp
func (s Snapshot) HasModTime() bool {
	return s.Found && !s.ModTime.IsZero()
}

// Observation is a snapshot or the error that prevented taking it
type Observation struct {
	Snapshot
	Err error
}

// Comparator reads file metadata and orders modification times
type Comparator struct {
	fs afero.Fs

	// Tolerance is the largest timestamp difference still considered equal
	Tolerance time.Duration
}

// NewComparator creates a comparator reading metadata from fsys
func NewComparator(fsys afero.Fs) *Comparator {
	return &Comparator{fs: fsys}
}

// Snapshot stats path. A missing file is not an error: the returned snapshot
// has Found set to false. Failures on a path that may exist, and paths that
// are directories, return a *models.ComparatorError.
func (c *Comparator) Snapshot(path string) (Snapshot, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		// a regular file where a parent directory should be means the path is absent
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return Snapshot{Path: path}, nil
		}
		return Snapshot{Path: path}, &models.ComparatorError{Path: path, Err: err}
	}

	if info.IsDir() {
		return Snapshot{Path: path}, &models.ComparatorError{
			Path: path,
			Err:  fmt.Errorf("is a directory"),
		}
	}

	return Snapshot{
		Path:    path,
		Found:   true,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}

// Observe takes a snapshot and keeps any error alongside it
func (c *Comparator) Observe(path string) Observation {
	snap, err := c.Snapshot(path)
	return Observation{Snapshot: snap, Err: err}
}

// ComparePair orders the local modification time against the remote one:
// -1 if local is older, 0 if equal, +1 if local is newer. reverse negates the
// result. The boolean is false when either timestamp is unavailable.
func (c *Comparator) ComparePair(local, remote Snapshot, reverse bool) (int, bool) {
	if !local.HasModTime() || !remote.HasModTime() {
		return 0, false
	}

	diff := local.ModTime.Sub(remote.ModTime)
	var order int
	switch {
	case c.within(diff):
		order = 0
	case diff < 0:
		order = -1
	default:
		order = 1
	}

	if reverse {
		order = -order
	}
	return order, true
}

func (c *Comparator) within(diff time.Duration) bool {
	if diff < 0 {
		diff = -diff
	}
	return diff <= c.Tolerance
}

package stall

import (
	"iter"
	"maps"
	"slices"

	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/models"
)

// Index is a one-to-one mapping between local and remote paths.
// Both maps are updated together in every mutating call.
type Index struct {
	byLocal  map[string]string
	byRemote map[string]string
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		byLocal:  make(map[string]string),
		byRemote: make(map[string]string),
	}
}

// Insert maps local to remote. Any entry already using either path is
// removed first and returned as overwritten.
func (ix *Index) Insert(local, remote string) ([]models.Entry, error) {
	if _, err := platform.FileName(local); err != nil {
		return nil, err
	}
	if _, err := platform.FileName(remote); err != nil {
		return nil, err
	}

	local = platform.NormalizePath(local)
	remote = platform.NormalizePath(remote)

	var overwritten []models.Entry
	if old, ok := ix.RemoveByLocal(local); ok && old.Remote != remote {
		overwritten = append(overwritten, old)
	}
	if old, ok := ix.RemoveByRemote(remote); ok {
		overwritten = append(overwritten, old)
	}

	ix.byLocal[local] = remote
	ix.byRemote[remote] = local

	return overwritten, nil
}

// GetByLocal returns the remote path mapped to a local path
func (ix *Index) GetByLocal(local string) (string, bool) {
	remote, ok := ix.byLocal[platform.NormalizePath(local)]
	return remote, ok
}

// GetByRemote returns the local path mapped to a remote path
func (ix *Index) GetByRemote(remote string) (string, bool) {
	local, ok := ix.byRemote[platform.NormalizePath(remote)]
	return local, ok
}

// RemoveByLocal deletes the entry with the given local path
func (ix *Index) RemoveByLocal(local string) (models.Entry, bool) {
	local = platform.NormalizePath(local)
	remote, ok := ix.byLocal[local]
	if !ok {
		return models.Entry{}, false
	}
	delete(ix.byLocal, local)
	delete(ix.byRemote, remote)
	return models.Entry{Local: local, Remote: remote}, true
}

// RemoveByRemote deletes the entry with the given remote path
func (ix *Index) RemoveByRemote(remote string) (models.Entry, bool) {
	remote = platform.NormalizePath(remote)
	local, ok := ix.byRemote[remote]
	if !ok {
		return models.Entry{}, false
	}
	delete(ix.byRemote, remote)
	delete(ix.byLocal, local)
	return models.Entry{Local: local, Remote: remote}, true
}

// All iterates over the entries ordered by local path. The sequence can be
// ranged over more than once.
func (ix *Index) All() iter.Seq[models.Entry] {
	return func(yield func(models.Entry) bool) {
		for _, local := range slices.Sorted(maps.Keys(ix.byLocal)) {
			remote, ok := ix.byLocal[local]
			if !ok {
				continue
			}
			if !yield(models.Entry{Local: local, Remote: remote}) {
				return
			}
		}
	}
}

// Len returns the number of entries
func (ix *Index) Len() int {
	return len(ix.byLocal)
}

// IsEmpty returns true if there are no entries
func (ix *Index) IsEmpty() bool {
	return len(ix.byLocal) == 0
}

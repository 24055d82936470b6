package stall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/afero"
)

// DefaultFileName is the store file name inside a stall directory
const DefaultFileName = ".stall"

// ErrStoreExists is returned when creating a store over an existing file
var ErrStoreExists = errors.New("stall file already exists")

// Store owns the stall entries and their persistence metadata.
// Entries are only mutated through Store methods.
type Store struct {
	index    *Index
	loadPath string
	modified bool
	format   Format
	logger   logging.Logger
}

// New creates an empty store
func New() *Store {
	return &Store{
		index:  NewIndex(),
		format: FormatStructured,
		logger: logging.Discard(),
	}
}

// SetLogger sets the logger used to report overwritten entries
func (s *Store) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = logging.Discard()
	}
	s.logger = logger
}

// Entries iterates over all entries
func (s *Store) Entries() iter.Seq[models.Entry] {
	return s.index.All()
}

// IsEmpty returns true if there are no entries
func (s *Store) IsEmpty() bool {
	return s.index.IsEmpty()
}

// Len returns the number of entries
func (s *Store) Len() int {
	return s.index.Len()
}

// EntryLocal looks up an entry by its local path
func (s *Store) EntryLocal(local string) (models.Entry, bool) {
	remote, ok := s.index.GetByLocal(local)
	if !ok {
		return models.Entry{}, false
	}
	local, _ = s.index.GetByRemote(remote)
	return models.Entry{Local: local, Remote: remote}, true
}

// EntryRemote looks up an entry by its remote path
func (s *Store) EntryRemote(remote string) (models.Entry, bool) {
	local, ok := s.index.GetByRemote(remote)
	if !ok {
		return models.Entry{}, false
	}
	remote, _ = s.index.GetByLocal(local)
	return models.Entry{Local: local, Remote: remote}, true
}

// Insert adds an entry, replacing any entry that shares either path
func (s *Store) Insert(local, remote string) error {
	overwritten, err := s.index.Insert(local, remote)
	if err != nil {
		return err
	}
	for _, old := range overwritten {
		s.logger.Info(context.Background(), "Overwriting stall entry", logging.Fields{
			"local":  old.Local,
			"remote": old.Remote,
		})
	}
	s.modified = true
	return nil
}

// RemoveLocal removes the entry with the given local path
func (s *Store) RemoveLocal(local string) (models.Entry, bool) {
	entry, ok := s.index.RemoveByLocal(local)
	if ok {
		s.modified = true
	}
	return entry, ok
}

// RemoveRemote removes the entry with the given remote path
func (s *Store) RemoveRemote(remote string) (models.Entry, bool) {
	entry, ok := s.index.RemoveByRemote(remote)
	if ok {
		s.modified = true
	}
	return entry, ok
}

// Modified returns true if the store changed since it was loaded or saved
func (s *Store) Modified() bool {
	return s.modified
}

// SetModified sets the modification flag
func (s *Store) SetModified(modified bool) {
	s.modified = modified
}

// LoadPath returns the path the store was read from, or "" for a fresh store
func (s *Store) LoadPath() string {
	return s.loadPath
}

// SetLoadPath sets the store's load path
func (s *Store) SetLoadPath(path string) {
	s.loadPath = path
}

// Format returns the encoding the store was read from
func (s *Store) Format() Format {
	return s.format
}

// Read parses a store from r, detecting its encoding
func Read(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stall file: %w", err)
	}

	index, format, err := decode(data)
	if err != nil {
		return nil, err
	}

	s := New()
	s.index = index
	s.format = format
	return s, nil
}

// Write serializes the store into w using the structured encoding
func (s *Store) Write(w io.Writer) error {
	return encode(w, s.index)
}

// ReadFromPath loads a store file and records its load path
func ReadFromPath(fsys afero.Fs, path string) (*Store, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stall file for reading: %w", err)
	}
	defer file.Close()

	s, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	s.SetLoadPath(path)
	return s, nil
}

// WriteToPath writes the store to path, replacing it atomically
func (s *Store) WriteToPath(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create stall directory: %w", err)
	}

	// Write atomically using temp file
	tmpPath := path + ".tmp"
	file, err := fsys.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create stall file: %w", err)
	}
	if err := s.Write(file); err != nil {
		file.Close()
		fsys.Remove(tmpPath)
		return fmt.Errorf("failed to write stall file: %w", err)
	}
	if err := file.Close(); err != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("failed to write stall file: %w", err)
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath) // Clean up temp file
		return fmt.Errorf("failed to finalize stall file: %w", err)
	}

	s.modified = false
	return nil
}

// WriteToPathIfNew writes the store to a file that must not exist yet
func (s *Store) WriteToPathIfNew(fsys afero.Fs, path string) error {
	file, err := fsys.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrStoreExists, path)
		}
		return fmt.Errorf("failed to create stall file: %w", err)
	}
	defer file.Close()

	if err := s.Write(file); err != nil {
		return fmt.Errorf("failed to write stall file: %w", err)
	}

	s.modified = false
	return nil
}

// WriteToLoadPath writes the store back to the file it was loaded from.
// Returns false if the store has no load path.
func (s *Store) WriteToLoadPath(fsys afero.Fs) (bool, error) {
	if s.loadPath == "" {
		return false, nil
	}
	if err := s.WriteToPath(fsys, s.loadPath); err != nil {
		return false, err
	}
	return true, nil
}

// WriteToLoadPathIfNew creates the file at the load path. Returns false if the
// store has no load path.
func (s *Store) WriteToLoadPathIfNew(fsys afero.Fs) (bool, error) {
	if s.loadPath == "" {
		return false, nil
	}
	if err := s.WriteToPathIfNew(fsys, s.loadPath); err != nil {
		return false, err
	}
	return true, nil
}

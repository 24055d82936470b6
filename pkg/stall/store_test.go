package stall

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/afero"
)

// recordingLogger captures Info messages
type recordingLogger struct {
	logging.Logger
	infos []logging.Fields
}

func (r *recordingLogger) Info(_ context.Context, _ string, fields logging.Fields) {
	r.infos = append(r.infos, fields)
}

func TestStore_ModifiedFlag(t *testing.T) {
	s := New()
	if s.Modified() {
		t.Error("new store should not be modified")
	}

	if err := s.Insert("a.txt", "/r/a.txt"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !s.Modified() {
		t.Error("Insert should set modified")
	}

	s.SetModified(false)
	if _, ok := s.RemoveLocal("missing.txt"); ok {
		t.Error("RemoveLocal of unknown path should report not found")
	}
	if s.Modified() {
		t.Error("removing nothing should not set modified")
	}

	if _, ok := s.RemoveRemote("/r/a.txt"); !ok {
		t.Error("RemoveRemote should find the entry")
	}
	if !s.Modified() {
		t.Error("RemoveRemote should set modified")
	}
}

func TestStore_InsertLogsOverwrites(t *testing.T) {
	logger := &recordingLogger{Logger: logging.Discard()}
	s := New()
	s.SetLogger(logger)

	s.Insert("a.txt", "/r/a.txt")
	s.Insert("a.txt", "/r/new.txt")

	if len(logger.infos) != 1 {
		t.Fatalf("logged %d overwrites, want 1", len(logger.infos))
	}
	if logger.infos[0]["remote"] != "/r/a.txt" {
		t.Errorf("logged remote = %v, want /r/a.txt", logger.infos[0]["remote"])
	}
}

func TestStore_Lookup(t *testing.T) {
	s := New()
	s.Insert("a.txt", "/r/a.txt")

	entry, ok := s.EntryLocal("a.txt")
	if !ok || entry.Remote != "/r/a.txt" {
		t.Errorf("EntryLocal() = %v, %v", entry, ok)
	}
	entry, ok = s.EntryRemote("/r/a.txt")
	if !ok || entry.Local != "a.txt" {
		t.Errorf("EntryRemote() = %v, %v", entry, ok)
	}
	if _, ok := s.EntryLocal("b.txt"); ok {
		t.Error("EntryLocal(b.txt) should not be found")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := New()
	s.Insert("a.txt", "/r/a.txt")
	s.Insert("b.txt", "/other/b.txt")

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "version: 1") {
		t.Errorf("output missing version:\n%s", buf.String())
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if loaded.Format() != FormatStructured {
		t.Errorf("Format() = %s, want structured", loaded.Format())
	}
	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, want 2", loaded.Len())
	}
	if loaded.Modified() {
		t.Error("freshly read store should not be modified")
	}
	if entry, ok := loaded.EntryLocal("b.txt"); !ok || entry.Remote != "/other/b.txt" {
		t.Errorf("EntryLocal(b.txt) = %v, %v", entry, ok)
	}
}

func TestRead_Formats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		entries []models.Entry
		wantErr bool
	}{
		{
			name:   "Empty",
			input:  "",
			format: FormatStructured,
		},
		{
			name: "Structured",
			input: `version: 1
entries:
  - local: a.txt
    remote: /r/a.txt
`,
			format:  FormatStructured,
			entries: []models.Entry{{Local: "a.txt", Remote: "/r/a.txt"}},
		},
		{
			name:   "List",
			input:  "# dotfiles\n/home/u/.bashrc\n\n// editor\n/home/u/.vimrc\n",
			format: FormatList,
			entries: []models.Entry{
				{Local: ".bashrc", Remote: "/home/u/.bashrc"},
				{Local: ".vimrc", Remote: "/home/u/.vimrc"},
			},
		},
		{
			name:   "SingleLineList",
			input:  "/etc/hosts\n",
			format: FormatList,
			entries: []models.Entry{
				{Local: "hosts", Remote: "/etc/hosts"},
			},
		},
		{
			name:    "ListWithInvalidPath",
			input:   "/etc/hosts\n/\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Read(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Read() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if s.Format() != tt.format {
				t.Errorf("Format() = %s, want %s", s.Format(), tt.format)
			}

			var got []models.Entry
			for entry := range s.Entries() {
				got = append(got, entry)
			}
			if len(got) != len(tt.entries) {
				t.Fatalf("entries = %v, want %v", got, tt.entries)
			}
			for i := range got {
				if got[i] != tt.entries[i] {
					t.Errorf("entry %d = %v, want %v", i, got[i], tt.entries[i])
				}
			}
		})
	}
}

func TestStore_WriteToPath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := filepath.Join("/stall", DefaultFileName)

	s := New()
	s.Insert("a.txt", "/r/a.txt")
	s.SetLoadPath(path)

	written, err := s.WriteToLoadPath(fsys)
	if err != nil || !written {
		t.Fatalf("WriteToLoadPath() = %v, %v", written, err)
	}
	if s.Modified() {
		t.Error("save should clear modified")
	}
	if exists, _ := afero.Exists(fsys, path+".tmp"); exists {
		t.Error("temp file should not remain")
	}

	loaded, err := ReadFromPath(fsys, path)
	if err != nil {
		t.Fatalf("ReadFromPath() error = %v", err)
	}
	if loaded.LoadPath() != path {
		t.Errorf("LoadPath() = %s, want %s", loaded.LoadPath(), path)
	}
	if loaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1", loaded.Len())
	}
}

func TestStore_WriteToLoadPathWithoutPath(t *testing.T) {
	s := New()
	written, err := s.WriteToLoadPath(afero.NewMemMapFs())
	if err != nil || written {
		t.Errorf("WriteToLoadPath() = %v, %v; want false, nil", written, err)
	}
}

func TestStore_WriteToPathIfNew(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := "/stall/.stall"
	fsys.MkdirAll("/stall", 0755)

	s := New()
	s.SetLoadPath(path)
	if written, err := s.WriteToLoadPathIfNew(fsys); err != nil || !written {
		t.Fatalf("first WriteToLoadPathIfNew() = %v, %v", written, err)
	}

	_, err := s.WriteToLoadPathIfNew(fsys)
	if !errors.Is(err, ErrStoreExists) {
		t.Errorf("second WriteToLoadPathIfNew() error = %v, want ErrStoreExists", err)
	}
}

func TestReadFromPath_Missing(t *testing.T) {
	_, err := ReadFromPath(afero.NewMemMapFs(), "/nowhere/.stall")
	if err == nil {
		t.Error("ReadFromPath() should fail for a missing file")
	}
}

package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestDirectionEndpoints(t *testing.T) {
	tests := []struct {
		direction Direction
		source    string
		dest      string
	}{
		{DirectionCollect, "/r/a.txt", "/stall/a.txt"},
		{DirectionDistribute, "/stall/a.txt", "/r/a.txt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			source, dest := tt.direction.Endpoints("/stall/a.txt", "/r/a.txt")
			if source != tt.source || dest != tt.dest {
				t.Errorf("Endpoints() = (%s, %s), want (%s, %s)", source, dest, tt.source, tt.dest)
			}
		})
	}
}

func TestStatusPairHasError(t *testing.T) {
	tests := []struct {
		pair StatusPair
		want bool
	}{
		{StatusPair{StatusError, StatusError}, true},
		{StatusPair{StatusError, StatusAbsent}, true},
		{StatusPair{StatusExists, StatusError}, true},
		{StatusPair{StatusSame, StatusSame}, false},
		{StatusPair{StatusAbsent, StatusAbsent}, false},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s-%s", tt.pair.Local, tt.pair.Remote)
		t.Run(name, func(t *testing.T) {
			if got := tt.pair.HasError(); got != tt.want {
				t.Errorf("HasError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatisticsRecord(t *testing.T) {
	var stats Statistics

	stats.Record(EntryResult{Action: ActionCopy, Copied: true, BytesCopied: 10})
	stats.Record(EntryResult{Action: ActionForce, Copied: true, BytesCopied: 5})
	stats.Record(EntryResult{Action: ActionCopy})
	stats.Record(EntryResult{Action: ActionSkip})
	stats.Record(EntryResult{Action: ActionStop, Error: "permission denied"})
	stats.Record(EntryResult{Action: ActionCopy, Error: "disk full"})

	if stats.EntriesEvaluated != 6 {
		t.Errorf("EntriesEvaluated = %d, want 6", stats.EntriesEvaluated)
	}
	if stats.FilesCopied != 2 {
		t.Errorf("FilesCopied = %d, want 2", stats.FilesCopied)
	}
	if stats.FilesForced != 1 {
		t.Errorf("FilesForced = %d, want 1", stats.FilesForced)
	}
	if stats.FilesPlanned != 1 {
		t.Errorf("FilesPlanned = %d, want 1", stats.FilesPlanned)
	}
	if stats.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", stats.FilesSkipped)
	}
	if stats.FilesStopped != 1 {
		t.Errorf("FilesStopped = %d, want 1", stats.FilesStopped)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", stats.FilesErrored)
	}
	if stats.BytesCopied != 15 {
		t.Errorf("BytesCopied = %d, want 15", stats.BytesCopied)
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"InvalidEntryPath", &InvalidEntryPathError{Path: "/"}, ErrInvalidEntryPath},
		{"UnknownEntry", &UnknownEntryError{Path: "x.txt"}, ErrUnknownEntry},
		{"Comparator", &ComparatorError{Path: "/r/a", Err: cause}, ErrComparator},
		{"MissingOrUnreadable", &MissingOrUnreadableFileError{Entry: Entry{Local: "a"}}, ErrMissingOrUnreadableFile},
		{"Copy", &CopyError{Source: "/r/a", Dest: "/s/a", Err: cause}, ErrCopy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("collect: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
		})
	}

	t.Run("CauseIsReachable", func(t *testing.T) {
		err := &CopyError{Source: "a", Dest: "b", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("CopyError should unwrap to its cause")
		}
	})
}

func TestSyncOperationValidate(t *testing.T) {
	t.Run("ValidOperation", func(t *testing.T) {
		op := &SyncOperation{StallDir: "/stall", Direction: DirectionCollect}
		if err := op.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("EmptyStallDir", func(t *testing.T) {
		op := &SyncOperation{Direction: DirectionDistribute}
		err := op.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "StallDir" {
			t.Errorf("Validate() error = %v, want StallDir validation error", err)
		}
	})

	t.Run("UnknownDirection", func(t *testing.T) {
		op := &SyncOperation{StallDir: "/stall", Direction: "sideways"}
		if err := op.Validate(); err == nil {
			t.Error("Validate() should fail for unknown direction")
		}
	})
}

func TestSyncStatusExitCode(t *testing.T) {
	tests := []struct {
		status SyncStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusWarning, 0},
		{StatusFailed, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

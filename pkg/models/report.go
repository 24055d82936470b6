package models

import (
	"time"
)

// SyncReport represents the results of a collect or distribute run
type SyncReport struct {
	// Operation details
	OperationID string
	StallDir    string
	Direction   Direction
	DryRun      bool
	Force       bool

	// Empty is set when the stall had no entries and nothing was done
	Empty bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stats Statistics

	// Results lists every evaluated entry in processing order
	Results []EntryResult

	// Error is the message of the error that aborted the run, if any
	Error string

	Status SyncStatus
}

// Statistics holds run counters
type Statistics struct {
	EntriesEvaluated int
	FilesCopied      int // Includes forced copies
	FilesForced      int
	FilesSkipped     int
	FilesStopped     int
	FilesPlanned     int // Copies reported but not executed (dry run)
	FilesErrored     int
	BytesCopied      int64
}

// EntryResult records what happened to one entry
type EntryResult struct {
	Entry  Entry      `json:"entry"`
	Status StatusPair `json:"status"`
	Action Action     `json:"action,omitempty"`

	// Copied is false for dry runs and for non-copying actions
	Copied      bool   `json:"copied"`
	BytesCopied int64  `json:"bytes_copied,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Record updates the counters for a finished entry
func (s *Statistics) Record(result EntryResult) {
	s.EntriesEvaluated++
	if result.Action.Copies() && result.Error != "" {
		s.FilesErrored++
		return
	}
	switch result.Action {
	case ActionCopy, ActionForce:
		if result.Action == ActionForce {
			s.FilesForced++
		}
		if result.Copied {
			s.FilesCopied++
			s.BytesCopied += result.BytesCopied
		} else {
			s.FilesPlanned++
		}
	case ActionSkip:
		s.FilesSkipped++
	case ActionStop:
		s.FilesStopped++
	}
}

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusSuccess indicates every entry was handled
	StatusSuccess SyncStatus = "success"
	// StatusWarning indicates some entries were stopped but the run completed
	StatusWarning SyncStatus = "warning"
	// StatusFailed indicates the run was aborted
	StatusFailed SyncStatus = "failed"
)

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess, StatusWarning:
		return 0
	case StatusFailed:
		return 1
	default:
		return 1
	}
}

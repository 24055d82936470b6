package models

import (
	"time"
)

// CopyMethod defines how file contents are physically copied
type CopyMethod string

const (
	// CopyInternal copies through an in-process buffer
	CopyInternal CopyMethod = "internal"
	// CopySubprocess shells out to the platform copy utility
	CopySubprocess CopyMethod = "subprocess"
)

// SyncOperation represents one collect or distribute invocation
type SyncOperation struct {
	ID        string
	Direction Direction
	StallDir  string

	// Selectors restrict the run to matching local paths; empty means all
	Selectors []string

	Force           bool
	DryRun          bool
	PromoteWarnings bool // Treat stops as errors and abort the run
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *SyncOperation) Validate() error {
	if op.StallDir == "" {
		return &ValidationError{Field: "StallDir", Message: "stall directory is required"}
	}
	switch op.Direction {
	case DirectionCollect, DirectionDistribute:
	default:
		return &ValidationError{Field: "Direction", Message: "direction must be collect or distribute"}
	}
	return nil
}

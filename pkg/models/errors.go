package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntryPath is matched by errors for paths without a file name
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrUnknownEntry is matched by errors for selectors that match no entry
	ErrUnknownEntry = errors.New("unrecognized stall entry")
	// ErrComparator is matched by metadata read failures
	ErrComparator = errors.New("unreadable file metadata")
	// ErrMissingOrUnreadableFile is matched by promoted stop errors
	ErrMissingOrUnreadableFile = errors.New("missing or unreadable file")
	// ErrCopy is matched by failed physical copies
	ErrCopy = errors.New("copy failed")
)

// InvalidEntryPathError reports a path with no file-name component
type InvalidEntryPathError struct {
	Path string
}

func (e *InvalidEntryPathError) Error() string {
	return fmt.Sprintf("%s: %q has no file name", ErrInvalidEntryPath, e.Path)
}

func (e *InvalidEntryPathError) Is(target error) bool {
	return target == ErrInvalidEntryPath
}

// UnknownEntryError reports a selector that did not resolve to any entry
type UnknownEntryError struct {
	Path string
}

func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownEntry, e.Path)
}

func (e *UnknownEntryError) Is(target error) bool {
	return target == ErrUnknownEntry
}

// ComparatorError reports a stat failure on a path that may exist
type ComparatorError struct {
	Path string
	Err  error
}

func (e *ComparatorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrComparator, e.Path, e.Err)
}

func (e *ComparatorError) Unwrap() error {
	return e.Err
}

func (e *ComparatorError) Is(target error) bool {
	return target == ErrComparator
}

// MissingOrUnreadableFileError is raised when a stop is promoted to an error
type MissingOrUnreadableFileError struct {
	Entry  Entry
	Status StatusPair
	Err    error
}

func (e *MissingOrUnreadableFileError) Error() string {
	msg := fmt.Sprintf("%s: %s (local %s, remote %s)",
		ErrMissingOrUnreadableFile, e.Entry.Local, e.Status.Local, e.Status.Remote)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingOrUnreadableFileError) Unwrap() error {
	return e.Err
}

func (e *MissingOrUnreadableFileError) Is(target error) bool {
	return target == ErrMissingOrUnreadableFile
}

// CopyError wraps a failure of the copy collaborator
type CopyError struct {
	Source string
	Dest   string
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("%s: %s -> %s: %v", ErrCopy, e.Source, e.Dest, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

func (e *CopyError) Is(target error) bool {
	return target == ErrCopy
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

package sync

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/sdejongh/stall/pkg/compare"
	"github.com/sdejongh/stall/pkg/logging"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/output"
	"github.com/sdejongh/stall/pkg/stall"
	"github.com/sdejongh/stall/pkg/storage"
)

// Engine drives stall entries through comparison, action selection and copy.
// Entries are processed one at a time in the order Select returns them.
type Engine struct {
	comparator *compare.Comparator
	copier     storage.Copier
	formatter  output.Formatter
	logger     logging.Logger
	clock      clockwork.Clock
}

// NewEngine creates a new sync engine
func NewEngine(
	comparator *compare.Comparator,
	copier storage.Copier,
	formatter output.Formatter,
	logger logging.Logger,
	clock clockwork.Clock,
) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		comparator: comparator,
		copier:     copier,
		formatter:  formatter,
		logger:     logger,
		clock:      clock,
	}
}

// Run executes a collect or distribute operation over the store.
// An empty store yields an Empty report without touching the filesystem.
// When the run aborts, the partial report is returned along with the error.
func (e *Engine) Run(ctx context.Context, store *stall.Store, op *models.SyncOperation) (*models.SyncReport, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	report := &models.SyncReport{
		OperationID: op.ID,
		StallDir:    op.StallDir,
		Direction:   op.Direction,
		DryRun:      op.DryRun,
		Force:       op.Force,
		StartTime:   e.clock.Now(),
		Status:      models.StatusSuccess,
	}

	logger := e.logger.WithFields(logging.Fields{
		"operation_id": op.ID,
		"direction":    string(op.Direction),
	})

	if store.IsEmpty() {
		report.Empty = true
		logger.Debug(ctx, "No files in stall", nil)
		return report, e.complete(report)
	}

	entries, err := Select(store, op.Selectors)
	if err != nil {
		return report, e.abort(ctx, logger, report, err)
	}

	logger.Debug(ctx, "Starting stall operation", logging.Fields{
		"stall":   op.StallDir,
		"entries": len(entries),
		"force":   op.Force,
		"dry_run": op.DryRun,
	})
	if err := e.formatter.Start(op, len(entries)); err != nil {
		return report, e.abort(ctx, logger, report, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, e.abort(ctx, logger, report, err)
		}

		result, err := e.process(ctx, logger, op, entry)
		report.Results = append(report.Results, result)
		report.Stats.Record(result)
		if err != nil {
			return report, e.abort(ctx, logger, report, err)
		}
	}

	if report.Stats.FilesStopped > 0 {
		report.Status = models.StatusWarning
	}

	logger.Debug(ctx, "Stall operation completed", logging.Fields{
		"copied":  report.Stats.FilesCopied,
		"skipped": report.Stats.FilesSkipped,
		"stopped": report.Stats.FilesStopped,
		"bytes":   report.Stats.BytesCopied,
	})
	return report, e.complete(report)
}

// Inspect computes the statuses of the selected entries without deciding or
// performing any action
func (e *Engine) Inspect(ctx context.Context, store *stall.Store, stallDir string, selectors []string) ([]models.EntryResult, error) {
	entries, err := Select(store, selectors)
	if err != nil {
		return nil, err
	}

	results := make([]models.EntryResult, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		pair, local, remote := e.comparator.Status(filepath.Join(stallDir, entry.Local), entry.Remote)
		result := models.EntryResult{Entry: entry, Status: pair}
		if cause := errors.Join(local.Err, remote.Err); cause != nil {
			result.Error = cause.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

// process evaluates one entry and performs its action
func (e *Engine) process(ctx context.Context, logger logging.Logger, op *models.SyncOperation, entry models.Entry) (models.EntryResult, error) {
	localPath := filepath.Join(op.StallDir, entry.Local)
	pair, local, remote := e.comparator.Status(localPath, entry.Remote)
	action := DecideAction(op.Direction, pair, op.Force)

	e.formatter.OnEntryEvaluated(entry, pair, action)

	fields := logging.Fields{
		"local":         entry.Local,
		"remote":        entry.Remote,
		"local_status":  string(pair.Local),
		"remote_status": string(pair.Remote),
		"action":        string(action),
	}
	logger.Debug(ctx, "Entry evaluated", fields)

	result := models.EntryResult{Entry: entry, Status: pair, Action: action}

	switch action {
	case models.ActionCopy, models.ActionForce:
		if op.DryRun {
			return result, nil
		}

		source, dest := op.Direction.Endpoints(localPath, entry.Remote)
		n, err := e.copier.Copy(ctx, source, dest)
		if err != nil {
			var copyErr *models.CopyError
			if !errors.As(err, &copyErr) {
				err = &models.CopyError{Source: source, Dest: dest, Err: err}
			}
			result.Error = err.Error()
			logger.Error(ctx, "Copy failed", err, fields)
			return result, err
		}
		result.Copied = true
		result.BytesCopied = n

	case models.ActionStop:
		stopErr := &models.MissingOrUnreadableFileError{
			Entry:  entry,
			Status: pair,
			Err:    errors.Join(local.Err, remote.Err),
		}
		result.Error = stopErr.Error()
		logger.Warn(ctx, "Entry is missing or unreadable", fields)
		if op.PromoteWarnings {
			return result, stopErr
		}
	}

	return result, nil
}

// abort marks the report failed and completes it
func (e *Engine) abort(ctx context.Context, logger logging.Logger, report *models.SyncReport, err error) error {
	report.Status = models.StatusFailed
	report.Error = err.Error()
	logger.Error(ctx, "Stall operation aborted", err, logging.Fields{
		"evaluated": report.Stats.EntriesEvaluated,
	})
	e.complete(report)
	return err
}

// complete stamps the end time and hands the report to the formatter
func (e *Engine) complete(report *models.SyncReport) error {
	report.EndTime = e.clock.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	if err := e.formatter.Complete(report); err != nil {
		return err
	}
	return nil
}

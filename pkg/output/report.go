package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/spf13/afero"
)

// WriteReport writes the run report to a file
// Format can be "human" or "json"
func WriteReport(fsys afero.Fs, report *models.SyncReport, path string, format string) error {
	file, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	default: // "human"
		err = writeReportHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeReportHuman writes the report in human-readable format
func writeReportHuman(report *models.SyncReport, w io.Writer) error {
	fmt.Fprintf(w, "Stall Report\n")
	fmt.Fprintf(w, "============\n\n")
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Started: %s\n", report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Stall: %s\n", report.StallDir)
	fmt.Fprintf(w, "Direction: %s\n", report.Direction)
	fmt.Fprintf(w, "Dry Run: %v\n", report.DryRun)
	fmt.Fprintf(w, "Force: %v\n", report.Force)
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	if report.Empty {
		fmt.Fprintf(w, "%s\n", EmptyStallMessage)
		return nil
	}

	s := report.Stats
	fmt.Fprintf(w, "Entries evaluated: %d\n", s.EntriesEvaluated)
	fmt.Fprintf(w, "Files copied:      %d (%d forced)\n", s.FilesCopied, s.FilesForced)
	fmt.Fprintf(w, "Files planned:     %d\n", s.FilesPlanned)
	fmt.Fprintf(w, "Files skipped:     %d\n", s.FilesSkipped)
	fmt.Fprintf(w, "Files stopped:     %d\n", s.FilesStopped)
	fmt.Fprintf(w, "Files failed:      %d\n", s.FilesErrored)
	fmt.Fprintf(w, "Data:              %s\n\n", humanize.Bytes(uint64(s.BytesCopied)))

	for _, r := range report.Results {
		fmt.Fprintf(w, "  %-7s%-7s%-7s%s -> %s\n", r.Status.Local, r.Status.Remote, r.Action, r.Entry.Local, r.Entry.Remote)
		if r.Error != "" {
			fmt.Fprintf(w, "    Error: %s\n", r.Error)
		}
	}

	if report.Error != "" {
		fmt.Fprintf(w, "\nAborted: %s\n", report.Error)
	}
	return nil
}

// writeReportJSON writes the report in JSON format
func writeReportJSON(report *models.SyncReport, w io.Writer) error {
	output := struct {
		OperationID string               `json:"operation_id"`
		StallDir    string               `json:"stall_dir"`
		Direction   string               `json:"direction"`
		DryRun      bool                 `json:"dry_run"`
		Force       bool                 `json:"force"`
		Started     string               `json:"started"`
		DurationMs  int64                `json:"duration_ms"`
		Status      string               `json:"status"`
		Empty       bool                 `json:"empty"`
		Stats       JSONStatsData        `json:"stats"`
		Results     []models.EntryResult `json:"results"`
		Error       string               `json:"error,omitempty"`
	}{
		OperationID: report.OperationID,
		StallDir:    report.StallDir,
		Direction:   string(report.Direction),
		DryRun:      report.DryRun,
		Force:       report.Force,
		Started:     report.StartTime.Format(time.RFC3339),
		DurationMs:  report.Duration.Milliseconds(),
		Status:      string(report.Status),
		Empty:       report.Empty,
		Stats:       statsData(report.Stats),
		Results:     report.Results,
		Error:       report.Error,
	}
	if output.Results == nil {
		output.Results = []models.EntryResult{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

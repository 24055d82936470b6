package output

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/sdejongh/stall/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and scripting
type JSONFormatter struct {
	opts    Options
	encoder *json.Encoder

	// first entry event that failed to write, reported by Complete
	err error
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONStartData represents the data for a start event
type JSONStartData struct {
	OperationID  string `json:"operation_id"`
	Direction    string `json:"direction"`
	StallDir     string `json:"stall_dir"`
	DryRun       bool   `json:"dry_run"`
	Force        bool   `json:"force"`
	TotalEntries int    `json:"total_entries"`
}

// JSONEntryData represents an evaluated entry
type JSONEntryData struct {
	Local        string `json:"local"`
	Remote       string `json:"remote"`
	LocalStatus  string `json:"local_status"`
	RemoteStatus string `json:"remote_status"`
	Action       string `json:"action,omitempty"`
	Error        string `json:"error,omitempty"`
}

// JSONSummaryData represents the final report data
type JSONSummaryData struct {
	Status     string        `json:"status"`
	Empty      bool          `json:"empty,omitempty"`
	Duration   string        `json:"duration"`
	DurationMs int64         `json:"duration_ms"`
	Stats      JSONStatsData `json:"stats"`
	Error      string        `json:"error,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	EntriesEvaluated int   `json:"entries_evaluated"`
	FilesCopied      int   `json:"files_copied"`
	FilesForced      int   `json:"files_forced"`
	FilesPlanned     int   `json:"files_planned"`
	FilesSkipped     int   `json:"files_skipped"`
	FilesStopped     int   `json:"files_stopped"`
	FilesErrored     int   `json:"files_errored"`
	BytesCopied      int64 `json:"bytes_copied"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts Options) *JSONFormatter {
	opts = opts.withDefaults()
	return &JSONFormatter{
		opts:    opts,
		encoder: json.NewEncoder(opts.Writer),
	}
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	return f.encoder.Encode(JSONEvent{
		Timestamp: f.opts.Clock.Now(),
		Type:      eventType,
		Data:      data,
	})
}

// Start emits a start event
func (f *JSONFormatter) Start(op *models.SyncOperation, totalEntries int) error {
	return f.emit("start", JSONStartData{
		OperationID:  op.ID,
		Direction:    string(op.Direction),
		StallDir:     op.StallDir,
		DryRun:       op.DryRun,
		Force:        op.Force,
		TotalEntries: totalEntries,
	})
}

// OnEntryEvaluated emits an entry event
func (f *JSONFormatter) OnEntryEvaluated(entry models.Entry, status models.StatusPair, action models.Action) {
	if err := f.emit("entry", entryData(entry, status, action)); err != nil && f.err == nil {
		f.err = err
	}
}

// Status emits one entry event per inspected entry
func (f *JSONFormatter) Status(stallDir string, results []models.EntryResult) error {
	for _, result := range results {
		data := entryData(result.Entry, result.Status, "")
		data.Error = result.Error
		if err := f.emit("entry", data); err != nil {
			return err
		}
	}
	return nil
}

// Complete emits a summary event and reports any earlier entry write failure
func (f *JSONFormatter) Complete(report *models.SyncReport) error {
	if err := f.emit("summary", JSONSummaryData{
		Status:     string(report.Status),
		Empty:      report.Empty,
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats:      statsData(report.Stats),
		Error:      report.Error,
	}); err != nil {
		return err
	}
	return f.err
}

// Error emits an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{
		"error": err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func entryData(entry models.Entry, status models.StatusPair, action models.Action) JSONEntryData {
	return JSONEntryData{
		Local:        entry.Local,
		Remote:       entry.Remote,
		LocalStatus:  string(status.Local),
		RemoteStatus: string(status.Remote),
		Action:       string(action),
	}
}

func statsData(s models.Statistics) JSONStatsData {
	return JSONStatsData{
		EntriesEvaluated: s.EntriesEvaluated,
		FilesCopied:      s.FilesCopied,
		FilesForced:      s.FilesForced,
		FilesPlanned:     s.FilesPlanned,
		FilesSkipped:     s.FilesSkipped,
		FilesStopped:     s.FilesStopped,
		FilesErrored:     s.FilesErrored,
		BytesCopied:      s.BytesCopied,
	}
}

package output

import (
	"github.com/sdejongh/stall/pkg/models"
)

// Observer receives every decision the engine makes
type Observer interface {
	// OnEntryEvaluated is called once per entry, before any copy happens
	OnEntryEvaluated(entry models.Entry, status models.StatusPair, action models.Action)
}

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	Observer

	// Start announces a collect or distribute run over totalEntries entries
	Start(op *models.SyncOperation, totalEntries int) error

	// Status prints the result of a status inspection
	Status(stallDir string, results []models.EntryResult) error

	// Complete finalizes output and displays summary
	Complete(report *models.SyncReport) error

	// Error reports an error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// EmptyStallMessage is printed when a command finds no entries
const EmptyStallMessage = "No files in stall. Use `add` command to place files in the stall."

// New returns the formatter registered under name
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, &models.ValidationError{Field: "output", Message: "unknown output format " + name}
	}
}

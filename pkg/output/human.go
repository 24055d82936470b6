package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/sdejongh/stall/internal/platform"
	"github.com/sdejongh/stall/pkg/models"
)

// Options configures a formatter
type Options struct {
	// Writer receives regular output (default os.Stdout)
	Writer io.Writer

	// ErrWriter receives error messages (default os.Stderr)
	ErrWriter io.Writer

	// ShortNames prints file names without their directories
	ShortNames bool

	// Color enables ANSI colours in human output
	Color bool

	// Quiet suppresses everything but errors
	Quiet bool

	// Clock stamps JSON events (default real clock)
	Clock clockwork.Clock
}

func (o Options) withDefaults() Options {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.ErrWriter == nil {
		o.ErrWriter = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

// palette holds the colours used by the human formatter
type palette struct {
	title  *color.Color
	good   *color.Color
	warn   *color.Color
	bad    *color.Color
	plain  *color.Color
	forced *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		title:  color.New(color.FgHiWhite, color.Bold),
		good:   color.New(color.FgHiGreen),
		warn:   color.New(color.FgHiYellow),
		bad:    color.New(color.FgHiRed),
		plain:  color.New(color.FgWhite),
		forced: color.New(color.FgHiMagenta),
	}
	for _, c := range []*color.Color{p.title, p.good, p.warn, p.bad, p.plain, p.forced} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) status(s models.Status) *color.Color {
	switch s {
	case models.StatusError:
		return p.bad
	case models.StatusAbsent, models.StatusOlder:
		return p.warn
	case models.StatusExists, models.StatusNewer:
		return p.good
	default:
		return p.plain
	}
}

func (p palette) action(a models.Action) *color.Color {
	switch a {
	case models.ActionCopy:
		return p.good
	case models.ActionForce:
		return p.forced
	case models.ActionStop:
		return p.bad
	default:
		return p.plain
	}
}

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	opts   Options
	colors palette
	dryRun bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	opts = opts.withDefaults()
	return &HumanFormatter{
		opts:   opts,
		colors: newPalette(opts.Color),
	}
}

// Start prints the run header and the table heading
func (f *HumanFormatter) Start(op *models.SyncOperation, totalEntries int) error {
	f.dryRun = op.DryRun
	if f.opts.Quiet {
		return nil
	}

	label := "Copy destination:"
	if op.Direction == models.DirectionDistribute {
		label = "Copy source:"
	}
	fmt.Fprintf(f.opts.Writer, "%s %s\n", f.colors.title.Sprint(label), op.StallDir)
	if op.DryRun {
		fmt.Fprintf(f.opts.Writer, "Dry run: no files will be copied\n")
	}
	fmt.Fprintf(f.opts.Writer, "%s\n", f.colors.title.Sprint("    LOCAL  REMOTE ACTION FILE"))
	return nil
}

// OnEntryEvaluated prints one table row
func (f *HumanFormatter) OnEntryEvaluated(entry models.Entry, status models.StatusPair, action models.Action) {
	if f.opts.Quiet {
		return
	}
	fmt.Fprintf(f.opts.Writer, "    %s%s%s%s\n",
		f.colors.status(status.Local).Sprintf("%-7s", status.Local),
		f.colors.status(status.Remote).Sprintf("%-7s", status.Remote),
		f.colors.action(action).Sprintf("%-7s", action),
		f.name(entry))
}

// Status prints the status table of an inspection
func (f *HumanFormatter) Status(stallDir string, results []models.EntryResult) error {
	if f.opts.Quiet {
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintln(f.opts.Writer, EmptyStallMessage)
		return nil
	}

	fmt.Fprintf(f.opts.Writer, "%s %s\n", f.colors.title.Sprint("Stall directory:"), stallDir)
	fmt.Fprintf(f.opts.Writer, "%s\n", f.colors.title.Sprint("    LOCAL  REMOTE FILE"))
	for _, result := range results {
		fmt.Fprintf(f.opts.Writer, "    %s%s%s\n",
			f.colors.status(result.Status.Local).Sprintf("%-7s", result.Status.Local),
			f.colors.status(result.Status.Remote).Sprintf("%-7s", result.Status.Remote),
			f.name(result.Entry))
	}
	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.SyncReport) error {
	if f.opts.Quiet {
		return nil
	}
	w := f.opts.Writer

	if report.Empty {
		fmt.Fprintln(w, EmptyStallMessage)
		return nil
	}

	stats := report.Stats
	parts := []string{}
	if report.DryRun {
		parts = append(parts, fmt.Sprintf("%d to copy", stats.FilesPlanned))
	} else {
		copied := fmt.Sprintf("%d copied", stats.FilesCopied)
		if stats.FilesForced > 0 {
			copied += fmt.Sprintf(" (%d forced)", stats.FilesForced)
		}
		parts = append(parts, copied)
	}
	parts = append(parts, fmt.Sprintf("%d skipped", stats.FilesSkipped))
	if stats.FilesStopped > 0 {
		parts = append(parts, f.colors.warn.Sprintf("%d stopped", stats.FilesStopped))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, f.colors.bad.Sprintf("%d failed", stats.FilesErrored))
	}

	fmt.Fprintf(w, "\n%s %s\n", f.colors.title.Sprint("Summary:"), strings.Join(parts, ", "))
	if stats.BytesCopied > 0 {
		fmt.Fprintf(w, "Transferred %s in %s\n",
			humanize.Bytes(uint64(stats.BytesCopied)),
			report.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Status: %s\n", f.statusColor(report.Status).Sprint(report.Status))
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.opts.ErrWriter, "%s %v\n", f.colors.bad.Sprint("Error:"), err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) name(entry models.Entry) string {
	if f.opts.ShortNames {
		return platform.ShortName(entry.Remote)
	}
	return entry.Remote
}

func (f *HumanFormatter) statusColor(s models.SyncStatus) *color.Color {
	switch s {
	case models.StatusFailed:
		return f.colors.bad
	case models.StatusWarning:
		return f.colors.warn
	default:
		return f.colors.good
	}
}

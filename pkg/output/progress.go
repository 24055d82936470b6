package output

import (
	"io"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }}`

// getUpdateInterval returns the progress refresh interval based on OS
// Windows terminals have higher latency with ANSI sequences
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// Progress draws a byte progress bar for each copied file
type Progress struct {
	writer io.Writer
}

// NewProgress creates a progress reporter drawing on w
func NewProgress(w io.Writer) *Progress {
	return &Progress{writer: w}
}

// Wrap returns a reader advancing a new bar and the function that finishes
// it. Its signature matches storage.ProgressFunc.
func (p *Progress) Wrap(r io.Reader, size int64, name string) (io.Reader, func()) {
	bar := pb.New64(size)
	bar.SetWriter(p.writer)
	bar.SetTemplateString(progressTemplate)
	bar.SetRefreshRate(getUpdateInterval())
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", "    "+name+" ")
	bar.Start()

	return bar.NewProxyReader(r), func() { bar.Finish() }
}

package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dircompare/pkg/models"
)

const (
	progressTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "prefix"}}`
	minBarWidth      = 40
	maxNameWidth     = 40
)

// ProgressFormatter shows a bar over the common files while they are hashed.
// On anything other than a terminal it behaves like the human formatter.
type ProgressFormatter struct {
	human *HumanFormatter

	mu     sync.Mutex
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{human: NewHumanFormatter()}
}

// Start creates the bar when writer is a terminal
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writer = writer
	if err := f.human.Start(writer, totalFiles); err != nil {
		return err
	}

	width, ok := terminalWidth(writer)
	if !ok || totalFiles == 0 {
		return nil
	}

	bar := pb.New(totalFiles)
	bar.SetWriter(writer)
	bar.SetTemplateString(progressTemplate)
	if width > minBarWidth {
		bar.SetWidth(width)
	}
	bar.Start()
	f.bar = bar
	return nil
}

// Progress advances the bar and prints notices above it
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return f.human.Progress(update)
	}

	switch update.Type {
	case UpdateHashStart:
		f.bar.Set("prefix", truncateName(update.Name, maxNameWidth))
	case UpdateHashComplete:
		f.bar.Increment()
	case UpdateOversized:
		f.bar.Increment()
		fmt.Fprintf(f.writer, "\r%s\n", update.Notice)
	case UpdateReadError:
		f.bar.Increment()
		fmt.Fprintf(f.writer, "\r✗ %s: %v\n", update.Name, update.Error)
	}
	return nil
}

// Complete stops the bar and prints the human report
func (f *ProgressFormatter) Complete(report *models.CompareReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finish()
	return f.human.Complete(report)
}

// Error stops the bar and reports an error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finish()
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) finish() {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}

// terminalWidth reports the width of writer when it is a terminal
func terminalWidth(writer io.Writer) (int, bool) {
	file, ok := writer.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0, true
	}
	return width, true
}

// truncateName shortens a name to max runes, keeping its tail
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	if max <= 3 {
		return string(runes[len(runes)-max:])
	}
	return "..." + string(runes[len(runes)-(max-3):])
}

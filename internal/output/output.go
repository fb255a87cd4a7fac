// Package output handles CLI output formatting including verbose mode and progress indicators.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"eventdate/internal/audit"
	"eventdate/internal/classifier"
	"eventdate/internal/orchestrator"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output handles formatted output with verbose and progress support.
type Output struct {
	config          Config
	progressActive  bool
	progressTotal   int
	progressCurrent int
	mu              sync.Mutex // guards progress state and serializes writes
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// DefaultConfig returns a Config writing to stdout and stderr, with TTY
// detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.println(o.config.Writer, format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.println(o.config.Writer, format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, format, args...)
}

// println clears any progress line and writes one message ending in a newline.
func (o *Output) println(w io.Writer, format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.clearProgressLineLocked()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

func (o *Output) clearProgressLineLocked() {
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

// FormatClassification renders c on one line: the verdict, the quoted value,
// its format, then the failure reason or the date range it covers.
func FormatClassification(c *classifier.Classification) string {
	verdict := "PASS"
	if c.Failed() {
		verdict = "FAIL"
	}
	line := fmt.Sprintf("%s %q [%s]", verdict, c.Value, c.Format)
	switch {
	case c.Failed():
		line += " " + string(c.Reason)
	case c.Start != "":
		line += " " + c.Start + ".." + c.End
	}
	return line
}

// Classification prints the result of checking a single value. In verbose
// mode the range components and each measure's outcome follow.
func (o *Output) Classification(c *classifier.Classification) {
	o.Info("%s", FormatClassification(c))
	if !o.config.Verbose {
		return
	}
	if len(c.Components) > 0 {
		o.Info("  components: %s", strings.Join(c.Components, " | "))
	}
	for _, m := range classifier.AllMeasures {
		if result, ok := c.Results[m]; ok {
			o.Info("  %s: %t", m, result)
		}
	}
}

// CheckedValue prints a value read from a file. Failures are always shown;
// passing values only in verbose mode.
func (o *Output) CheckedValue(path string, line int, c *classifier.Classification) {
	if c.Passed() && !o.config.Verbose {
		return
	}
	o.Info("%s:%d: %s", path, line, FormatClassification(c))
}

// Summary prints the run summary with failures broken down by reason, and
// in verbose mode by format too.
func (o *Output) Summary(s *orchestrator.RunSummary) {
	o.Info("%s", s.String())
	for _, reason := range audit.SortedCounts(s.ByReason) {
		o.Info("  %s: %d", reason, s.ByReason[reason])
	}
	if !o.config.Verbose {
		return
	}
	if len(s.ByFormat) > 0 {
		o.Info("Formats:")
		for _, format := range audit.SortedCounts(s.ByFormat) {
			o.Info("  %s: %d", format, s.ByFormat[format])
		}
	}
	o.Info("Duration: %s", s.Duration)
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress rewrites the progress line in place. An empty message
// defaults to "Checking file".
func (o *Output) UpdateProgress(current int, message string) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	if message == "" {
		message = "Checking file"
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", message, current, o.progressTotal)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	o.clearProgressLineLocked()
	o.progressActive = false
}

// progressEnabled reports whether progress is drawn: only on a terminal and
// never alongside verbose output.
func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

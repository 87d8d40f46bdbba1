package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// referenceProgressReporter is a spinner shown on stderr while update walks
// a project's References, one tick per reference resolved+hashed. It's a
// no-op when stderr isn't a terminal or --json was requested, since neither
// consumer wants an interleaved status line.
type referenceProgressReporter struct {
	enabled bool
	label   string
	total   int
	start   time.Time
	spinner int
	lastLen int
}

func newReferenceProgressReporter(label string, total int, asJSON bool) *referenceProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &referenceProgressReporter{
		enabled: enabled,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

// Update reports progress against the markdown source file the current
// reference came from.
func (r *referenceProgressReporter) Update(source string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	source = strings.TrimSpace(source)
	if len(source) > 88 {
		source = "..." + source[len(source)-85:]
	}

	status := fmt.Sprintf("%s %s %d resolving %s", frame, r.label, count, source)
	if r.total > 0 {
		status = fmt.Sprintf("%s %s %d/%d resolving %s", frame, r.label, count, r.total, source)
	}
	r.printStatus(status)
}

func (r *referenceProgressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	status := fmt.Sprintf("%s complete (%d references in %s)", r.label, count, elapsed)
	r.printStatus(status)
	fmt.Fprintln(os.Stderr)
}

func (r *referenceProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}

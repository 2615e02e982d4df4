// Package notify delivers short user-facing notices.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Severity tags a notice.
type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

// Notifier accepts fire-and-forget notices: a short title, a descriptive
// message, and a severity tag. Implementations must not block and there is
// no acknowledgment.
type Notifier interface {
	Notify(title, message string, sev Severity)
}

// Writer prints notices to an io.Writer, one per line.
type Writer struct {
	Out io.Writer
}

// NewStderr returns a Writer notifier on standard error.
func NewStderr() *Writer {
	return &Writer{Out: os.Stderr}
}

func (w *Writer) Notify(title, message string, sev Severity) {
	marker := "*"
	if sev == SeverityDestructive {
		marker = "!"
	}
	fmt.Fprintf(w.Out, "%s %s: %s\n", marker, title, message)
}

// Notice is one recorded notification.
type Notice struct {
	Title    string
	Message  string
	Severity Severity
}

// Spy records notices for tests.
type Spy struct {
	Notices []Notice
}

func (s *Spy) Notify(title, message string, sev Severity) {
	s.Notices = append(s.Notices, Notice{Title: title, Message: message, Severity: sev})
}

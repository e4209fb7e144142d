package quant

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the sink an Attributes object is given; it is advisory only
// (spec §7) — a nil Logger, or one that panics, never changes an
// operation's outcome.
type Logger interface {
	Logf(format string, args ...any)
}

// logrusSink adapts a *logrus.Entry to Logger.
type logrusSink struct {
	entry *logrus.Entry
}

// NewLogrusSink wraps a logrus entry as the engine's Logger. A nil entry
// uses the package-level default logger.
func NewLogrusSink(entry *logrus.Entry) Logger {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return &logrusSink{entry: entry}
}

func (s *logrusSink) Logf(format string, args ...any) {
	s.entry.Infof(format, args...)
}

// bufferedSink gives each worker goroutine its own line buffer and
// serializes the merge into the parent sink, matching the "buffered log
// helper... serializes writes per worker and flushes on completion"
// contract of spec §5 without taking a lock on every log line.
type bufferedSink struct {
	parent Logger
	mu     sync.Mutex
	lines  []string
}

func newBufferedSink(parent Logger) *bufferedSink {
	return &bufferedSink{parent: parent}
}

// worker returns a per-goroutine Logger that appends into this sink's
// buffer under a single lock per call, not per line of work.
func (b *bufferedSink) worker() *workerSink {
	return &workerSink{parent: b, buf: &strings.Builder{}}
}

func (b *bufferedSink) append(s string) {
	b.mu.Lock()
	b.lines = append(b.lines, s)
	b.mu.Unlock()
}

// Flush emits every buffered line to the parent sink and clears the
// buffer. Safe to call once per operation, from the owning goroutine.
func (b *bufferedSink) Flush() {
	if b.parent == nil {
		b.lines = nil
		return
	}
	safeLogf(b.parent, "%s", strings.Join(b.lines, "\n"))
	b.lines = nil
}

type workerSink struct {
	parent *bufferedSink
	buf    *strings.Builder
}

func (w *workerSink) Logf(format string, args ...any) {
	if w.buf.Len() > 0 {
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString(fmt.Sprintf(format, args...))
}

// flush hands this worker's buffered lines to the parent sink. Called once
// the worker's pixel loop or histogram pass completes.
func (w *workerSink) flush() {
	if w.buf.Len() == 0 {
		return
	}
	w.parent.append(w.buf.String())
	w.buf.Reset()
}

// safeLogf calls through to a caller-supplied Logger, recovering from any
// panic so a misbehaving sink can never change the engine's result.
func safeLogf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	defer func() { _ = recover() }()
	l.Logf(format, args...)
}

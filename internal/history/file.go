package history

import (
	"fmt"
	"io"
	"sync"
)

// WriterSink appends one line per recorded entry to an underlying
// io.Writer — typically an *os.File opened in append mode. Safe for
// concurrent use.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Record writes e as a single line, best-effort: a write failure is
// dropped rather than propagated, since losing one audit line must
// never interrupt a running match.
func (s *WriterSink) Record(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, e.String())
}

// Multi fans a single Record call out to every sink in order.
type Multi []Sink

// Record calls Record on each underlying sink.
func (m Multi) Record(e Entry) {
	for _, s := range m {
		s.Record(e)
	}
}

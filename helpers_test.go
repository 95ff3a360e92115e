package pinlog

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

func testHost(t *testing.T) *StaticHost {
	t.Helper()
	return &StaticHost{
		Name:    "Pin Demo",
		Package: "com.example.pin",
		Version: "1.2.0",
		Code:    "12",
		Dir:     t.TempDir(),
	}
}

// newTestLogger returns an initialized Logger whose clock is frozen at
// fixedNow and whose console output is discarded.
func newTestLogger(t *testing.T, opts ...Option) (*Logger, *StaticHost) {
	t.Helper()
	host := testHost(t)
	l := New()
	l.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = l.Close() })

	opts = append([]Option{WithConsole(io.Discard)}, opts...)
	require.True(t, l.Initialize(host, opts...))
	return l, host
}

type stringCollector struct {
	mu   sync.Mutex
	seen []string
}

func (c *stringCollector) OnLogAdded(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, s)
}

func (c *stringCollector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

type recordCollector struct {
	mu   sync.Mutex
	seen []LogRecord
}

func (c *recordCollector) OnRecordAdded(r LogRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, r)
}

func (c *recordCollector) all() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LogRecord(nil), c.seen...)
}

type faultRecorder struct {
	mu         sync.Mutex
	goroutines []string
	causes     []error
}

func (r *faultRecorder) HandleFault(goroutine string, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goroutines = append(r.goroutines, goroutine)
	r.causes = append(r.causes, cause)
}

func (r *faultRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.goroutines)
}

package pinlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdityaBavadekar/PinLog/internal/store"
)

// Query selects records for browsing. See the store package for fields.
type Query = store.Query

// Stats summarizes stored records.
type Stats = store.Stats

// HistogramPoint is one bucket of Histogram.
type HistogramPoint = store.HistogramPoint

const (
	SortByID    = store.SortByID
	SortByLevel = store.SortByLevel
)

// readyStore returns the store, or nil with a diagnostic before
// initialization.
func (l *Logger) readyStore(op string) *store.Store {
	snap := l.snapshot()
	if !snap.initialized || snap.st == nil {
		l.internal(WARN, "PinLog is not initialized; "+op+" called before Initialize", nil)
		return nil
	}
	return snap.st
}

// GetAllLogs returns stored records oldest first, truncated to the first
// maxCount when maxCount > 0. With deleteAfterRead every record returned or
// truncated away is removed, so a second call does not see them again.
// Records still queued for persistence are not included; call Sync first
// to include them.
func (l *Logger) GetAllLogs(deleteAfterRead bool, maxCount int) []LogRecord {
	st := l.readyStore("GetAllLogs")
	if st == nil {
		return []LogRecord{}
	}
	all := st.GetAll()
	if deleteAfterRead && len(all) > 0 {
		st.DeleteThrough(all[len(all)-1].ID)
	}
	if maxCount > 0 && len(all) > maxCount {
		all = all[:maxCount]
	}
	return all
}

// GetAllLogsAsStrings is GetAllLogs returning only the formatted text.
func (l *Logger) GetAllLogsAsStrings(deleteAfterRead bool) []string {
	records := l.GetAllLogs(deleteAfterRead, 0)
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

// GetAllLogsAsSingleString joins every stored record with newlines. It
// returns false before initialization.
func (l *Logger) GetAllLogsAsSingleString(deleteAfterRead bool) (string, bool) {
	if l.readyStore("GetAllLogsAsSingleString") == nil {
		return "", false
	}
	return strings.Join(l.GetAllLogsAsStrings(deleteAfterRead), "\n"), true
}

// GetLogsCount returns the number of stored records.
func (l *Logger) GetLogsCount() int {
	st := l.readyStore("GetLogsCount")
	if st == nil {
		return 0
	}
	return st.Count()
}

// GetLogsGroupCount returns the number of full pages of store.GroupSize
// records.
func (l *Logger) GetLogsGroupCount() int {
	st := l.readyStore("GetLogsGroupCount")
	if st == nil {
		return 0
	}
	return st.GroupCount()
}

// DeleteAllLogs removes every stored record.
func (l *Logger) DeleteAllLogs() {
	if st := l.readyStore("DeleteAllLogs"); st != nil {
		st.DeleteAll()
	}
}

// DeleteExpiredLogs removes records at least retentionDays old and returns
// how many were removed.
func (l *Logger) DeleteExpiredLogs(retentionDays int) int {
	st := l.readyStore("DeleteExpiredLogs")
	if st == nil {
		return 0
	}
	return st.DeleteExpiredAt(retentionDays, l.now())
}

// DefaultSweepInterval replaces a non-positive StartExpirySweeper interval.
const DefaultSweepInterval = 24 * time.Hour

// StartExpirySweeper deletes expired records every interval until ctx is
// done. Nothing sweeps unless this is called.
func (l *Logger) StartExpirySweeper(ctx context.Context, interval time.Duration, retentionDays int) {
	if interval <= 0 {
		l.internal(WARN, fmt.Sprintf("non-positive sweep interval %s, using %s", interval, DefaultSweepInterval), nil)
		interval = DefaultSweepInterval
	}
	l.internal(INFO, "expiry sweeper started", nil)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.DeleteExpiredLogs(retentionDays); n > 0 {
					l.internal(INFO, "expired logs deleted", nil)
				}
			}
		}
	}()
}

// QueryLogs returns records matching q without deleting anything.
func (l *Logger) QueryLogs(q Query) ([]LogRecord, error) {
	st := l.readyStore("QueryLogs")
	if st == nil {
		return []LogRecord{}, nil
	}
	return st.Query(q)
}

// Tags returns the distinct stored tags.
func (l *Logger) Tags() []string {
	st := l.readyStore("Tags")
	if st == nil {
		return []string{}
	}
	return st.Tags()
}

// Stats summarizes stored records.
func (l *Logger) Stats() Stats {
	st := l.readyStore("Stats")
	if st == nil {
		return Stats{LevelDist: map[string]int{}, TopTags: map[string]int{}}
	}
	return st.Stats()
}

// LogsAfter returns records with an id greater than id, oldest first.
func (l *Logger) LogsAfter(id int64) []LogRecord {
	st := l.readyStore("LogsAfter")
	if st == nil {
		return []LogRecord{}
	}
	return st.After(id)
}

// Histogram counts records matching expression per interval bucket.
func (l *Logger) Histogram(interval time.Duration, expression string) ([]HistogramPoint, error) {
	st := l.readyStore("Histogram")
	if st == nil {
		return []HistogramPoint{}, nil
	}
	return st.Histogram(interval, expression)
}

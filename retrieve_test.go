package pinlog

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logN(l *Logger, n int) {
	for i := 0; i < n; i++ {
		l.Info("Main", fmt.Sprintf("m%d", i))
	}
	l.Sync()
}

func TestGetAllLogsOrdered(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 4)

	records := l.GetAllLogs(false, 0)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].ID, records[i].ID)
	}
	assert.Equal(t, 4, l.GetLogsCount())
}

func TestGetAllLogsConsumesOnce(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 3)

	first := l.GetAllLogs(true, 0)
	assert.Len(t, first, 3)
	assert.Empty(t, l.GetAllLogs(true, 0))
	assert.Equal(t, 0, l.GetLogsCount())

	l.Info("Main", "later")
	l.Sync()
	later := l.GetAllLogsAsStrings(true)
	require.Len(t, later, 1)
	assert.Contains(t, later[0], "later")
}

func TestGetAllLogsMaxCount(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 5)

	peek := l.GetAllLogs(false, 2)
	require.Len(t, peek, 2)
	assert.Contains(t, peek[0].Message, "m0")
	assert.Equal(t, 5, l.GetLogsCount())

	// Consuming with a limit drops the truncated tail as well.
	consumed := l.GetAllLogs(true, 2)
	assert.Len(t, consumed, 2)
	assert.Equal(t, 0, l.GetLogsCount())
}

func TestSingleString(t *testing.T) {
	l, _ := newTestLogger(t)
	l.SetFormatter(FormatterFunc(func(e Entry) string { return e.Message }))
	logN(l, 3)

	s, ok := l.GetAllLogsAsSingleString(false)
	require.True(t, ok)
	assert.Equal(t, "m0\nm1\nm2", s)
}

func TestDeleteAllLogsIdempotent(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 3)

	l.DeleteAllLogs()
	assert.Equal(t, 0, l.GetLogsCount())
	l.DeleteAllLogs()
	assert.Equal(t, 0, l.GetLogsCount())
	assert.Empty(t, l.GetAllLogs(false, 0))
}

func TestDeleteExpiredLogs(t *testing.T) {
	l, _ := newTestLogger(t)
	day := 24 * time.Hour

	for _, age := range []time.Duration{30 * day, 8 * day, day, 0} {
		created := fixedNow.Add(-age)
		l.now = func() time.Time { return created }
		l.Info("Main", fmt.Sprintf("age %s", age))
	}
	l.now = func() time.Time { return fixedNow }
	l.Sync()

	assert.Equal(t, 2, l.DeleteExpiredLogs(DefaultRetentionDays))
	records := l.GetAllLogs(false, 0)
	require.Len(t, records, 2)
	assert.Equal(t, fixedNow.Add(-day).UnixMilli(), records[0].CreatedAt)
	assert.Equal(t, fixedNow.UnixMilli(), records[1].CreatedAt)
}

func TestExpirySweeper(t *testing.T) {
	l, _ := newTestLogger(t)
	old := fixedNow.Add(-10 * 24 * time.Hour)
	l.now = func() time.Time { return old }
	l.Info("Main", "stale")
	l.Sync()
	l.now = func() time.Time { return fixedNow }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.StartExpirySweeper(ctx, 10*time.Millisecond, DefaultRetentionDays)

	assert.Eventually(t, func() bool { return l.GetLogsCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestExpirySweeperNonPositiveInterval(t *testing.T) {
	var buf bytes.Buffer
	l, _ := newTestLogger(t, WithConsole(&buf), WithDevLogging(true))
	old := fixedNow.Add(-10 * 24 * time.Hour)
	l.now = func() time.Time { return old }
	l.Info("Main", "stale")
	l.Sync()
	l.now = func() time.Time { return fixedNow }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, interval := range []time.Duration{0, -time.Second} {
		assert.NotPanics(t, func() { l.StartExpirySweeper(ctx, interval, DefaultRetentionDays) })
	}
	assert.Contains(t, buf.String(), "non-positive sweep interval")

	// Falls back to DefaultSweepInterval, so nothing is swept yet.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, l.GetLogsCount())
}

func TestQueryTagsStats(t *testing.T) {
	l, _ := newTestLogger(t)
	l.Warn("Net", "timeout")
	l.Error("Db", "disk full")
	l.Debug("Net", "dns")
	l.Sync()

	got, err := l.QueryLogs(Query{Expression: "tag:Net AND level:W"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, WARN, got[0].Level)

	assert.Equal(t, []string{"Db", "Net"}, l.Tags())

	st := l.Stats()
	assert.Equal(t, int64(3), st.TotalLogs)
	assert.Equal(t, 2, st.TopTags["Net"])
	assert.Equal(t, 3, l.GetLogsCount(), "browsing must not consume")
}
